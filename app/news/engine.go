package news

import (
	"slices"
	"strings"
	"time"
)

const DefaultPageSize = 5

// ComputeVisible filters, sorts and paginates all. It has no side effects.
// A page past the end yields an empty Visible slice.
func ComputeVisible(all []Item, filters FilterState, page, pageSize int, now time.Time) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	matched := Filter(all, filters, now)
	Sort(matched, filters.SortOrder)

	total := len(matched)
	result := Page{
		Visible:      []Item{},
		TotalResults: total,
		TotalPages:   (total + pageSize - 1) / pageSize,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return result
	}
	end := min(start+pageSize, total)
	result.Visible = matched[start:end]

	return result
}

// Filter returns the items matching every criterion of filters, in input
// order. The input slice is not modified.
func Filter(all []Item, filters FilterState, now time.Time) []Item {
	query := strings.ToLower(filters.SearchQuery)

	result := make([]Item, 0, len(all))
	for _, item := range all {
		if !matchesQuery(item, query) {
			continue
		}
		if !matchesCategory(item, filters.SelectedCategories, filters.SelectedSubcategories) {
			continue
		}
		if filters.TodayOnly && !sameLocalDay(item.Time(), now) {
			continue
		}
		result = append(result, item)
	}

	return result
}

// Sort orders items by date in place. Equal dates keep their relative order.
func Sort(items []Item, order SortOrder) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if order == SortOldest {
			return a.Time().Compare(b.Time())
		}
		return b.Time().Compare(a.Time())
	})
}

func matchesQuery(item Item, query string) bool {
	if query == "" {
		return true
	}
	return contains(item.Text, query) ||
		contains(item.Title, query) ||
		contains(item.Subcategory, query)
}

// Categories and subcategories are OR-ed when both are selected. Names
// compare case-insensitively: the backend reports "спорт" where the panel
// shows "Спорт".
func matchesCategory(item Item, categories, subcategories []string) bool {
	byCategory := len(categories) > 0
	bySubcategory := len(subcategories) > 0

	switch {
	case byCategory && bySubcategory:
		return containsFold(categories, item.Category) || containsFold(subcategories, item.Subcategory)
	case byCategory:
		return containsFold(categories, item.Category)
	case bySubcategory:
		return containsFold(subcategories, item.Subcategory)
	default:
		return true
	}
}

func containsFold(values []string, value string) bool {
	if value == "" {
		return false
	}
	return slices.ContainsFunc(values, func(v string) bool {
		return strings.EqualFold(v, value)
	})
}

func sameLocalDay(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	y1, m1, d1 := t.In(time.Local).Date()
	y2, m2, d2 := now.In(time.Local).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func contains(value, lowerPattern string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), lowerPattern)
}
