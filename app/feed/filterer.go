package feed

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// FilterFields lists the item fields a source filter may inspect.
var FilterFields = []string{"title", "description", "content", "authors", "link", "categories", "source", "category"}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run marks items rejected by the source filters. Items are never dropped
// here so the caller can log why something was skipped.
func (f *Filterer) Run(items []Item, source Source) []Item {
	if len(source.Filters) == 0 {
		return items
	}

	marked := make([]Item, 0, len(items))
	for _, item := range items {
		item.IsFiltered, item.FilterReason = f.reject(item, source.Filters)
		if item.IsFiltered {
			slog.Debug("Item filtered", "source", source.Name, "title", item.Title, "reason", item.FilterReason)
		}
		marked = append(marked, item)
	}

	return marked
}

// reject applies filters in order. Excludes win over includes; an include
// list keeps only items matching at least one entry.
func (f *Filterer) reject(item Item, filters []ConfigFilter) (bool, string) {
	for _, filter := range filters {
		value := strings.ToLower(fieldValue(item, filter.Field))
		contains := func(pattern string) bool {
			return strings.Contains(value, strings.ToLower(pattern))
		}

		if idx := slices.IndexFunc(filter.Excludes, contains); idx >= 0 {
			return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, filter.Excludes[idx])
		}
		if len(filter.Includes) > 0 && !slices.ContainsFunc(filter.Includes, contains) {
			return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
		}
	}

	return false, ""
}

func fieldValue(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "content":
		return item.Content
	case "authors":
		return strings.Join(item.Authors, " ")
	case "link":
		return item.Link
	case "categories":
		return strings.Join(item.Categories, " ")
	case "source":
		return item.Source
	case "category":
		return item.Category
	default:
		return ""
	}
}
