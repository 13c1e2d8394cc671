package news

import "time"

// LastUpdateLayout is how the backend reports the time of the last update.
const LastUpdateLayout = "2006-01-02T15:04:05"

// Snapshot is the result of one backend update run.
type Snapshot struct {
	All          []APIItem
	Top          []APIItem
	Categories   []string // configured categories in order, empty ones included
	SourcesCount int
	LastUpdate   time.Time
}

func (s *Snapshot) Empty() bool {
	return s == nil || s.LastUpdate.IsZero()
}

// ByCategory returns the items of category. ok is false when the category is
// not configured.
func (s *Snapshot) ByCategory(category string) (items []APIItem, ok bool) {
	found := false
	for _, name := range s.Categories {
		if name == category {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}

	items = []APIItem{}
	for _, item := range s.All {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items, true
}

// CategoryCounts lists configured categories with their item counts.
func (s *Snapshot) CategoryCounts() []APICategory {
	counts := make(map[string]int, len(s.Categories))
	for _, item := range s.All {
		counts[item.Category]++
	}

	listing := make([]APICategory, 0, len(s.Categories))
	for _, name := range s.Categories {
		listing = append(listing, APICategory{Category: name, Count: counts[name], NewsCount: counts[name]})
	}
	return listing
}

// LastUpdateString is nil until the first update.
func (s *Snapshot) LastUpdateString() *string {
	if s.Empty() {
		return nil
	}
	formatted := s.LastUpdate.In(time.Local).Format(LastUpdateLayout)
	return &formatted
}
