// Package store holds the reader's filter state and current page.
//
// A Store has a single owner (the view's event loop) and is not safe for
// concurrent use. Filter changes always replace the whole FilterState and
// reset the page to 1.
package store

import (
	"slices"

	"github.com/lysyi3m/newsdesk/app/news"
)

type State struct {
	Filters news.FilterState
	Page    int
}

type Store struct {
	filters    news.FilterState
	page       int
	categories []news.Category
}

func New(categories []news.Category) *Store {
	return &Store{
		filters:    news.DefaultFilterState(),
		page:       1,
		categories: categories,
	}
}

func (s *Store) State() State {
	return State{Filters: s.filters.Clone(), Page: s.page}
}

func (s *Store) Filters() news.FilterState {
	return s.filters.Clone()
}

func (s *Store) Page() int {
	return s.page
}

func (s *Store) Categories() []news.Category {
	return s.categories
}

// SetCategories swaps the reference taxonomy. Selections are kept.
func (s *Store) SetCategories(categories []news.Category) {
	s.categories = categories
}

// Replace installs filters as the new state and resets the page to 1.
func (s *Store) Replace(filters news.FilterState) {
	s.filters = filters.Clone()
	s.page = 1
}

// SetPage moves to page. Values below 1 are stored as 1.
func (s *Store) SetPage(page int) {
	s.page = max(page, 1)
}

func (s *Store) ResetPage() {
	s.page = 1
}

func (s *Store) SetQuery(query string) {
	next := s.Filters()
	next.SearchQuery = query
	s.Replace(next)
}

func (s *Store) ToggleToday() {
	next := s.Filters()
	next.TodayOnly = !next.TodayOnly
	s.Replace(next)
}

func (s *Store) ToggleSort() {
	next := s.Filters()
	if next.SortOrder == news.SortOldest {
		next.SortOrder = news.SortNewest
	} else {
		next.SortOrder = news.SortOldest
	}
	s.Replace(next)
}

var refreshCycle = []news.RefreshInterval{news.Refresh10, news.Refresh30, news.Refresh60, news.RefreshOff}

// CycleRefreshInterval steps through 10s, 30s, 60s and off.
func (s *Store) CycleRefreshInterval() {
	next := s.Filters()
	idx := slices.Index(refreshCycle, next.RefreshInterval)
	next.RefreshInterval = refreshCycle[(idx+1)%len(refreshCycle)]
	s.Replace(next)
}

// ClearSelections drops all category and subcategory selections.
func (s *Store) ClearSelections() {
	next := s.Filters()
	next.SelectedCategories = nil
	next.SelectedSubcategories = nil
	s.Replace(next)
}
