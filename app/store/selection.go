package store

import (
	"slices"

	"github.com/lysyi3m/newsdesk/app/news"
)

// ToggleCategory flips the selection of a category. Selecting a category
// selects all of its subcategories; deselecting it drops them.
func (s *Store) ToggleCategory(name string) {
	next := s.Filters()
	category, _ := news.FindCategory(s.categories, name)

	if next.HasCategory(name) {
		next.SelectedCategories = without(next.SelectedCategories, name)
		next.SelectedSubcategories = withoutAll(next.SelectedSubcategories, category.Subcategories)
	} else {
		next.SelectedCategories = append(next.SelectedCategories, name)
		next.SelectedSubcategories = append(withoutAll(next.SelectedSubcategories, category.Subcategories), category.Subcategories...)
	}

	s.Replace(next)
}

// ToggleSubcategory flips the selection of sub under parent. The parent is
// selected only while every one of its subcategories is selected.
func (s *Store) ToggleSubcategory(parent, sub string) {
	next := s.Filters()

	if next.HasSubcategory(sub) {
		next.SelectedSubcategories = without(next.SelectedSubcategories, sub)
		next.SelectedCategories = without(next.SelectedCategories, parent)
	} else {
		next.SelectedSubcategories = append(next.SelectedSubcategories, sub)

		category, ok := news.FindCategory(s.categories, parent)
		if ok && containsAll(next.SelectedSubcategories, category.Subcategories) && !next.HasCategory(parent) {
			next.SelectedCategories = append(next.SelectedCategories, parent)
		}
	}

	s.Replace(next)
}

func without(values []string, drop string) []string {
	return slices.DeleteFunc(values, func(v string) bool { return v == drop })
}

func withoutAll(values, drop []string) []string {
	return slices.DeleteFunc(values, func(v string) bool { return slices.Contains(drop, v) })
}

func containsAll(values, required []string) bool {
	for _, r := range required {
		if !slices.Contains(values, r) {
			return false
		}
	}
	return true
}
