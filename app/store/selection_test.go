package store

import (
	"testing"

	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/stretchr/testify/assert"
)

func TestToggleCategory_SelectsAndDropsSubcategories(t *testing.T) {
	s := New(news.DefaultCategories())

	s.ToggleCategory("Киберспорт")

	assert.Equal(t, []string{"Киберспорт"}, s.Filters().SelectedCategories)
	assert.ElementsMatch(t, []string{"Dota2", "CS2"}, s.Filters().SelectedSubcategories)

	s.ToggleCategory("Киберспорт")

	assert.Empty(t, s.Filters().SelectedCategories)
	assert.Empty(t, s.Filters().SelectedSubcategories)
}

func TestToggleCategory_NoDuplicateSubcategories(t *testing.T) {
	s := New(news.DefaultCategories())

	s.ToggleSubcategory("Киберспорт", "CS2")
	s.ToggleCategory("Киберспорт")

	assert.ElementsMatch(t, []string{"Dota2", "CS2"}, s.Filters().SelectedSubcategories)
}

func TestToggleCategory_KeepsOtherSelections(t *testing.T) {
	s := New(news.DefaultCategories())

	s.ToggleSubcategory("Спорт", "Теннис")
	s.ToggleCategory("Наука")
	s.ToggleCategory("Наука")

	assert.Empty(t, s.Filters().SelectedCategories)
	assert.Equal(t, []string{"Теннис"}, s.Filters().SelectedSubcategories)
}

func TestToggleSubcategory_ParentOnlyWhenAllSelected(t *testing.T) {
	s := New(news.DefaultCategories())

	s.ToggleSubcategory("Киберспорт", "Dota2")
	assert.Empty(t, s.Filters().SelectedCategories)
	assert.Equal(t, []string{"Dota2"}, s.Filters().SelectedSubcategories)

	s.ToggleSubcategory("Киберспорт", "CS2")
	assert.Equal(t, []string{"Киберспорт"}, s.Filters().SelectedCategories)
}

func TestToggleSubcategory_DeselectDropsParent(t *testing.T) {
	s := New(news.DefaultCategories())
	s.ToggleCategory("Технологии")

	s.ToggleSubcategory("Технологии", "Backend")

	assert.Empty(t, s.Filters().SelectedCategories)
	assert.ElementsMatch(t, []string{"FrontEnd", "Администрирование", "Научпоп"}, s.Filters().SelectedSubcategories)
}

func TestToggleSubcategory_UnknownParent(t *testing.T) {
	s := New(news.DefaultCategories())

	s.ToggleSubcategory("Музыка", "Джаз")

	assert.Empty(t, s.Filters().SelectedCategories)
	assert.Equal(t, []string{"Джаз"}, s.Filters().SelectedSubcategories)
}
