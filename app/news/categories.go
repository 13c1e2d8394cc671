package news

import (
	"slices"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var defaultCategories = []Category{
	{
		Name: "Спорт",
		Subcategories: []string{
			"Футбол",
			"Теннис",
			"Хоккей",
			"F1",
			"Баскетбол",
			"Бокс/ММА",
			"Биатлон",
			"Лыжи",
			"Фигурное катание",
			"Волейбол",
		},
	},
	{Name: "Киберспорт", Subcategories: []string{"Dota2", "CS2"}},
	{Name: "Технологии", Subcategories: []string{"Backend", "FrontEnd", "Администрирование", "Научпоп"}},
	{Name: "Наука"},
	{Name: "Путешествия"},
	{Name: "Финансы"},
	{Name: "Авто"},
}

// DefaultCategories returns a copy of the static taxonomy.
func DefaultCategories() []Category {
	result := make([]Category, len(defaultCategories))
	for i, c := range defaultCategories {
		result[i] = Category{Name: c.Name, Subcategories: slices.Clone(c.Subcategories)}
	}
	return result
}

// CategoriesFromAPI builds a flat taxonomy from the backend listing. The
// backend has no subcategories.
func CategoriesFromAPI(listing []APICategory) []Category {
	result := make([]Category, 0, len(listing))
	for _, c := range listing {
		result = append(result, Category{Name: CapitalizeFirst(c.Category)})
	}
	return result
}

// FindCategory returns the category called name.
func FindCategory(categories []Category, name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// CapitalizeFirst upper-cases the first letter and leaves the rest as is.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Russian).String(s[:size]) + s[size:]
}
