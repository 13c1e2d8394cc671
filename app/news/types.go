package news

import (
	"slices"
	"strconv"
	"time"
)

// Item is the display shape of a news record. Values are never mutated after
// normalization.
type Item struct {
	ID          string `yaml:"id"`
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
	Text        string `yaml:"text"`
	Date        string `yaml:"date"`
	SourceURL   string `yaml:"source_url"`
	Title       string `yaml:"title"`
	FullContent string `yaml:"full_content"`
	Author      string `yaml:"author"`
	ImageURL    string `yaml:"image_url"`
}

// Time parses Date. Unparseable dates yield the zero time.
func (i Item) Time() time.Time {
	return ParseDate(i.Date)
}

// APIItem is a news record as served by the backend.
type APIItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Published   string `json:"published"`
	Source      string `json:"source"`
	SourceURL   string `json:"source_url"`
	Category    string `json:"category"`
	Summary     string `json:"summary,omitempty"`
}

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// RefreshInterval is the auto-refresh period in seconds. Zero means off.
type RefreshInterval int

const (
	RefreshOff RefreshInterval = 0
	Refresh10  RefreshInterval = 10
	Refresh30  RefreshInterval = 30
	Refresh60  RefreshInterval = 60
)

func (r RefreshInterval) Enabled() bool {
	return r > 0
}

func (r RefreshInterval) Duration() time.Duration {
	return time.Duration(r) * time.Second
}

func (r RefreshInterval) String() string {
	if !r.Enabled() {
		return "off"
	}
	return strconv.Itoa(int(r)) + "s"
}

// FilterState is the complete set of user-chosen filter parameters. It is
// replaced as a whole on every change.
type FilterState struct {
	SearchQuery           string
	SelectedCategories    []string
	SelectedSubcategories []string
	TodayOnly             bool
	SortOrder             SortOrder
	RefreshInterval       RefreshInterval
}

func DefaultFilterState() FilterState {
	return FilterState{
		SortOrder:       SortNewest,
		RefreshInterval: Refresh30,
	}
}

// Clone returns a copy that shares no slices with f.
func (f FilterState) Clone() FilterState {
	f.SelectedCategories = slices.Clone(f.SelectedCategories)
	f.SelectedSubcategories = slices.Clone(f.SelectedSubcategories)
	return f
}

func (f FilterState) HasCategory(name string) bool {
	return slices.Contains(f.SelectedCategories, name)
}

func (f FilterState) HasSubcategory(name string) bool {
	return slices.Contains(f.SelectedSubcategories, name)
}

// Category is a two-level taxonomy node.
type Category struct {
	Name          string
	Subcategories []string
}

// APICategory is one entry of the backend category listing.
type APICategory struct {
	Category  string `json:"category"`
	Count     int    `json:"count"`
	NewsCount int    `json:"news_count"`
}

// Page is the visible slice of the filtered and sorted list.
type Page struct {
	Visible      []Item
	TotalResults int
	TotalPages   int
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate accepts ISO 8601 and the backend "YYYY-MM-DD HH:MM:SS" form.
// Dates without an offset are read in the local time zone.
func ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
