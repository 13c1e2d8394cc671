package feed

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Feed processing types

type Item struct {
	Title       string
	Link        string
	Description string
	Content     string
	PublishedAt time.Time
	Authors     []string
	Categories  []string

	Source       string // Source name from configuration
	SourceURL    string // Feed URL the item was fetched from
	Category     string // Configured category the source belongs to
	IsFiltered   bool
	FilterReason string
}

// Configuration types

type Config struct {
	News       NewsSettings      `yaml:"news"`
	Categories []CategorySources `yaml:"rss_sources"`
}

type NewsSettings struct {
	MaxNewsPerSource int `yaml:"max_news_per_source"`
	TopNewsCount     int `yaml:"top_news_count"`
}

// CategorySources keeps the order categories appear in under rss_sources.
type CategorySources struct {
	Name    string
	Sources []Source
}

type Source struct {
	Name           string         `yaml:"name"`
	URL            string         `yaml:"url"`
	Timeout        int            `yaml:"timeout"`         // seconds
	ExtractContent bool           `yaml:"extract_content"` // fetch the article page when the feed has no description
	Filters        []ConfigFilter `yaml:"filters"`
}

// GetTimeout returns the fetch timeout, 30 seconds when unset.
func (s Source) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// UnmarshalYAML decodes rss_sources as an ordered list of categories. A plain
// map would lose the order the operator wrote them in.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		News       NewsSettings `yaml:"news"`
		RSSSources yaml.Node    `yaml:"rss_sources"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.News = raw.News
	c.Categories = nil

	if raw.RSSSources.Kind == 0 || raw.RSSSources.Tag == "!!null" {
		return nil
	}
	if raw.RSSSources.Kind != yaml.MappingNode {
		return fmt.Errorf("rss_sources must be a mapping of category to sources (line %d)", raw.RSSSources.Line)
	}

	content := raw.RSSSources.Content
	for i := 0; i+1 < len(content); i += 2 {
		var sources []Source
		if err := content[i+1].Decode(&sources); err != nil {
			return fmt.Errorf("invalid sources for category %q: %w", content[i].Value, err)
		}
		c.Categories = append(c.Categories, CategorySources{
			Name:    content[i].Value,
			Sources: sources,
		})
	}

	return nil
}

// CategoryNames returns configured categories in file order.
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for _, category := range c.Categories {
		names = append(names, category.Name)
	}
	return names
}

func (c *Config) SourceCount() int {
	count := 0
	for _, category := range c.Categories {
		count += len(category.Sources)
	}
	return count
}
