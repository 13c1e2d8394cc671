package feed

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/lysyi3m/newsdesk/app/news"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxNewsPerSource = 7
	DefaultTopNewsCount     = 10
)

// ConfigCache holds the parsed sources file. Run reloads it, so an update
// picks up edits without a restart.
type ConfigCache struct {
	sourcesFile string
	config      *Config
	mu          sync.RWMutex
}

func NewConfigCache(sourcesFile string) *ConfigCache {
	return &ConfigCache{sourcesFile: sourcesFile}
}

func (cc *ConfigCache) Run() error {
	config, err := cc.parseConfig(cc.sourcesFile)
	if err != nil {
		return err
	}

	if err := cc.validateConfig(config); err != nil {
		return fmt.Errorf("invalid config %s: %w", cc.sourcesFile, err)
	}

	cc.mu.Lock()
	cc.config = config
	cc.mu.Unlock()

	slog.Debug("Sources configuration loaded",
		"file", cc.sourcesFile,
		"categories", len(config.Categories),
		"sources", config.SourceCount())

	return nil
}

func (cc *ConfigCache) GetConfig() (*Config, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	if cc.config == nil {
		return nil, fmt.Errorf("sources configuration %s is not loaded", cc.sourcesFile)
	}
	return cc.config, nil
}

func (cc *ConfigCache) parseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a sources document and fills in defaults.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.News.MaxNewsPerSource == 0 {
		config.News.MaxNewsPerSource = DefaultMaxNewsPerSource
	}
	if config.News.TopNewsCount == 0 {
		config.News.TopNewsCount = DefaultTopNewsCount
	}

	for i := range config.Categories {
		for j := range config.Categories[i].Sources {
			source := &config.Categories[i].Sources[j]
			if source.Name == "" {
				source.Name = news.ExtractDomain(source.URL)
			}
			if source.Timeout == 0 {
				source.Timeout = 30
			}
		}
	}

	return &config, nil
}

func (cc *ConfigCache) validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if len(config.Categories) == 0 {
		return fmt.Errorf("at least one category is required under rss_sources")
	}

	nonNegativeFields := map[string]int{
		"max_news_per_source": config.News.MaxNewsPerSource,
		"top_news_count":      config.News.TopNewsCount,
	}

	for name, value := range nonNegativeFields {
		if value < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}

	seen := make(map[string]bool, len(config.Categories))
	for _, category := range config.Categories {
		if category.Name == "" {
			return fmt.Errorf("category name is required")
		}
		if seen[category.Name] {
			return fmt.Errorf("duplicate category %q", category.Name)
		}
		seen[category.Name] = true

		for i, source := range category.Sources {
			if source.URL == "" {
				return fmt.Errorf("source %d in category %q: url is required", i, category.Name)
			}
			if source.Timeout < 0 {
				return fmt.Errorf("source %q: timeout must be non-negative", source.Name)
			}
			for j, filter := range source.Filters {
				if !slices.Contains(FilterFields, filter.Field) {
					return fmt.Errorf("source %q: invalid filter field at index %d: %s", source.Name, j, filter.Field)
				}
				if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
					return fmt.Errorf("source %q: filter at index %d must have at least one include or exclude rule", source.Name, j)
				}
			}
		}
	}

	return nil
}
