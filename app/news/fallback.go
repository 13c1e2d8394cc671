package news

import (
	_ "embed"
	"fmt"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed data/fallback.yml
var fallbackData []byte

type fallbackFile struct {
	Items []Item `yaml:"items"`
}

var fallbackItems = initFallback(fallbackData)

// FallbackItems returns the built-in dataset shown when the backend is
// unreachable.
func FallbackItems() []Item {
	return slices.Clone(fallbackItems)
}

func loadFallback(data []byte) ([]Item, error) {
	var file fallbackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fallback dataset: %w", err)
	}
	return file.Items, nil
}

func initFallback(data []byte) []Item {
	items, err := loadFallback(data)
	if err != nil {
		slog.Error("Fallback dataset is invalid", "error", err)
		return nil
	}
	return items
}
