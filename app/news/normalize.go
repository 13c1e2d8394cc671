package news

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Normalize maps backend records to display items.
func Normalize(raw []APIItem) []Item {
	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		items = append(items, NormalizeItem(r, i))
	}
	return items
}

// NormalizeItem converts one record. index is only used in diagnostics.
func NormalizeItem(raw APIItem, index int) Item {
	text := cmp.Or(raw.Summary, raw.Description)

	if !IsRussianText(text) {
		slog.Warn("Non-Russian text detected", "index", index, "title", raw.Title, "has_summary", raw.Summary != "")
	}
	if !IsRussianText(raw.Title) {
		slog.Warn("Non-Russian title detected", "index", index, "title", raw.Title)
	}

	return Item{
		ID:          GenerateID(raw),
		Category:    raw.Category,
		Text:        StripImages(text),
		Date:        raw.Published,
		SourceURL:   raw.Link,
		Title:       raw.Title,
		FullContent: raw.Description,
		Author:      raw.Source,
	}
}

// GenerateID derives a stable identifier from the link, or from title and
// publication date when the link is missing.
func GenerateID(raw APIItem) string {
	key := raw.Link
	if key == "" {
		key = raw.Title + "|" + raw.Published
	}
	hash := sha256.Sum256([]byte(key))
	return "news-" + hex.EncodeToString(hash[:])[:16]
}
