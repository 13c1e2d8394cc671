package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/mmcdole/gofeed"
)

const (
	DefaultTitle = "Без заголовка"
	DateLayout   = "2006-01-02 15:04:05"
)

type Parser struct {
	gofeedParser *gofeed.Parser
	now          func() time.Time
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		now:          time.Now,
	}
}

// Run parses a feed document and tags every item with its source and
// category. Items come back in feed order.
func (p *Parser) Run(data []byte, source Source, category string) ([]Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		normalized := p.normalizeItem(item)
		normalized.Source = source.Name
		normalized.SourceURL = source.URL
		normalized.Category = category
		items = append(items, normalized)
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		Title:       cmp.Or(strings.TrimSpace(item.Title), DefaultTitle),
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Content:     item.Content,
		Categories:  item.Categories,
		Authors:     p.extractAuthors(item),
	}

	switch {
	case item.PublishedParsed != nil:
		normalized.PublishedAt = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		normalized.PublishedAt = *item.UpdatedParsed
	default:
		normalized.PublishedAt = p.now()
	}

	return normalized
}

func (p *Parser) extractAuthors(item *gofeed.Item) []string {
	var authors []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				if name := p.formatAuthor(author.Name, author.Email); name != "" {
					authors = append(authors, name)
				}
			}
		}
	} else if item.Author != nil {
		if name := p.formatAuthor(item.Author.Name, item.Author.Email); name != "" {
			authors = append(authors, name)
		}
	}

	return authors
}

func (p *Parser) formatAuthor(name, email string) string {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name != "" && email != "" {
		return fmt.Sprintf("%s (%s)", email, name)
	}
	return cmp.Or(name, email)
}

// APIItem converts a parsed item into the shape served by the API.
func (i Item) APIItem() news.APIItem {
	return news.APIItem{
		Title:       i.Title,
		Link:        i.Link,
		Description: cmp.Or(i.Description, i.Content),
		Published:   i.PublishedAt.In(time.Local).Format(DateLayout),
		Source:      i.Source,
		SourceURL:   i.SourceURL,
		Category:    i.Category,
	}
}

// Limit returns at most limit unfiltered items, keeping feed order.
func Limit(items []Item, limit int) []Item {
	kept := make([]Item, 0, min(len(items), max(limit, 0)))
	for _, item := range items {
		if len(kept) >= limit {
			break
		}
		if !item.IsFiltered {
			kept = append(kept, item)
		}
	}
	return kept
}
