package api

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/newsdesk/app/news"
)

// Channel describes an RSS channel built from cached news.
type Channel struct {
	Title       string
	Link        string // public page of the channel
	SelfLink    string // URL the feed was requested at
	Description string
	BuildDate   time.Time
	Generator   string
}

// RSSGenerator renders cached news as RSS 2.0 so any feed reader can
// subscribe to the aggregated selection.
type RSSGenerator struct{}

func NewRSSGenerator() *RSSGenerator {
	return &RSSGenerator{}
}

// Generate creates RSS 2.0 XML for channel and items, keeping item order.
func (g *RSSGenerator) Generate(channel Channel, items []news.APIItem) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channel.Title, 4)
	g.writeElement(&buf, "link", channel.Link, 4)
	g.writeElement(&buf, "description", cmp.Or(channel.Description, channel.Title), 4)
	if channel.SelfLink != "" {
		buf.WriteString(`    <atom:link href="`)
		xml.EscapeText(&buf, []byte(channel.SelfLink))
		buf.WriteString(`" rel="self" type="application/rss+xml" />`)
		buf.WriteString("\n")
	}
	if !channel.BuildDate.IsZero() {
		g.writeElement(&buf, "lastBuildDate", channel.BuildDate.Format(time.RFC1123Z), 4)
	}
	g.writeElement(&buf, "generator", channel.Generator, 4)
	g.writeElement(&buf, "language", "ru", 4)

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

func (g *RSSGenerator) writeItem(buf *bytes.Buffer, item news.APIItem) {
	buf.WriteString("    <item>\n")

	guid := item.Link
	if guid == "" {
		guid = news.GenerateID(item)
	}
	fmt.Fprintf(buf, `      <guid isPermaLink="%t">`, g.isURL(guid))
	xml.EscapeText(buf, []byte(guid))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Link, 6)

	// The summary is what readers see first; the original description
	// follows as full content.
	description := cmp.Or(item.Summary, item.Description, "Нет описания")
	g.writeElement(buf, "description", description, 6)
	if item.Summary != "" && item.Description != "" && item.Description != item.Summary {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(strings.ReplaceAll(item.Description, "]]>", "]]]]><![CDATA[>"))
		buf.WriteString("]]></content:encoded>\n")
	}

	if published := news.ParseDate(item.Published); !published.IsZero() {
		g.writeElement(buf, "pubDate", published.Format(time.RFC1123Z), 6)
	}
	g.writeElement(buf, "author", item.Source, 6)
	g.writeElement(buf, "category", item.Category, 6)

	buf.WriteString("    </item>\n")
}

// writeElement writes an escaped element on its own line. Empty content is
// skipped.
func (g *RSSGenerator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	buf.WriteString(strings.Repeat(" ", indent))
	buf.WriteString("<" + tag + ">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</" + tag + ">\n")
}

// isURL reports whether a guid can be used as a permalink.
func (g *RSSGenerator) isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
