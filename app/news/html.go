package news

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	imgTagRe = regexp.MustCompile(`(?i)<img[^>]*>`)
	imgSrcRe = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*>`)
	hostRe   = regexp.MustCompile(`^(?:https?://)?(?:www\.)?([^/]+)`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// StripImages removes <img> tags by literal tag match.
func StripImages(html string) string {
	if html == "" {
		return html
	}
	return imgTagRe.ReplaceAllString(html, "")
}

// ExtractImages returns the src of every <img> tag in document order.
func ExtractImages(html string) []string {
	matches := imgSrcRe.FindAllStringSubmatch(html, -1)
	images := make([]string, 0, len(matches))
	for _, m := range matches {
		images = append(images, m[1])
	}
	return images
}

// ExtractDomain returns the host of rawURL. Inputs that do not parse as an
// absolute URL are matched manually with any scheme and www. prefix dropped.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Hostname() != "" {
		return u.Hostname()
	}
	if m := hostRe.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return rawURL
}

// PlainText renders an HTML fragment as a single line of text.
func PlainText(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(spaceRe.ReplaceAllString(html, " "))
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(doc.Text(), " "))
}
