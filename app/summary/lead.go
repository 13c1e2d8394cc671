package summary

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/newsdesk/app/news"
)

const DefaultLeadLength = 300

var sentenceRe = regexp.MustCompile(`[^.!?…]+[.!?…]+["»)]*\s*`)

// Lead summarizes an item with the opening sentences of its description.
type Lead struct {
	MaxRunes int
}

func NewLead() *Lead {
	return &Lead{MaxRunes: DefaultLeadLength}
}

func (l *Lead) Summarize(ctx context.Context, item news.APIItem) (string, error) {
	text := news.PlainText(item.Description)
	if text == "" {
		return "", nil
	}
	maxRunes := l.MaxRunes
	if maxRunes <= 1 {
		maxRunes = DefaultLeadLength
	}
	return lead(text, maxRunes), nil
}

func lead(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	var b strings.Builder
	for _, sentence := range sentenceRe.FindAllString(text, -1) {
		if utf8.RuneCountInString(b.String()+sentence) > maxRunes {
			break
		}
		b.WriteString(sentence)
	}
	if b.Len() > 0 {
		return strings.TrimSpace(b.String())
	}

	// First sentence alone is too long: cut on a word boundary.
	runes := []rune(text)[:maxRunes-1]
	cut := string(runes)
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;:-") + "…"
}
