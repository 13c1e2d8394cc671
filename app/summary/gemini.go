package summary

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/lysyi3m/newsdesk/app/news"
	"google.golang.org/api/option"
)

const maxPromptChars = 6000

// Gemini summarizes, translates titles and ranks top stories with a Gemini
// model.
type Gemini struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (string, error)
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	g := &Gemini{client: client}
	generative := client.GenerativeModel(model)
	g.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := generative.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("no response from Gemini")
		}
		return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
	}

	return g, nil
}

func (g *Gemini) Close() {
	if g.client != nil {
		g.client.Close()
	}
}

func (g *Gemini) Summarize(ctx context.Context, item news.APIItem) (string, error) {
	prompt := fmt.Sprintf(`Ты - профессиональный журналист. Проанализируй новость и напиши резюме на русском языке (1-2 предложения).

НОВОСТЬ:
Заголовок: %s

Полное содержание:
%s

Резюме должно передавать суть: что произошло, кто вовлечён, когда и где, и почему это важно.
НЕ НАЧИНАЙ со слов "Резюме" или "Краткое содержание", сразу пиши суть новости.`, item.Title, clip(news.PlainText(item.Description)))

	return g.generate(ctx, prompt)
}

func (g *Gemini) TranslateTitle(ctx context.Context, title string) (string, error) {
	prompt := fmt.Sprintf(`Переведи заголовок новости на русский язык, сохранив смысл и стиль. Не добавляй лишних слов.

ЗАГОЛОВОК: %s

ОТВЕТ (только переведённый заголовок):`, title)

	translated, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.Trim(translated, `"«»`), nil
}

func (g *Gemini) RankTop(ctx context.Context, items []news.APIItem, n int) ([]int, error) {
	var listing strings.Builder
	for i, item := range items {
		fmt.Fprintf(&listing, "%d. [%s] %s\n   %s\n   Источник: %s\n\n",
			i+1, strings.ToUpper(item.Category), item.Title, item.Summary, item.Source)
	}

	prompt := fmt.Sprintf(`Ты - опытный редактор новостного агентства. Выбери %d самых интересных и значимых новостей дня из %d.

Критерии: актуальность, общественная значимость, новизна, интерес для широкой аудитории.

НОВОСТИ:
%s
Укажи ТОЛЬКО номера выбранных новостей через запятую, например: 1, 5, 12

ОТВЕТ (только номера):`, n, len(items), listing.String())

	response, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseIndexes(response, len(items), n), nil
}

// parseIndexes reads a comma separated list of 1-based positions. Invalid
// and repeated entries are skipped.
func parseIndexes(response string, count, limit int) []int {
	seen := make(map[int]bool)
	var indexes []int
	for _, part := range strings.Split(response, ",") {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		idx--
		if idx < 0 || idx >= count || seen[idx] {
			continue
		}
		seen[idx] = true
		indexes = append(indexes, idx)
		if len(indexes) == limit {
			break
		}
	}
	return indexes
}

func clip(text string) string {
	if utf8.RuneCountInString(text) <= maxPromptChars {
		return text
	}
	return string([]rune(text)[:maxPromptChars]) + "\n[TRUNCATED]"
}
