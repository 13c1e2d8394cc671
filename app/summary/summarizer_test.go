package summary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizer struct {
	fail map[string]bool
}

func (s *stubSummarizer) Summarize(ctx context.Context, item news.APIItem) (string, error) {
	if s.fail[item.Title] {
		return "", errors.New("quota exceeded")
	}
	return "кратко: " + item.Title, nil
}

func apiItem(title, category, published string) news.APIItem {
	return news.APIItem{Title: title, Category: category, Published: published, Source: "example.com"}
}

func titles(items []news.APIItem) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = item.Title
	}
	return result
}

func TestApply(t *testing.T) {
	items := []news.APIItem{apiItem("Первая", "наука", ""), apiItem("Вторая", "спорт", "")}

	result := Apply(context.Background(), &stubSummarizer{fail: map[string]bool{"Вторая": true}}, items)

	require.Len(t, result, 2)
	assert.Equal(t, "кратко: Первая", result[0].Summary)
	assert.Empty(t, result[1].Summary)
	assert.Empty(t, items[0].Summary, "input must not be modified")
}

// gatedSummarizer holds every call until summarizeConcurrency calls are in
// flight at once, recording the peak.
type gatedSummarizer struct {
	active  atomic.Int32
	peak    atomic.Int32
	arrived atomic.Int32
	gate    chan struct{}
	once    sync.Once
}

func (s *gatedSummarizer) Summarize(ctx context.Context, item news.APIItem) (string, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if s.arrived.Add(1) == summarizeConcurrency {
		s.once.Do(func() { close(s.gate) })
	}
	select {
	case <-s.gate:
	case <-time.After(5 * time.Second):
		return "", errors.New("calls did not overlap")
	}
	return "кратко: " + item.Title, nil
}

func TestApply_SummarizesConcurrently(t *testing.T) {
	items := make([]news.APIItem, 12)
	for i := range items {
		items[i] = apiItem(strings.Repeat("н", i+1), "наука", "")
	}
	s := &gatedSummarizer{gate: make(chan struct{})}

	result := Apply(context.Background(), s, items)

	assert.Equal(t, int32(summarizeConcurrency), s.peak.Load())
	require.Len(t, result, len(items))
	for i, item := range result {
		assert.Equal(t, items[i].Title, item.Title, "order is kept")
		assert.Equal(t, "кратко: "+items[i].Title, item.Summary)
	}
}

func TestApply_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Apply(ctx, &stubSummarizer{}, []news.APIItem{apiItem("Первая", "наука", "")})

	require.Len(t, result, 1)
	assert.Empty(t, result[0].Summary)
}

func TestSelectTop_RoundRobinNewestFirst(t *testing.T) {
	items := []news.APIItem{
		apiItem("спорт-старая", "спорт", "2025-01-14 10:00:00"),
		apiItem("спорт-новая", "спорт", "2025-01-15 10:00:00"),
		apiItem("наука-1", "наука", "2025-01-13 10:00:00"),
		apiItem("спорт-средняя", "спорт", "2025-01-14 18:00:00"),
		apiItem("авто-1", "авто", "2025-01-15 08:00:00"),
	}

	top := SelectTop(items, 4)

	assert.Equal(t, []string{"спорт-новая", "наука-1", "авто-1", "спорт-средняя"}, titles(top))
}

func TestSelectTop_Bounds(t *testing.T) {
	items := []news.APIItem{apiItem("a", "x", ""), apiItem("b", "y", "")}

	assert.Len(t, SelectTop(items, 10), 2)
	assert.Empty(t, SelectTop(items, 0))
	assert.NotNil(t, SelectTop(nil, 3))
	assert.Empty(t, SelectTop(nil, 3))
}

type rankingSummarizer struct {
	stubSummarizer
	indexes []int
	err     error
}

func (r *rankingSummarizer) RankTop(ctx context.Context, items []news.APIItem, n int) ([]int, error) {
	return r.indexes, r.err
}

func TestTop_UsesRanker(t *testing.T) {
	items := []news.APIItem{apiItem("a", "x", ""), apiItem("b", "x", ""), apiItem("c", "y", "")}

	top := Top(context.Background(), &rankingSummarizer{indexes: []int{2, 0}}, items, 2)

	assert.Equal(t, []string{"c", "a"}, titles(top))
}

func TestTop_FallsBackToRoundRobin(t *testing.T) {
	items := []news.APIItem{
		apiItem("a", "x", "2025-01-15 10:00:00"),
		apiItem("b", "x", "2025-01-15 11:00:00"),
		apiItem("c", "y", "2025-01-15 09:00:00"),
	}

	failing := &rankingSummarizer{err: errors.New("unavailable")}
	assert.Equal(t, []string{"b", "c"}, titles(Top(context.Background(), failing, items, 2)))

	short := &rankingSummarizer{indexes: []int{1}}
	assert.Equal(t, []string{"b", "c"}, titles(Top(context.Background(), short, items, 2)))

	assert.Equal(t, []string{"b", "c"}, titles(Top(context.Background(), &stubSummarizer{}, items, 2)))
}

func TestLead(t *testing.T) {
	lead := NewLead()

	short, err := lead.Summarize(context.Background(), news.APIItem{Description: "<p>Короткая новость.</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Короткая новость.", short)

	empty, err := lead.Summarize(context.Background(), news.APIItem{Description: "<img src='a.png'>"})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLead_KeepsWholeSentences(t *testing.T) {
	first := strings.Repeat("слово ", 30) + "конец."
	second := strings.Repeat("другое ", 40) + "финал."
	text := first + " " + second

	result := lead(text, DefaultLeadLength)

	assert.Equal(t, strings.TrimSpace(first), result)
	assert.LessOrEqual(t, utf8.RuneCountInString(result), DefaultLeadLength)
}

func TestLead_CutsLongSentence(t *testing.T) {
	text := strings.Repeat("слово ", 100)

	result := lead(strings.TrimSpace(text), 50)

	assert.True(t, strings.HasSuffix(result, "…"))
	assert.LessOrEqual(t, utf8.RuneCountInString(result), 50)
	assert.False(t, strings.Contains(result, "сло…"), "cut must fall on a word boundary")
}
