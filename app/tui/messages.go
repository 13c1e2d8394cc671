package tui

import (
	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/lysyi3m/newsdesk/app/refresh"
)

// Messages for the tea program

// newsLoadedMsg carries the result of a fetch, fallback included.
type newsLoadedMsg struct {
	result refresh.LoadResult
}

type categoriesLoadedMsg struct {
	categories []news.Category
	err        error
}

// refreshDueMsg is sent by the auto-refresh timer. generation identifies the
// scheduler configuration that armed the timer.
type refreshDueMsg struct {
	generation uint64
}

// tickMsg is sent by the countdown timer every second.
type tickMsg struct {
	status refresh.Status
}

// updateTriggeredMsg is sent once the backend answered the update request.
type updateTriggeredMsg struct {
	err error
}

// updateDoneMsg is sent after the delayed reload that follows an update.
type updateDoneMsg struct {
	err error
}

// bridgeMsg wraps a message that arrived from a timer goroutine. The model
// re-arms the listener after handling it.
type bridgeMsg struct {
	msg any
}
