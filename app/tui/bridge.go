package tui

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lysyi3m/newsdesk/app/refresh"
)

const bridgeBuffer = 16

// Bridge carries callbacks from timer goroutines into the event loop. Ticks
// and refresh signals are dropped when the buffer is full; loaded news and
// update results are always delivered unless the bridge is closed.
type Bridge struct {
	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{
		events: make(chan tea.Msg, bridgeBuffer),
		done:   make(chan struct{}),
	}
}

// RefreshDue is the onRefresh callback for refresh.AutoRefresh.
func (b *Bridge) RefreshDue(status refresh.Status) {
	b.offer(refreshDueMsg{generation: status.Generation})
}

// Tick is the onTick callback for refresh.AutoRefresh.
func (b *Bridge) Tick(status refresh.Status) {
	b.offer(tickMsg{status: status})
}

// UpdateDone is the onDone callback for refresh.Updater.
func (b *Bridge) UpdateDone(err error) {
	b.deliver(updateDoneMsg{err: err})
}

// Reload returns the reload function for refresh.Updater. It loads the news
// list and hands the result to the event loop.
func (b *Bridge) Reload(loader NewsLoader) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		result := loader.Load(ctx)
		b.deliver(newsLoadedMsg{result: result})
		return result.Err
	}
}

// Listen waits for the next event. The model calls it again after every
// bridged message.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.events:
			return bridgeMsg{msg: msg}
		case <-b.done:
			return nil
		}
	}
}

// Close releases pending senders and listeners.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) offer(msg tea.Msg) {
	select {
	case <-b.done:
	case b.events <- msg:
	default:
		slog.Debug("Dropping timer event, event loop is busy", "event", msg)
	}
}

func (b *Bridge) deliver(msg tea.Msg) {
	select {
	case <-b.done:
	case b.events <- msg:
	}
}
