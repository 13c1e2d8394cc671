// Package refresh schedules re-fetches of the news list: periodic
// auto-refresh with a visible countdown, and manual backend updates followed
// by a delayed reload.
package refresh

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/newsdesk/app/news"
)

// Status is the observable state of an AutoRefresh. TimeUntilRefresh is nil
// while the scheduler is inactive. Generation changes on every Configure that
// restarts or stops the timers, so callers can tell stale callbacks apart.
type Status struct {
	TimeUntilRefresh *int
	IsRefreshing     bool
	Generation       uint64
}

// AutoRefresh runs two independent periodic timers while active: one calls
// onRefresh every interval, the other updates the countdown every second.
// The timers are not phase-locked to each other. Both callbacks receive the
// status at the time they fired.
//
// Callbacks run on timer goroutines and must not call Configure or Stop.
type AutoRefresh struct {
	clock     Clock
	onRefresh func(Status)
	onTick    func(Status)

	mu             sync.Mutex
	interval       news.RefreshInterval
	enabled        bool
	active         bool
	countdown      int
	generation     uint64
	refreshTimer   Timer
	countdownTimer Timer

	inflight sync.WaitGroup
}

// NewAutoRefresh creates an inactive scheduler. onTick may be nil.
func NewAutoRefresh(clock Clock, onRefresh func(Status), onTick func(Status)) *AutoRefresh {
	return &AutoRefresh{
		clock:     clock,
		onRefresh: onRefresh,
		onTick:    onTick,
	}
}

// Configure activates the scheduler when enabled and interval is set, and
// deactivates it otherwise. Any change restarts both timers from scratch;
// repeating the current configuration is a no-op.
func (a *AutoRefresh) Configure(interval news.RefreshInterval, enabled bool) {
	a.mu.Lock()
	if a.interval == interval && a.enabled == enabled && a.active == (enabled && interval.Enabled()) {
		a.mu.Unlock()
		return
	}
	a.stopLocked()
	a.interval = interval
	a.enabled = enabled
	a.mu.Unlock()

	a.inflight.Wait()

	if !enabled || !interval.Enabled() {
		slog.Debug("Auto-refresh disabled")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.active = true
	a.countdown = int(interval)
	gen := a.generation
	a.refreshTimer = a.clock.AfterFunc(interval.Duration(), func() { a.fireRefresh(gen) })
	a.countdownTimer = a.clock.AfterFunc(time.Second, func() { a.fireCountdown(gen) })

	slog.Debug("Auto-refresh enabled", "interval", interval.String())
}

// Stop clears both timers and the countdown. Once Stop returns no callback
// is running and none will run until the next Configure.
func (a *AutoRefresh) Stop() {
	a.mu.Lock()
	a.stopLocked()
	a.enabled = false
	a.mu.Unlock()

	a.inflight.Wait()
}

func (a *AutoRefresh) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked()
}

func (a *AutoRefresh) stopLocked() {
	a.generation++
	if a.refreshTimer != nil {
		a.refreshTimer.Stop()
		a.refreshTimer = nil
	}
	if a.countdownTimer != nil {
		a.countdownTimer.Stop()
		a.countdownTimer = nil
	}
	a.active = false
	a.countdown = 0
}

func (a *AutoRefresh) statusLocked() Status {
	if !a.active {
		return Status{Generation: a.generation}
	}
	remaining := a.countdown
	return Status{TimeUntilRefresh: &remaining, IsRefreshing: true, Generation: a.generation}
}

func (a *AutoRefresh) fireRefresh(gen uint64) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	a.refreshTimer = a.clock.AfterFunc(a.interval.Duration(), func() { a.fireRefresh(gen) })
	status := a.statusLocked()
	a.inflight.Add(1)
	a.mu.Unlock()

	defer a.inflight.Done()
	a.onRefresh(status)
}

func (a *AutoRefresh) fireCountdown(gen uint64) {
	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		return
	}
	if a.countdown <= 1 {
		a.countdown = int(a.interval)
	} else {
		a.countdown--
	}
	a.countdownTimer = a.clock.AfterFunc(time.Second, func() { a.fireCountdown(gen) })
	status := a.statusLocked()
	a.inflight.Add(1)
	a.mu.Unlock()

	defer a.inflight.Done()
	if a.onTick != nil {
		a.onTick(status)
	}
}
