package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/newsdesk/app/client"
)

// UpdateDelay is the fixed wait between a successful update trigger and the
// reload. The backend gives no completion signal.
const UpdateDelay = 2 * time.Second

// Trigger starts a server-side corpus rebuild.
type Trigger interface {
	TriggerUpdate(ctx context.Context) (*client.UpdateResponse, error)
}

// Updater performs manual updates: trigger, fixed delay, reload.
type Updater struct {
	trigger Trigger
	reload  func(ctx context.Context) error
	clock   Clock
	delay   time.Duration
	onDone  func(error)

	mu       sync.Mutex
	updating bool
	pending  Timer
	seq      int
}

// NewUpdater creates an Updater. onDone, if set, receives the reload result
// after the delayed reload finishes.
func NewUpdater(trigger Trigger, reload func(ctx context.Context) error, clock Clock, delay time.Duration, onDone func(error)) *Updater {
	return &Updater{
		trigger: trigger,
		reload:  reload,
		clock:   clock,
		delay:   delay,
		onDone:  onDone,
	}
}

// TriggerUpdate requests a backend update and schedules the reload. It
// returns once the trigger call completes; IsUpdating stays true until the
// delayed reload has finished. A failed trigger schedules nothing and leaves
// an earlier pending reload in place.
func (u *Updater) TriggerUpdate(ctx context.Context) error {
	u.mu.Lock()
	u.updating = true
	u.mu.Unlock()

	resp, err := u.trigger.TriggerUpdate(ctx)
	if err != nil {
		u.mu.Lock()
		if u.pending == nil {
			u.updating = false
		}
		u.mu.Unlock()
		return fmt.Errorf("failed to trigger update: %w", err)
	}

	slog.Info("Backend update triggered", "status", resp.Status, "message", resp.Message)

	reloadCtx := context.WithoutCancel(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending != nil {
		u.pending.Stop()
	}
	u.seq++
	seq := u.seq
	u.pending = u.clock.AfterFunc(u.delay, func() {
		err := u.reload(reloadCtx)
		if err != nil {
			slog.Warn("Reload after update failed", "error", err)
		}

		u.mu.Lock()
		if u.seq == seq {
			u.updating = false
			u.pending = nil
		}
		u.mu.Unlock()

		if u.onDone != nil {
			u.onDone(err)
		}
	})

	return nil
}

func (u *Updater) IsUpdating() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.updating
}

// Stop cancels a pending reload.
func (u *Updater) Stop() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.pending != nil && u.pending.Stop() {
		u.updating = false
	}
	u.pending = nil
}
