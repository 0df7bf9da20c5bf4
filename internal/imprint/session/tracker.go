// Package session tracks per-conversation capture state.
//
// The capture flag is pure session state: it never survives a restart and
// never leaks across chats. The original design kept flags forever; the
// tracker bounds memory growth by sweeping flags idle past a TTL, which a
// user cannot tell apart from having sent /done.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SweepInterval is how often the background loop checks for stale flags.
const SweepInterval = 10 * time.Minute

// Tracker holds the capture flag for each active chat. Safe for concurrent
// use.
type Tracker struct {
	mu    sync.Mutex
	ttl   time.Duration
	flags map[int64]time.Time // chat id -> last activity while capturing
}

// NewTracker creates a Tracker. ttl <= 0 disables expiry.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		ttl:   ttl,
		flags: make(map[int64]time.Time),
	}
}

// Begin turns capture mode on for the chat. Calling it while already on
// has no additional effect beyond refreshing the idle timer.
func (t *Tracker) Begin(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flags[chatID] = time.Now()
}

// End turns capture mode off. A no-op when the flag was never set.
func (t *Tracker) End(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.flags, chatID)
}

// Active reports whether the chat is in capture mode. When it is, the idle
// timer is refreshed so a chat that keeps sending memories never expires
// mid-session.
func (t *Tracker) Active(chatID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.flags[chatID]; !ok {
		return false
	}
	t.flags[chatID] = time.Now()
	return true
}

// Sweep removes flags idle longer than the TTL and returns how many were
// dropped. A no-op when expiry is disabled.
func (t *Tracker) Sweep(now time.Time) int {
	if t.ttl <= 0 {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	dropped := 0
	for chatID, last := range t.flags {
		if now.Sub(last) > t.ttl {
			delete(t.flags, chatID)
			dropped++
		}
	}
	return dropped
}

// Run sweeps stale flags on a fixed cadence until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	if t.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Sweep(time.Now()); n > 0 {
				slog.Info("swept stale capture flags", "count", n)
			}
		}
	}
}
