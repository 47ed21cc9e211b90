package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimerMode says which interval the focus timer is counting down.
type TimerMode string

const (
	ModeWork  TimerMode = "work"
	ModeBreak TimerMode = "break"
)

const (
	WorkDuration  = 25 * time.Minute
	BreakDuration = 5 * time.Minute
)

// sessionRecorder is the slice of ProfileCache the timer needs.
type sessionRecorder interface {
	AddFocusSession(ctx context.Context, durationMinutes int) error
}

// FocusTimer is a Pomodoro-style countdown. Work intervals that run
// to zero are persisted as focus sessions before the timer flips to a
// break; breaks flip back silently. Remaining time is tracked as a
// deadline while running and as a duration while paused, so pausing
// and resuming never loses or gains time.
type FocusTimer struct {
	recorder sessionRecorder
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	mode      TimerMode
	running   bool
	remaining time.Duration // valid while paused
	deadline  time.Time     // valid while running
}

func NewFocusTimer(recorder sessionRecorder, logger *zap.Logger) *FocusTimer {
	return &FocusTimer{
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
		mode:      ModeWork,
		remaining: WorkDuration,
	}
}

func (t *FocusTimer) Mode() TimerMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

func (t *FocusTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Remaining reports time left in the current interval. Never negative.
func (t *FocusTimer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return t.remaining
	}
	left := t.deadline.Sub(t.now())
	if left < 0 {
		return 0
	}
	return left
}

// Start begins or resumes the countdown from whatever time remains.
func (t *FocusTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.deadline = t.now().Add(t.remaining)
	t.running = true
}

func (t *FocusTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	left := t.deadline.Sub(t.now())
	if left < 0 {
		left = 0
	}
	t.remaining = left
	t.running = false
}

// Reset stops the timer and restores the full duration of the current
// mode.
func (t *FocusTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.remaining = durationFor(t.mode)
}

// Tick advances the state machine. Callers drive it from their render
// loop or a ticker. When a running interval has expired, a finished
// work interval is persisted first and then the timer flips mode.
// Persist failures are logged and do not block the flip, the user
// should get their break either way.
func (t *FocusTimer) Tick(ctx context.Context) {
	t.mu.Lock()
	if !t.running || t.now().Before(t.deadline) {
		t.mu.Unlock()
		return
	}
	// Freeze at zero while the persist runs. Mode still reads as the
	// finished interval, and a concurrent Tick sees a stopped timer.
	finished := t.mode
	t.running = false
	t.remaining = 0
	t.mu.Unlock()

	if finished == ModeWork {
		minutes := int(WorkDuration / time.Minute)
		if err := t.recorder.AddFocusSession(ctx, minutes); err != nil {
			t.logger.Warn("focus session not recorded", zap.Int("minutes", minutes), zap.Error(err))
		}
	}

	t.mu.Lock()
	t.mode = nextMode(finished)
	t.remaining = durationFor(t.mode)
	t.deadline = t.now().Add(t.remaining)
	t.running = true
	t.mu.Unlock()
}

// Run drives Tick once a second until ctx is done. Optional; callers
// with their own loop can call Tick directly.
func (t *FocusTimer) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

func nextMode(m TimerMode) TimerMode {
	if m == ModeWork {
		return ModeBreak
	}
	return ModeWork
}

func durationFor(m TimerMode) time.Duration {
	if m == ModeBreak {
		return BreakDuration
	}
	return WorkDuration
}
