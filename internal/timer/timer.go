// Package timer implements the focus countdown timer.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// DefaultDuration is the length of one focus session.
const DefaultDuration = 25 * time.Minute

// Ticker delivers one tick per second while the timer runs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t systemTicker) C() <-chan time.Time { return t.ticker.C }
func (t systemTicker) Stop()               { t.ticker.Stop() }

func newSystemTicker(d time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(d)}
}

type Option func(*Timer)

// WithTicker replaces the wall clock ticker.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(t *Timer) { t.newTicker = newTicker }
}

// OnTick is called with the remaining time after every tick.
func OnTick(fn func(remaining time.Duration)) Option {
	return func(t *Timer) { t.onTick = fn }
}

// OnComplete is called once when the countdown reaches zero.
func OnComplete(fn func()) Option {
	return func(t *Timer) { t.onComplete = fn }
}

// Timer counts down in one second steps. Callbacks run on the timer goroutine without the lock held.
type Timer struct {
	duration   time.Duration
	newTicker  func(time.Duration) Ticker
	onTick     func(time.Duration)
	onComplete func()

	mu        sync.Mutex
	remaining time.Duration
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func New(duration time.Duration, opts ...Option) *Timer {
	if duration <= 0 {
		duration = DefaultDuration
	}
	t := &Timer{
		duration:   duration,
		remaining:  duration,
		newTicker:  newSystemTicker,
		onTick:     func(time.Duration) {},
		onComplete: func() {},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Start resumes the countdown. It does nothing when the timer is already running
// or has finished; a finished timer needs Reset first.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.remaining == 0 {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})

	ticker := t.newTicker(time.Second)
	t.wg.Add(1)
	go t.loop(ticker, t.stopCh)
}

func (t *Timer) loop(ticker Ticker, stopCh <-chan struct{}) {
	defer t.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C():
			t.Tick()
		case <-stopCh:
			return
		}
	}
}

// Stop pauses the countdown and keeps the remaining time.
func (t *Timer) Stop() {
	t.mu.Lock()
	if !t.halt() {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.wg.Wait()
}

// halt must be called with the lock held.
func (t *Timer) halt() bool {
	if !t.running {
		return false
	}
	t.running = false
	close(t.stopCh)
	return true
}

// Toggle starts a paused timer and pauses a running one.
func (t *Timer) Toggle() {
	if t.Running() {
		t.Stop()
		return
	}
	t.Start()
}

// Reset stops the timer and restores the full duration.
func (t *Timer) Reset() {
	t.Stop()
	t.mu.Lock()
	t.remaining = t.duration
	t.mu.Unlock()
	t.onTick(t.duration)
}

// Tick advances the countdown by one second. Reaching zero stops the timer and fires OnComplete once.
func (t *Timer) Tick() {
	t.mu.Lock()
	completed := false
	if t.remaining > 0 {
		t.remaining -= time.Second
		if t.remaining < 0 {
			t.remaining = 0
		}
		completed = t.remaining == 0
	}
	remaining := t.remaining
	if completed {
		t.halt()
	}
	t.mu.Unlock()

	t.onTick(remaining)
	if completed {
		t.onComplete()
	}
}

// Format renders d as MM:SS.
func Format(d time.Duration) string {
	seconds := int(d.Round(time.Second) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
