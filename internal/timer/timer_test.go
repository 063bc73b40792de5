package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

type recorder struct {
	mu        sync.Mutex
	ticks     []time.Duration
	completed int
}

func (r *recorder) tick(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, d)
}

func (r *recorder) complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recorder) snapshot() ([]time.Duration, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.ticks...), r.completed
}

func newTestTimer(d time.Duration) (*Timer, *fakeTicker, *recorder) {
	ticker := &fakeTicker{c: make(chan time.Time)}
	rec := &recorder{}
	timer := New(d,
		WithTicker(func(time.Duration) Ticker { return ticker }),
		OnTick(rec.tick),
		OnComplete(rec.complete),
	)
	return timer, ticker, rec
}

func TestNew_DefaultDuration(t *testing.T) {
	timer := New(0)
	assert.Equal(t, DefaultDuration, timer.Remaining())
	assert.False(t, timer.Running())
}

func TestTimer_CountsDownAndCompletes(t *testing.T) {
	timer, ticker, rec := newTestTimer(3 * time.Second)

	timer.Start()
	require.True(t, timer.Running())
	for i := 0; i < 3; i++ {
		ticker.c <- time.Time{}
	}

	assert.Eventually(t, func() bool { return !timer.Running() }, time.Second, time.Millisecond)
	ticks, completed := rec.snapshot()
	assert.Equal(t, []time.Duration{2 * time.Second, time.Second, 0}, ticks)
	assert.Equal(t, 1, completed)
	assert.Equal(t, time.Duration(0), timer.Remaining())

	// Extra ticks after completion do not complete again.
	timer.Tick()
	_, completed = rec.snapshot()
	assert.Equal(t, 1, completed)
}

func TestTimer_StartAfterCompletion(t *testing.T) {
	var mu sync.Mutex
	started := 0
	ticker := &fakeTicker{c: make(chan time.Time)}
	timer := New(time.Second, WithTicker(func(time.Duration) Ticker {
		mu.Lock()
		defer mu.Unlock()
		started++
		return ticker
	}))

	timer.Tick()
	require.Equal(t, time.Duration(0), timer.Remaining())

	timer.Start()
	assert.False(t, timer.Running(), "a finished timer does not start again")
	mu.Lock()
	assert.Equal(t, 0, started)
	mu.Unlock()

	timer.Reset()
	timer.Start()
	assert.True(t, timer.Running())
	timer.Stop()
	assert.Equal(t, time.Second, timer.Remaining())
	mu.Lock()
	assert.Equal(t, 1, started)
	mu.Unlock()
}

func TestTimer_StopKeepsRemaining(t *testing.T) {
	timer, ticker, _ := newTestTimer(time.Minute)

	timer.Start()
	ticker.c <- time.Time{}
	timer.Stop()
	timer.Stop()

	assert.False(t, timer.Running())
	assert.Equal(t, 59*time.Second, timer.Remaining())
	ticker.mu.Lock()
	assert.True(t, ticker.stopped)
	ticker.mu.Unlock()
}

func TestTimer_Toggle(t *testing.T) {
	timer, _, _ := newTestTimer(time.Minute)

	timer.Toggle()
	assert.True(t, timer.Running())
	timer.Toggle()
	assert.False(t, timer.Running())
}

func TestTimer_Reset(t *testing.T) {
	timer, _, rec := newTestTimer(time.Minute)

	timer.Tick()
	timer.Tick()
	require.Equal(t, 58*time.Second, timer.Remaining())

	timer.Start()
	timer.Reset()
	assert.False(t, timer.Running())
	assert.Equal(t, time.Minute, timer.Remaining())
	ticks, _ := rec.snapshot()
	assert.Equal(t, time.Minute, ticks[len(ticks)-1])
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 25 * time.Minute, want: "25:00"},
		{d: 61 * time.Second, want: "01:01"},
		{d: 0, want: "00:00"},
		{d: -time.Second, want: "00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.d))
		})
	}
}
