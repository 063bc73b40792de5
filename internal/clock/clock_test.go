package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var c Clock = Fixed(at)
	assert.Equal(t, at, c.Now())
	assert.Equal(t, at, c.Now())
}

func TestFunc(t *testing.T) {
	calls := 0
	var c Clock = Func(func() time.Time {
		calls++
		return time.Unix(int64(calls), 0)
	})
	assert.Equal(t, int64(1), c.Now().Unix())
	assert.Equal(t, int64(2), c.Now().Unix())
}

func TestSystem(t *testing.T) {
	before := time.Now()
	got := System{}.Now()
	assert.False(t, got.Before(before))
}
