package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeAfterFuncFiresAtDeadline(t *testing.T) {
	clk := NewFake()

	fired := false
	clk.AfterFunc(time.Second, func() { fired = true })

	clk.Advance(999 * time.Millisecond)
	assert.False(t, fired)

	clk.Advance(time.Millisecond)
	assert.True(t, fired)
	assert.Equal(t, 0, clk.PendingTimers())
}

func TestFakeTimerStop(t *testing.T) {
	clk := NewFake()

	fired := false
	timer := clk.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	clk.Advance(time.Hour)
	assert.False(t, fired)

	// Stopping twice reports false.
	assert.False(t, timer.Stop())
}

func TestFakeFiresTimersInDeadlineOrder(t *testing.T) {
	clk := NewFake()

	var order []string
	clk.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	clk.AfterFunc(time.Second, func() { order = append(order, "a") })
	clk.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	clk.Advance(5 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFakeTimerCallbackCanRearm(t *testing.T) {
	clk := NewFake()

	fires := 0
	var schedule func()
	schedule = func() {
		clk.AfterFunc(time.Second, func() {
			fires++
			schedule()
		})
	}
	schedule()

	clk.Advance(3 * time.Second)
	assert.Equal(t, 3, fires)
	assert.Equal(t, 1, clk.PendingTimers())
}

func TestFakeNow(t *testing.T) {
	clk := NewFake()
	start := clk.Now()

	clk.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), clk.Now())
}

func TestFakeTicker(t *testing.T) {
	clk := NewFake()
	ticker := clk.NewTicker(time.Second)
	defer ticker.Stop()

	clk.Advance(time.Second)
	select {
	case <-ticker.C():
	default:
		t.Fatal("expected a tick")
	}

	ticker.Stop()
	clk.Advance(5 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("tick after Stop")
	default:
	}
}
