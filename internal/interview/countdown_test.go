package interview

import (
	"sync"
	"testing"
	"time"
)

func newFastCountdown() *TickerCountdown {
	c := NewTickerCountdown()
	c.interval = time.Millisecond
	return c
}

func TestTickerCountdownExpires(t *testing.T) {
	c := newFastCountdown()

	var mu sync.Mutex
	var ticks []int
	expired := make(chan struct{})
	c.Arm(3, func(r int) {
		mu.Lock()
		ticks = append(ticks, r)
		mu.Unlock()
	}, func() { close(expired) })

	select {
	case <-expired:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(ticks) != 3 || ticks[0] != 2 || ticks[2] != 0 {
		t.Fatalf("unexpected ticks %v", ticks)
	}
	if c.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", c.Remaining())
	}
}

func TestTickerCountdownCancel(t *testing.T) {
	c := NewTickerCountdown()
	c.interval = 20 * time.Millisecond

	expired := make(chan struct{}, 1)
	c.Arm(2, nil, func() { expired <- struct{}{} })
	if got := c.Remaining(); got != 2 {
		t.Fatalf("expected 2 remaining after arm, got %d", got)
	}
	c.Cancel()

	select {
	case <-expired:
		t.Fatal("cancelled countdown expired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTickerCountdownRearmReplacesPrevious(t *testing.T) {
	c := newFastCountdown()

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	c.Arm(1000, nil, func() { first <- struct{}{} })
	c.Arm(2, nil, func() { second <- struct{}{} })

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("second countdown did not expire")
	}
	select {
	case <-first:
		t.Fatal("replaced countdown expired")
	default:
	}
}

func TestWarningThreshold(t *testing.T) {
	tests := map[int]int{300: 10, 600: 10, 40: 10, 20: 5, 8: 2}
	for limit, want := range tests {
		if got := warningThreshold(limit); got != want {
			t.Errorf("warningThreshold(%d) = %d, want %d", limit, got, want)
		}
	}
}
