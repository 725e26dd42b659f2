// Package slidingwindow implements a rolling-window event counter.
package slidingwindow

import (
	"sync"
	"time"
)

// Window tracks events within a sliding window of time
type Window struct {
	timestamps []time.Time
	windowSize time.Duration
	maxCount   int

	mu sync.Mutex
}

func New(windowSize time.Duration, maxCount int) *Window {
	return &Window{
		timestamps: make([]time.Time, 0),
		windowSize: windowSize,
		maxCount:   maxCount,
	}
}

// TryRecord attempts to record an event at the given instant.
// Returns true if recorded successfully, false if the limit would be exceeded.
func (w *Window) TryRecord(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cleanOld(now)

	if len(w.timestamps) >= w.maxCount {
		return false
	}

	w.timestamps = append(w.timestamps, now)
	return true
}

// Count returns the number of events in the current window
func (w *Window) Count(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cleanOld(now)
	return len(w.timestamps)
}

// RetryAfter returns how long until the oldest retained event leaves the
// window, freeing a slot. Zero when a slot is already free.
func (w *Window) RetryAfter(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cleanOld(now)

	if len(w.timestamps) < w.maxCount {
		return 0
	}

	wait := w.timestamps[0].Add(w.windowSize).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait
}

// Empty reports whether no events remain in the window.
func (w *Window) Empty(now time.Time) bool {
	return w.Count(now) == 0
}

// cleanOld removes timestamps outside the window (must be called with a lock)
func (w *Window) cleanOld(now time.Time) {
	windowStart := now.Add(-w.windowSize)

	// Find the first timestamp within the window
	cutoffIndex := 0
	for cutoffIndex < len(w.timestamps) && !w.timestamps[cutoffIndex].After(windowStart) {
		cutoffIndex++
	}

	// Keep only timestamps from cutoffIndex onwards
	w.timestamps = w.timestamps[cutoffIndex:]
}
