package slidingwindow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanotile/ai-document-writer/internal/slidingwindow"
)

func TestWindow_EmptyWindow(t *testing.T) {
	window := slidingwindow.New(60*time.Second, 10)
	now := time.Now()

	assert.Equal(t, 0, window.Count(now))
	assert.True(t, window.TryRecord(now))
	assert.Equal(t, 1, window.Count(now))
}

func TestWindow_RecordUnderLimit(t *testing.T) {
	window := slidingwindow.New(60*time.Second, 10)
	now := time.Now()

	// Add requests under limit
	for i := 0; i < 5; i++ {
		require.True(t, window.TryRecord(now))
	}
	assert.Equal(t, 5, window.Count(now))
	assert.Equal(t, time.Duration(0), window.RetryAfter(now))
}

func TestWindow_RecordAtLimit(t *testing.T) {
	window := slidingwindow.New(60*time.Second, 3)
	now := time.Now()

	// Fill to limit
	for i := 0; i < 3; i++ {
		require.True(t, window.TryRecord(now))
	}
	assert.Equal(t, 3, window.Count(now))

	// Next request should be blocked
	assert.False(t, window.TryRecord(now))
	assert.Equal(t, 3, window.Count(now))
}

func TestWindow_ZeroLimit(t *testing.T) {
	window := slidingwindow.New(60*time.Second, 0)
	now := time.Now()

	assert.False(t, window.TryRecord(now))
	assert.Equal(t, 0, window.Count(now))
}

func TestWindow_SlidingExpiration(t *testing.T) {
	window := slidingwindow.New(10*time.Second, 100)
	baseTime := time.Now()

	// Add requests at different times
	for i := 0; i < 3; i++ {
		window.TryRecord(baseTime) // at t=0
	}
	for i := 0; i < 2; i++ {
		window.TryRecord(baseTime.Add(5 * time.Second)) // at t=5
	}

	// All requests visible at t=5
	assert.Equal(t, 5, window.Count(baseTime.Add(5*time.Second)))

	// Only t=5 requests remain at t=12 (t=0 requests expired)
	assert.Equal(t, 2, window.Count(baseTime.Add(12*time.Second)))

	// All expired at t=16
	assert.Equal(t, 0, window.Count(baseTime.Add(16*time.Second)))
	assert.True(t, window.Empty(baseTime.Add(16*time.Second)))
}

func TestWindow_ExactBoundary(t *testing.T) {
	window := slidingwindow.New(10*time.Second, 100)
	baseTime := time.Now()

	window.TryRecord(baseTime)

	// Still in window just before boundary
	assert.Equal(t, 1, window.Count(baseTime.Add(9*time.Second)))

	// Expired at exact boundary
	assert.Equal(t, 0, window.Count(baseTime.Add(10*time.Second)))
}

func TestWindow_RetryAfter(t *testing.T) {
	window := slidingwindow.New(60*time.Second, 2)
	baseTime := time.Now()

	require.True(t, window.TryRecord(baseTime))
	require.True(t, window.TryRecord(baseTime.Add(10*time.Second)))

	// Full at t=20: oldest leaves the window at t=60
	wait := window.RetryAfter(baseTime.Add(20 * time.Second))
	assert.Equal(t, 40*time.Second, wait)

	// Once the wait elapses, a slot is free again
	later := baseTime.Add(20 * time.Second).Add(wait)
	assert.True(t, window.TryRecord(later))
}

func TestWindow_RetryAfterNeverNegative(t *testing.T) {
	window := slidingwindow.New(time.Second, 1)
	baseTime := time.Now()

	require.True(t, window.TryRecord(baseTime))
	assert.GreaterOrEqual(t, window.RetryAfter(baseTime.Add(5*time.Second)), time.Duration(0))
}

func TestWindow_ConcurrentExceedingLimit(t *testing.T) {
	window := slidingwindow.New(60*time.Second, 50)
	now := time.Now()

	const totalRequests = 100
	results := make(chan bool, totalRequests)

	for i := 0; i < totalRequests; i++ {
		go func() {
			results <- window.TryRecord(now)
		}()
	}

	successful := 0
	for i := 0; i < totalRequests; i++ {
		if <-results {
			successful++
		}
	}

	// Exactly the limit is admitted, no matter the interleaving
	assert.Equal(t, 50, successful)
	assert.Equal(t, 50, window.Count(now))
}
