package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanotile/ai-document-writer/internal/clock"
	"github.com/nanotile/ai-document-writer/internal/session"
)

func TestStore_TouchUnknownID(t *testing.T) {
	clk := clock.NewManual(time.Now())
	store := session.NewStore(30*time.Minute, clk)

	_, ok := store.Touch("nope")
	assert.False(t, ok)
}

func TestStore_SlidingExpiry(t *testing.T) {
	clk := clock.NewManual(time.Now())
	store := session.NewStore(30*time.Minute, clk)

	id, err := store.Mint("kent")
	require.NoError(t, err)

	// Just inside the timeout: valid, and the deadline is extended
	clk.Advance(30*time.Minute - time.Second)
	owner, ok := store.Touch(id)
	require.True(t, ok)
	assert.Equal(t, "kent", owner)

	// The previous touch reset the countdown
	clk.Advance(30*time.Minute - time.Second)
	_, ok = store.Touch(id)
	assert.True(t, ok)
}

func TestStore_ExpiresAfterIdleTimeout(t *testing.T) {
	clk := clock.NewManual(time.Now())
	store := session.NewStore(30*time.Minute, clk)

	id, err := store.Mint("kent")
	require.NoError(t, err)

	clk.Advance(30*time.Minute + time.Second)
	_, ok := store.Touch(id)
	assert.False(t, ok)

	// The expired record is gone; a second touch behaves the same
	_, ok = store.Touch(id)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Active())
}

func TestStore_ExactTimeoutBoundaryIsValid(t *testing.T) {
	clk := clock.NewManual(time.Now())
	store := session.NewStore(time.Minute, clk)

	id, err := store.Mint("kent")
	require.NoError(t, err)

	// now - lastActivity == timeout is still valid
	clk.Advance(time.Minute)
	_, ok := store.Touch(id)
	assert.True(t, ok)
}

func TestStore_CreateRejectsDuplicateID(t *testing.T) {
	clk := clock.NewManual(time.Now())
	store := session.NewStore(30*time.Minute, clk)

	require.NoError(t, store.Create("fixed-id", "kent"))
	err := store.Create("fixed-id", "mallory")
	require.ErrorIs(t, err, session.ErrSessionExists)

	// The original session is untouched
	owner, ok := store.Touch("fixed-id")
	require.True(t, ok)
	assert.Equal(t, "kent", owner)
}

func TestStore_Revoke(t *testing.T) {
	clk := clock.NewManual(time.Now())
	store := session.NewStore(30*time.Minute, clk)

	id, err := store.Mint("kent")
	require.NoError(t, err)

	store.Revoke(id)
	_, ok := store.Touch(id)
	assert.False(t, ok)
}

func TestStore_SweepOnCreateBoundsGrowth(t *testing.T) {
	clk := clock.NewManual(time.Now())
	store := session.NewStore(time.Minute, clk)

	for i := 0; i < 5; i++ {
		_, err := store.Mint("kent")
		require.NoError(t, err)
	}
	assert.Equal(t, 5, store.Active())

	clk.Advance(2 * time.Minute)
	_, err := store.Mint("kent")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Active())
}
