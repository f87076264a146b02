package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream unavailable")

func TestExecutePassesThrough(t *testing.T) {
	cb := New(Settings{Name: "test", FailureThreshold: 3, OpenTimeout: time.Minute})

	calls := 0
	err := cb.Execute(func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "test", cb.Name())
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(Settings{FailureThreshold: 2, OpenTimeout: time.Minute})

	calls := 0
	fail := func() error {
		calls++
		return errDownstream
	}

	require.ErrorIs(t, cb.Execute(fail), errDownstream)
	require.ErrorIs(t, cb.Execute(fail), errDownstream)

	// Breaker is open: the downstream is no longer called.
	require.ErrorIs(t, cb.Execute(fail), ErrOpen)
	assert.Equal(t, 2, calls)
}

func TestHalfOpenProbeClosesOnSuccess(t *testing.T) {
	cb := New(Settings{FailureThreshold: 1, OpenTimeout: 5 * time.Millisecond})

	require.ErrorIs(t, cb.Execute(func() error { return errDownstream }), errDownstream)
	require.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
}

func TestHalfOpenProbeReopensOnFailure(t *testing.T) {
	cb := New(Settings{FailureThreshold: 1, OpenTimeout: 5 * time.Millisecond})

	require.ErrorIs(t, cb.Execute(func() error { return errDownstream }), errDownstream)

	time.Sleep(10 * time.Millisecond)

	// The probe fails, so the breaker trips straight back open.
	require.ErrorIs(t, cb.Execute(func() error { return errDownstream }), errDownstream)
	require.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Settings{FailureThreshold: 2, OpenTimeout: time.Minute})

	require.ErrorIs(t, cb.Execute(func() error { return errDownstream }), errDownstream)
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.ErrorIs(t, cb.Execute(func() error { return errDownstream }), errDownstream)

	// One failure after a success is below the threshold.
	calls := 0
	require.NoError(t, cb.Execute(func() error {
		calls++
		return nil
	}))
	assert.Equal(t, 1, calls)
}
