package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerTripsAfterMaxFailures(t *testing.T) {
	cb := New(Settings{Name: "test", MaxFailures: 2, Cooldown: time.Minute})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		err := cb.Execute(func() error { return boom })
		require.ErrorIs(t, err, boom)
	}

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrOpen)
}

func TestBreakerRecoversAfterCooldown(t *testing.T) {
	cb := New(Settings{Name: "test", MaxFailures: 1, Cooldown: 10 * time.Millisecond})

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	require.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpen)

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Settings{Name: "test", MaxFailures: 2, Cooldown: time.Minute})

	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return errors.New("boom") }))

	// Still closed: the success in between reset the count.
	assert.NoError(t, cb.Execute(func() error { return nil }))
}
