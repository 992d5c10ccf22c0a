package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob_InvalidSpec(t *testing.T) {
	s := New()
	err := s.AddJob("not a spec", "bad", func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestRunNow(t *testing.T) {
	s := New()
	calls := 0
	require.NoError(t, s.AddJob("@hourly", "sweep", func(ctx context.Context) error {
		calls++
		return ctx.Err()
	}))
	require.NoError(t, s.AddJob("0 21 * * *", "report", func(context.Context) error {
		return errors.New("boom")
	}))
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.RunNow("sweep"))
	assert.True(t, s.RunNow("report"), "job errors are logged, not propagated")
	assert.False(t, s.RunNow("missing"))
	assert.Equal(t, 1, calls)
}

func TestRunNow_RecoversPanic(t *testing.T) {
	s := New()
	require.NoError(t, s.AddJob("@daily", "panicky", func(context.Context) error { panic("oops") }))
	assert.NotPanics(t, func() { s.RunNow("panicky") })
}

func TestStartStop(t *testing.T) {
	s := New()
	var jobCtx context.Context
	require.NoError(t, s.AddJob("@hourly", "ctx", func(ctx context.Context) error {
		jobCtx = ctx
		return nil
	}))
	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())

	s.RunNow("ctx")
	s.Stop()
	assert.False(t, s.IsRunning())
	require.NotNil(t, jobCtx)
	assert.ErrorIs(t, jobCtx.Err(), context.Canceled)
}
