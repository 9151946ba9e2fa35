package newsfeed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(ctx context.Context, force bool) (Report, error) {
	r.calls.Add(1)
	if force {
		return Report{}, errors.New("scheduled runs must not force")
	}
	if _, ok := ctx.Deadline(); !ok {
		return Report{}, errors.New("missing deadline")
	}
	return Report{}, r.err
}

func TestSchedulerRejectsInvalidSpec(t *testing.T) {
	_, err := NewScheduler("every tuesday", &countingRunner{}, time.Second, nil)
	require.Error(t, err)
}

func TestSchedulerStartStopDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	runner := &countingRunner{}
	s, err := NewScheduler("@every 1h", runner, time.Second, nil)
	require.NoError(t, err)

	s.Start()
	assert.False(t, s.Next().IsZero())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestSchedulerRunOnceUsesTimeout(t *testing.T) {
	runner := &countingRunner{err: ErrAlreadyRunning}
	s, err := NewScheduler("*/5 * * * *", runner, time.Second, nil)
	require.NoError(t, err)

	s.runOnce()
	assert.Equal(t, int32(1), runner.calls.Load())
	require.NoError(t, s.Stop(context.Background()))
}
