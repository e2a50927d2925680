package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0sat/satbot/internal/logger"
)

func init() {
	_ = logger.Initialize(false)
}

func TestRunWithRetrySucceedsFirstAttempt(t *testing.T) {
	var calls int32
	w := &Worker{
		Name: "test",
		Body: func(ctx context.Context) (Outcome, error) {
			atomic.AddInt32(&calls, 1)
			return Outcome{Summary: "ok"}, nil
		},
		Retry: NoRetry,
	}
	outcome, err := runWithRetry(context.Background(), w, logger.With(logger.SymSchedule))
	require.NoError(t, err)
	assert.Equal(t, "ok", outcome.Summary)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRunWithRetryExhaustsAttempts(t *testing.T) {
	var calls int32
	w := &Worker{
		Name: "test",
		Body: func(ctx context.Context) (Outcome, error) {
			atomic.AddInt32(&calls, 1)
			return Outcome{}, assertErr
		},
		Retry: RetryPolicy{MaxAttempts: 3, Backoff: func(attempt int) time.Duration { return time.Millisecond }},
	}
	_, err := runWithRetry(context.Background(), w, logger.With(logger.SymSchedule))
	require.Error(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRunWithRetryRecoversAfterFailure(t *testing.T) {
	var calls int32
	w := &Worker{
		Name: "test",
		Body: func(ctx context.Context) (Outcome, error) {
			n := atomic.AddInt32(&calls, 1)
			if n < 2 {
				return Outcome{}, assertErr
			}
			return Outcome{Summary: "recovered"}, nil
		},
		Retry: RetryPolicy{MaxAttempts: 3, Backoff: func(attempt int) time.Duration { return time.Millisecond }},
	}
	outcome, err := runWithRetry(context.Background(), w, logger.With(logger.SymSchedule))
	require.NoError(t, err)
	assert.Equal(t, "recovered", outcome.Summary)
}

func TestManagerStartShutdown(t *testing.T) {
	var calls int32
	m := NewManager(context.Background())
	m.Register(&Worker{
		Name:        "immediate",
		InitialTick: true,
		Trigger:     func(now time.Time) time.Time { return now.Add(time.Hour) },
		Retry:       NoRetry,
		Body: func(ctx context.Context) (Outcome, error) {
			atomic.AddInt32(&calls, 1)
			return Outcome{Summary: "tick"}, nil
		},
	})
	m.Start()
	time.Sleep(20 * time.Millisecond)
	m.Shutdown()
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

var assertErr = testError("boom")

type testError string

func (e testError) Error() string { return string(e) }
