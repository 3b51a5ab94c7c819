package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingSleep(sleeps *[]time.Duration) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		*sleeps = append(*sleeps, d)
		return nil
	}
}

func TestTransferQueue_DelayOnlyBetweenJobs(t *testing.T) {
	var sleeps []time.Duration
	var ran []string

	jobs := []Job{
		{Name: "a", Run: func(ctx context.Context) error { ran = append(ran, "a"); return nil }},
		{Name: "b", Run: func(ctx context.Context) error { ran = append(ran, "b"); return nil }},
		{Name: "c", Run: func(ctx context.Context) error { ran = append(ran, "c"); return nil }},
	}

	q := &TransferQueue{Delay: 500 * time.Millisecond, Sleep: recordingSleep(&sleeps)}
	done, err := q.Run(context.Background(), jobs)

	require.NoError(t, err)
	assert.Equal(t, 3, done)
	assert.Equal(t, []string{"a", "b", "c"}, ran)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, sleeps)
}

func TestTransferQueue_StopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	var ran []string

	jobs := []Job{
		{Name: "a", Run: func(ctx context.Context) error { ran = append(ran, "a"); return nil }},
		{Name: "b", Run: func(ctx context.Context) error { ran = append(ran, "b"); return boom }},
		{Name: "c", Run: func(ctx context.Context) error { ran = append(ran, "c"); return nil }},
	}

	var failed []string
	q := &TransferQueue{OnError: func(job Job, err error) { failed = append(failed, job.Name) }}
	done, err := q.Run(context.Background(), jobs)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, done)
	assert.Equal(t, []string{"a", "b"}, ran)
	assert.Equal(t, []string{"b"}, failed)
}

func TestTransferQueue_ContinueOnError(t *testing.T) {
	jobs := []Job{
		{Name: "a", Run: func(ctx context.Context) error { return errors.New("nope") }},
		{Name: "b", Run: func(ctx context.Context) error { return nil }},
	}

	var failed []string
	q := &TransferQueue{ContinueOnError: true, OnError: func(job Job, err error) { failed = append(failed, job.Name) }}
	done, err := q.Run(context.Background(), jobs)

	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.Equal(t, []string{"a"}, failed)
}

func TestTransferQueue_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ran := 0
	jobs := []Job{
		{Name: "a", Run: func(ctx context.Context) error { ran++; cancel(); return nil }},
		{Name: "b", Run: func(ctx context.Context) error { ran++; return nil }},
	}

	q := &TransferQueue{Delay: time.Hour}
	done, err := q.Run(ctx, jobs)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, ran)
}

func TestContextSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, ContextSleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ContextSleep(ctx, time.Hour), context.Canceled)
}
