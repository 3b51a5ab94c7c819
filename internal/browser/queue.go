package browser

import (
	"context"
	"time"
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the default SleepFunc
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Job is one queued transfer
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// TransferQueue runs jobs strictly one at a time
type TransferQueue struct {
	// Delay is inserted between consecutive jobs, never before the first or after the last
	Delay time.Duration
	Sleep SleepFunc
	// ContinueOnError keeps going after a failed job; OnError sees every failure
	ContinueOnError bool
	OnError         func(job Job, err error)
}

// Run executes jobs in order and returns the number that succeeded.
// Without ContinueOnError the first failure stops the queue and is returned.
func (q *TransferQueue) Run(ctx context.Context, jobs []Job) (int, error) {
	sleep := q.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	done := 0
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return done, err
		}

		if i > 0 && q.Delay > 0 {
			if err := sleep(ctx, q.Delay); err != nil {
				return done, err
			}
		}

		if err := job.Run(ctx); err != nil {
			if q.OnError != nil {
				q.OnError(job, err)
			}
			if !q.ContinueOnError || ctx.Err() != nil {
				return done, err
			}
			continue
		}
		done++
	}

	return done, nil
}
