// Package job runs fire-and-forget background work for the forms service.
//
// Tasks are executed in their own goroutine as soon as they are dispatched.
// There is no queue behind them: a task that fails is logged and dropped,
// never retried. The HTTP response that dispatched a task never waits for it.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTaskTimeout bounds a single task when none is configured.
const DefaultTaskTimeout = 30 * time.Second

// JobService tracks in-flight tasks so the server can drain them on shutdown.
type JobService struct {
	// timeout bounds each task, independently of the request that dispatched it.
	timeout time.Duration

	// logger is used for lifecycle logs and task outcome logs.
	logger *zerolog.Logger

	mu       sync.Mutex
	stopped  bool
	inFlight sync.WaitGroup
}

// NewJobService creates a JobService whose tasks each run for at most timeout.
func NewJobService(logger *zerolog.Logger, timeout time.Duration) *JobService {
	if timeout <= 0 {
		timeout = DefaultTaskTimeout
	}

	return &JobService{
		timeout: timeout,
		logger:  logger,
	}
}

// Dispatch starts t in the background and returns immediately.
//
// The task gets a fresh context: cancelling the caller's request context does
// not cancel the task. Dispatch reports false, without running t, once Stop
// has been called.
func (j *JobService) Dispatch(t *Task) bool {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		j.logger.Warn().Str("type", t.Type).Msg("Job service stopped, dropping task")
		return false
	}
	j.inFlight.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.inFlight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		j.process(ctx, t)
	}()

	return true
}

// Stop refuses new tasks and waits for in-flight ones to finish, or for ctx
// to be done, whichever comes first.
func (j *JobService) Stop(ctx context.Context) error {
	j.mu.Lock()
	j.stopped = true
	j.mu.Unlock()

	j.logger.Info().Msg("Stopping background job service")

	done := make(chan struct{})
	go func() {
		j.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		j.logger.Warn().Msg("Background tasks still running at shutdown deadline")
		return ctx.Err()
	}
}
