package job

import (
	"context"
	"fmt"
	"time"
)

// process runs a single task and logs its outcome.
//
// A panicking task is recovered and reported as a failure so one bad task
// cannot take the process down.
func (j *JobService) process(ctx context.Context, t *Task) {
	start := time.Now()

	logger := j.logger.With().Str("type", t.Type).Fields(t.Fields).Logger()
	logger.Debug().Msg("Processing background task")

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return t.handler(ctx)
	}()

	if err != nil {
		logger.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Background task failed")
		return
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Msg("Background task completed")
}
