// Package tasks waits on asynchronous remote jobs until they reach a
// terminal phase, relaying progress updates to an observer.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/amankumarsingh77/video-nft-minter/internal/models"
)

const DefaultPollInterval = 2500 * time.Millisecond

// ProgressObserver receives task progress as a fraction in [0, 1]. It is
// invoked at most once per distinct value.
type ProgressObserver func(progress float64)

// Fetcher retrieves the current state of a task by id.
type Fetcher func(ctx context.Context, taskID string) (*models.Task, error)

// TaskFailedError means a polled task terminated in a failed or cancelled
// phase. Message carries the remote-supplied error text verbatim.
type TaskFailedError struct {
	TaskID  string
	Type    models.TaskType
	Phase   models.TaskPhase
	Message string
}

func (e *TaskFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s task %s %s", e.Type, e.TaskID, e.Phase)
	}
	return fmt.Sprintf("%s task %s %s: %s", e.Type, e.TaskID, e.Phase, e.Message)
}

// WaitForTask polls until the task reaches a terminal phase, starting from
// the state already in hand. A task that is terminal on entry returns
// immediately without sleeping or fetching. Cancelled tasks propagate as
// failures, and cancelling the context aborts the wait; the remote task
// keeps running server-side either way.
func WaitForTask(ctx context.Context, task *models.Task, fetch Fetcher, onProgress ProgressObserver, interval time.Duration) (*models.Task, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	lastProgress := -1.0
	for {
		switch task.Status.Phase {
		case models.TaskPhaseCompleted:
			return task, nil
		case models.TaskPhaseFailed, models.TaskPhaseCancelled:
			return nil, &TaskFailedError{
				TaskID:  task.ID,
				Type:    task.Type,
				Phase:   task.Status.Phase,
				Message: task.Status.ErrorMessage,
			}
		}

		if task.Status.Progress != nil {
			progress := normalizeProgress(*task.Status.Progress)
			if progress != lastProgress {
				lastProgress = progress
				if onProgress != nil {
					onProgress(progress)
				}
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		next, err := fetch(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		task = next
	}
}

// Some service versions report progress as a percentage.
func normalizeProgress(p float64) float64 {
	if p > 1 {
		return p / 100
	}
	return p
}
