package rules

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
)

// validTransitions is the task lifecycle table. COMPLETED and CANCELLED are
// terminal: they have no outgoing edges.
var validTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusPending: {
		models.TaskStatusInProgress,
		models.TaskStatusCancelled,
	},
	models.TaskStatusInProgress: {
		models.TaskStatusCompleted,
		models.TaskStatusPending,
		models.TaskStatusCancelled,
	},
	models.TaskStatusCompleted: {},
	models.TaskStatusCancelled: {},
}

// CanTransition reports whether the lifecycle table permits from -> to.
func CanTransition(from, to models.TaskStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition moves the task to the target status, stamping CompletedAt on
// entry to COMPLETED. Returns ErrInvalidTransition when the table forbids
// the move.
func Transition(task *models.Task, to models.TaskStatus, now time.Time) error {
	if !CanTransition(task.Status, to) {
		return ErrInvalidTransition
	}

	task.Status = to
	if to == models.TaskStatusCompleted {
		completedAt := now
		task.CompletedAt = &completedAt
	} else {
		task.CompletedAt = nil
	}

	return nil
}

// Complete is the named shortcut for finishing a task. It is permitted from
// IN_PROGRESS, and also directly from PENDING as an implicit
// PENDING -> IN_PROGRESS -> COMPLETED double step. Terminal states reject it.
func Complete(task *models.Task, now time.Time) error {
	if task.Status == models.TaskStatusPending {
		if err := Transition(task, models.TaskStatusInProgress, now); err != nil {
			return err
		}
	}
	return Transition(task, models.TaskStatusCompleted, now)
}
