package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskboard/taskboard-api/internal/models"
)

var allStatuses = []models.TaskStatus{
	models.TaskStatusPending,
	models.TaskStatusInProgress,
	models.TaskStatusCompleted,
	models.TaskStatusCancelled,
}

func TestCanTransition_FullTable(t *testing.T) {
	allowed := map[models.TaskStatus]map[models.TaskStatus]bool{
		models.TaskStatusPending: {
			models.TaskStatusInProgress: true,
			models.TaskStatusCancelled:  true,
		},
		models.TaskStatusInProgress: {
			models.TaskStatusCompleted: true,
			models.TaskStatusPending:   true,
			models.TaskStatusCancelled: true,
		},
		models.TaskStatusCompleted: {},
		models.TaskStatusCancelled: {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTransition_SetsCompletedAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	task := &models.Task{Status: models.TaskStatusInProgress}

	err := Transition(task, models.TaskStatusCompleted, now)

	assert.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	if assert.NotNil(t, task.CompletedAt) {
		assert.Equal(t, now, *task.CompletedAt)
	}
}

func TestTransition_NonCompletedTargetClearsCompletedAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	task := &models.Task{Status: models.TaskStatusInProgress, CompletedAt: &now}

	err := Transition(task, models.TaskStatusPending, now)

	assert.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
}

func TestTransition_FromTerminalStates(t *testing.T) {
	now := time.Now()
	for _, from := range []models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusCancelled} {
		for _, to := range allStatuses {
			task := &models.Task{Status: from}
			err := Transition(task, to, now)
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", from, to)
			assert.Equal(t, from, task.Status, "status must not change on a rejected transition")
		}
	}
}

func TestTransition_Reopen(t *testing.T) {
	task := &models.Task{Status: models.TaskStatusInProgress}

	err := Transition(task, models.TaskStatusPending, time.Now())

	assert.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, task.Status)
}

func TestComplete_FromInProgress(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	task := &models.Task{Status: models.TaskStatusInProgress}

	err := Complete(task, now)

	assert.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	if assert.NotNil(t, task.CompletedAt) {
		assert.Equal(t, now, *task.CompletedAt)
	}
}

func TestComplete_FromPendingShortcut(t *testing.T) {
	// Completing a PENDING task skips the explicit IN_PROGRESS step.
	task := &models.Task{Status: models.TaskStatusPending}

	err := Complete(task, time.Now())

	assert.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)
}

func TestComplete_FromTerminalStates(t *testing.T) {
	for _, from := range []models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusCancelled} {
		task := &models.Task{Status: from}
		err := Complete(task, time.Now())
		assert.ErrorIs(t, err, ErrInvalidTransition, "from %s", from)
	}
}
