package rules

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
)

// Stats is the aggregate computed over a fetched set of tasks. It is pure
// over whatever slice the persistence layer returned, whether a single page
// or the full set.
type Stats struct {
	Total        int `json:"total_tasks"`
	Pending      int `json:"pending_tasks"`
	InProgress   int `json:"in_progress_tasks"`
	Completed    int `json:"completed_tasks"`
	Cancelled    int `json:"cancelled_tasks"`
	Overdue      int `json:"overdue_tasks"`
	HighPriority int `json:"high_priority_tasks"`
}

// ComputeStats counts tasks by status, overdue tasks (due date passed while
// non-terminal), and high/urgent priority tasks.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	stats := Stats{Total: len(tasks)}

	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case models.TaskStatusPending:
			stats.Pending++
		case models.TaskStatusInProgress:
			stats.InProgress++
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusCancelled:
			stats.Cancelled++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if requiresDueDate(t.Priority) {
			stats.HighPriority++
		}
	}

	return stats
}
