package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

type Task struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null;index" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      TaskStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Priority    TaskPriority   `gorm:"type:varchar(10);not null;default:'MEDIUM'" json:"priority"`
	CreatorID   uint64         `gorm:"not null;index" json:"creator_id"`
	AssigneeID  *uint64        `gorm:"index" json:"assignee_id"`
	DueDate     *time.Time     `gorm:"index" json:"due_date"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator  User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Assignee *User        `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Details  []TaskDetail `gorm:"foreignKey:TaskID" json:"details,omitempty"`
}

// IsTerminal reports whether the task reached a lifecycle state with no
// outgoing transitions.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled
}

// IsOverdue reports whether the task's due date passed while it was still open.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && !t.IsTerminal()
}
