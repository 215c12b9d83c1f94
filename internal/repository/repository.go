package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindByIDIncludingDeleted finds a task by ID regardless of soft-delete
	// state. Used by restore to authorize before un-deleting.
	FindByIDIncludingDeleted(id uint64) (*models.Task, error)

	// FindByCreatorAndTitle finds a non-deleted task with an exact title
	// match among a creator's tasks. Used for the duplicate-title rule.
	FindByCreatorAndTitle(creatorID uint64, title string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// SoftDelete soft deletes a task and cascades to its details
	SoftDelete(id uint64) error

	// Restore un-deletes a soft-deleted task
	Restore(id uint64) (*models.Task, error)
}

// TaskFilter holds filtering options for listing tasks. Page starts at 1;
// PageSize is clamped to 1..100 by the caller.
type TaskFilter struct {
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	CreatorID      *uint64
	AssigneeID     *uint64
	AccessibleTo   *uint64
	IncludeDeleted bool
	SortByDueDate  bool
	Page           int
	PageSize       int
}

// TaskDetailRepository defines the interface for task detail data access
type TaskDetailRepository interface {
	// Create creates a new detail record
	Create(detail *models.TaskDetail) error

	// FindByID finds a detail by ID
	FindByID(id uint64) (*models.TaskDetail, error)

	// ListByTask lists a task's details, optionally filtered by kind.
	// Checklist items come back ordered by order index.
	ListByTask(taskID uint64, kind *models.TaskDetailKind) ([]models.TaskDetail, error)

	// Update updates a detail record
	Update(detail *models.TaskDetail) error

	// SoftDelete soft deletes a detail record
	SoftDelete(id uint64) error

	// MaxOrderIndex returns the highest checklist order index on a task
	MaxOrderIndex(taskID uint64) (int, error)

	// UpdateOrderIndexes applies new order indexes to checklist items
	UpdateOrderIndexes(taskID uint64, orderedIDs []uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// SoftDelete soft deletes a user and clears the assignee reference on
	// tasks assigned to them. Tasks created by the user are kept.
	SoftDelete(id uint64) error
}
