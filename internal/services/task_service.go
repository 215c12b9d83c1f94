package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskboard/taskboard-api/internal/constants"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/rules"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskNotDeleted       = errors.New("task is not deleted")
	ErrTaskPermissionDenied = errors.New("user does not have permission to access this task")
	ErrNotTaskCreator       = errors.New("only the task creator or an admin can perform this action")
	ErrAssigneeNotFound     = errors.New("assignee does not exist")
	ErrWriteConflict        = errors.New("task was modified concurrently")
)

// TaskService orchestrates task operations. Every operation runs
// authorization first, then validation, then the lifecycle guard, and only
// issues a persistence call when all three pass.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	clock    func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		clock:    time.Now,
	}
}

// WithClock overrides the time source (used for deterministic tests)
func (s *TaskService) WithClock(clock func() time.Time) *TaskService {
	s.clock = clock
	return s
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssigneeID  *uint64
}

// UpdateTaskInput represents a partial update. Nil fields are untouched.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *models.TaskPriority
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	CreatorID      *uint64
	AssigneeID     *uint64
	IncludeDeleted bool
	SortByDueDate  bool
	Page           int
	PageSize       int
}

// CreateTask creates a new task after running the creation rules. Every
// validation violation is collected and returned in one ValidationErrors
// value.
func (s *TaskService) CreateTask(actor *models.User, input CreateTaskInput) (*models.Task, error) {
	now := s.clock()

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	titleTaken := false
	if input.Title != "" {
		_, err := s.taskRepo.FindByCreatorAndTitle(actor.ID, input.Title)
		switch {
		case err == nil:
			titleTaken = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to check title uniqueness: %w", err)
		}
	}

	if errs := rules.ValidateCreate(rules.CreateCheck{
		Title:      input.Title,
		Priority:   input.Priority,
		DueDate:    input.DueDate,
		TitleTaken: titleTaken,
	}, now); len(errs) > 0 {
		return nil, errs
	}

	if input.AssigneeID != nil {
		if _, err := s.userRepo.FindByID(*input.AssigneeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusPending,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatorID:   actor.ID,
		AssigneeID:  input.AssigneeID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWriteConflict
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// GetTask returns a task with related data if the actor may view it
func (s *TaskService) GetTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID, "Creator", "Assignee", "Details")
	if err != nil {
		return nil, err
	}

	if !rules.CanView(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	return task, nil
}

// ListTasks returns tasks visible to the actor plus aggregate statistics
// over the returned page. Non-admins are scoped to tasks they created or
// are assigned to.
func (s *TaskService) ListTasks(actor *models.User, input ListTasksInput) ([]models.Task, int64, rules.Stats, error) {
	filter := repository.TaskFilter{
		Status:         input.Status,
		Priority:       input.Priority,
		CreatorID:      input.CreatorID,
		AssigneeID:     input.AssigneeID,
		IncludeDeleted: input.IncludeDeleted,
		SortByDueDate:  input.SortByDueDate,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < constants.MinPageSize || filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.DefaultPageSize
	}

	if !actor.IsAdmin() {
		filter.AccessibleTo = &actor.ID
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, rules.Stats{}, fmt.Errorf("failed to list tasks: %w", err)
	}

	stats := rules.ComputeStats(tasks, s.clock())
	return tasks, total, stats, nil
}

// UpdateTask applies a partial update to a task
func (s *TaskService) UpdateTask(actor *models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanModify(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	now := s.clock()
	patch := rules.UpdatePatch{
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
		ClearDueDate: input.ClearDueDate,
	}

	// A status change alone still counts as a mutation of a locked task.
	if patch.IsZero() && input.Status == nil {
		return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
	}
	if task.IsTerminal() {
		return nil, rules.ErrTaskLocked
	}

	if errs := rules.ValidateUpdate(task, patch, now); len(errs) > 0 {
		return nil, errs
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Status != nil && *input.Status != task.Status {
		if err := rules.Transition(task, *input.Status, now); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWriteConflict
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// TransitionTask moves a task to a target status through the lifecycle table
func (s *TaskService) TransitionTask(actor *models.User, taskID uint64, target models.TaskStatus) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanModify(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	if err := rules.Transition(task, target, s.clock()); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// CompleteTask is the named shortcut for finishing a task. Also permitted
// directly from PENDING, as an implicit pass through IN_PROGRESS.
func (s *TaskService) CompleteTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanModify(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	if err := rules.Complete(task, s.clock()); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// AssignTask sets the task's assignee. Assignment has no lifecycle guard:
// it does not change the status and is accepted in any state, terminal
// states included.
func (s *TaskService) AssignTask(actor *models.User, taskID, assigneeID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanAssign(actor, task) {
		return nil, ErrNotTaskCreator
	}

	if _, err := s.userRepo.FindByID(assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to verify assignee: %w", err)
	}

	task.AssigneeID = &assigneeID
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// UnassignTask clears the task's assignee
func (s *TaskService) UnassignTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanAssign(actor, task) {
		return nil, ErrNotTaskCreator
	}

	task.AssigneeID = nil
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to unassign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Creator", "Assignee")
}

// DeleteTask soft deletes a task and its details. Completed tasks are kept
// for audit and cannot be deleted.
func (s *TaskService) DeleteTask(actor *models.User, taskID uint64) error {
	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	if !rules.CanDelete(actor, task) {
		return ErrNotTaskCreator
	}

	if task.Status == models.TaskStatusCompleted {
		return rules.ErrTaskLocked
	}

	if err := s.taskRepo.SoftDelete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// RestoreTask un-deletes a soft-deleted task
func (s *TaskService) RestoreTask(actor *models.User, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDIncludingDeleted(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !rules.CanDelete(actor, task) {
		return nil, ErrNotTaskCreator
	}

	if !task.DeletedAt.Valid {
		return nil, ErrTaskNotDeleted
	}

	restored, err := s.taskRepo.Restore(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore task: %w", err)
	}

	return restored, nil
}

// GetStatistics computes aggregate statistics over every task the actor can
// see (optionally narrowed to one creator).
func (s *TaskService) GetStatistics(actor *models.User, creatorID *uint64) (rules.Stats, error) {
	filter := repository.TaskFilter{CreatorID: creatorID}
	if !actor.IsAdmin() {
		filter.AccessibleTo = &actor.ID
	}

	tasks, _, err := s.taskRepo.List(filter)
	if err != nil {
		return rules.Stats{}, fmt.Errorf("failed to fetch tasks for statistics: %w", err)
	}

	return rules.ComputeStats(tasks, s.clock()), nil
}

// ListOverdue returns the actor's open tasks whose due date has passed
func (s *TaskService) ListOverdue(actor *models.User) ([]models.Task, error) {
	filter := repository.TaskFilter{SortByDueDate: true}
	if !actor.IsAdmin() {
		filter.AccessibleTo = &actor.ID
	}

	tasks, _, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}

	now := s.clock()
	overdue := make([]models.Task, 0)
	for _, t := range tasks {
		if t.IsOverdue(now) {
			overdue = append(overdue, t)
		}
	}

	return overdue, nil
}

func (s *TaskService) findTask(taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
