package services

import (
	"errors"
	"fmt"

	"time"

	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/rules"
	"gorm.io/gorm"
)

var (
	ErrDetailNotFound       = errors.New("task detail not found")
	ErrNotChecklistItem     = errors.New("operation only applies to checklist items")
	ErrInvalidDetailKind    = errors.New("invalid detail kind")
	ErrDetailFieldMismatch  = errors.New("field is not valid for this detail kind")
	ErrIncompleteReordering = errors.New("reorder must list every checklist item of the task exactly once")
)

// TaskDetailService manages the child records of a task: comments,
// attachments, logs, notes, and checklist items.
type TaskDetailService struct {
	detailRepo repository.TaskDetailRepository
	taskRepo   repository.TaskRepository
	clock      func() time.Time
}

// NewTaskDetailService creates a new TaskDetailService
func NewTaskDetailService(detailRepo repository.TaskDetailRepository, taskRepo repository.TaskRepository) *TaskDetailService {
	return &TaskDetailService{
		detailRepo: detailRepo,
		taskRepo:   taskRepo,
		clock:      time.Now,
	}
}

// WithClock overrides the time source (used for deterministic tests)
func (s *TaskDetailService) WithClock(clock func() time.Time) *TaskDetailService {
	s.clock = clock
	return s
}

// AddDetailInput represents input for attaching a detail to a task
type AddDetailInput struct {
	Kind     models.TaskDetailKind
	Title    *string
	Content  *string
	FilePath *string
	FileName *string
	FileSize *int64
	MimeType *string
	Metadata map[string]any
}

func validDetailKind(kind models.TaskDetailKind) bool {
	switch kind {
	case models.DetailKindComment, models.DetailKindAttachment,
		models.DetailKindLog, models.DetailKindNote, models.DetailKindChecklistItem:
		return true
	}
	return false
}

// AddDetail attaches a detail record to a task. File metadata is only
// accepted on attachments; checklist items get the next order index and
// start incomplete. Adding a detail never drives the task's status.
func (s *TaskDetailService) AddDetail(actor *models.User, taskID uint64, input AddDetailInput) (*models.TaskDetail, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanView(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	if !validDetailKind(input.Kind) {
		return nil, ErrInvalidDetailKind
	}

	hasFileMeta := input.FilePath != nil || input.FileName != nil ||
		input.FileSize != nil || input.MimeType != nil
	if hasFileMeta && input.Kind != models.DetailKindAttachment {
		return nil, ErrDetailFieldMismatch
	}

	detail := &models.TaskDetail{
		TaskID:    task.ID,
		Kind:      input.Kind,
		Title:     input.Title,
		Content:   input.Content,
		FilePath:  input.FilePath,
		FileName:  input.FileName,
		FileSize:  input.FileSize,
		MimeType:  input.MimeType,
		Metadata:  input.Metadata,
		CreatorID: actor.ID,
	}

	if input.Kind == models.DetailKindChecklistItem {
		maxIdx, err := s.detailRepo.MaxOrderIndex(task.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to determine checklist order: %w", err)
		}
		next := maxIdx + 1
		incomplete := false
		detail.OrderIndex = &next
		detail.IsCompleted = &incomplete
	}

	if err := s.detailRepo.Create(detail); err != nil {
		return nil, fmt.Errorf("failed to create task detail: %w", err)
	}

	return detail, nil
}

// ListDetails returns a task's details, optionally filtered by kind
func (s *TaskDetailService) ListDetails(actor *models.User, taskID uint64, kind *models.TaskDetailKind) ([]models.TaskDetail, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanView(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	if kind != nil && !validDetailKind(*kind) {
		return nil, ErrInvalidDetailKind
	}

	details, err := s.detailRepo.ListByTask(task.ID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list task details: %w", err)
	}
	return details, nil
}

// UpdateDetailInput represents a partial update of a detail record
type UpdateDetailInput struct {
	Title   *string
	Content *string
}

// UpdateDetail changes the title/content of a detail record
func (s *TaskDetailService) UpdateDetail(actor *models.User, taskID, detailID uint64, input UpdateDetailInput) (*models.TaskDetail, error) {
	task, detail, err := s.findTaskDetail(taskID, detailID)
	if err != nil {
		return nil, err
	}

	if !rules.CanModify(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	if input.Title != nil {
		detail.Title = input.Title
	}
	if input.Content != nil {
		detail.Content = input.Content
	}

	if err := s.detailRepo.Update(detail); err != nil {
		return nil, fmt.Errorf("failed to update task detail: %w", err)
	}
	return detail, nil
}

// DeleteDetail soft deletes a detail record
func (s *TaskDetailService) DeleteDetail(actor *models.User, taskID, detailID uint64) error {
	task, detail, err := s.findTaskDetail(taskID, detailID)
	if err != nil {
		return err
	}

	if !rules.CanModify(actor, task) {
		return ErrTaskPermissionDenied
	}

	if err := s.detailRepo.SoftDelete(detail.ID); err != nil {
		return fmt.Errorf("failed to delete task detail: %w", err)
	}
	return nil
}

// ToggleChecklistItem flips a checklist item's completion flag, stamping
// the completion time when it turns complete and clearing it otherwise.
func (s *TaskDetailService) ToggleChecklistItem(actor *models.User, taskID, detailID uint64) (*models.TaskDetail, error) {
	task, detail, err := s.findTaskDetail(taskID, detailID)
	if err != nil {
		return nil, err
	}

	if !rules.CanModify(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	if !detail.IsChecklistItem() {
		return nil, ErrNotChecklistItem
	}

	completed := detail.IsCompleted == nil || !*detail.IsCompleted
	detail.IsCompleted = &completed
	if completed {
		now := s.clock()
		detail.CompletedAt = &now
	} else {
		detail.CompletedAt = nil
	}

	if err := s.detailRepo.Update(detail); err != nil {
		return nil, fmt.Errorf("failed to toggle checklist item: %w", err)
	}
	return detail, nil
}

// ReorderChecklist rewrites the order of a task's checklist items. The given
// IDs must cover the task's checklist exactly.
func (s *TaskDetailService) ReorderChecklist(actor *models.User, taskID uint64, orderedIDs []uint64) ([]models.TaskDetail, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if !rules.CanModify(actor, task) {
		return nil, ErrTaskPermissionDenied
	}

	kind := models.DetailKindChecklistItem
	items, err := s.detailRepo.ListByTask(task.ID, &kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist items: %w", err)
	}

	if len(orderedIDs) != len(items) {
		return nil, ErrIncompleteReordering
	}
	known := make(map[uint64]struct{}, len(items))
	for _, item := range items {
		known[item.ID] = struct{}{}
	}
	seen := make(map[uint64]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := known[id]; !ok {
			return nil, ErrIncompleteReordering
		}
		if _, dup := seen[id]; dup {
			return nil, ErrIncompleteReordering
		}
		seen[id] = struct{}{}
	}

	if err := s.detailRepo.UpdateOrderIndexes(task.ID, orderedIDs); err != nil {
		return nil, fmt.Errorf("failed to reorder checklist: %w", err)
	}

	return s.detailRepo.ListByTask(task.ID, &kind)
}

func (s *TaskDetailService) findTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskDetailService) findTaskDetail(taskID, detailID uint64) (*models.Task, *models.TaskDetail, error) {
	task, err := s.findTask(taskID)
	if err != nil {
		return nil, nil, err
	}

	detail, err := s.detailRepo.FindByID(detailID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDetailNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task detail: %w", err)
	}
	if detail.TaskID != task.ID {
		return nil, nil, ErrDetailNotFound
	}

	return task, detail, nil
}
