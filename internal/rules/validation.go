package rules

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
)

// CreateCheck carries the fields of a create request that validation rules
// inspect. TitleTaken is resolved by the caller against the creator's
// non-deleted tasks (case-sensitive exact match) before calling in.
type CreateCheck struct {
	Title      string
	Priority   models.TaskPriority
	DueDate    *time.Time
	TitleTaken bool
}

// UpdatePatch is a partial update. Nil fields were not sent. ClearDueDate
// distinguishes "set due_date to null" from "leave it alone".
type UpdatePatch struct {
	Title        *string
	Description  *string
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
}

// IsZero reports whether the patch changes nothing.
func (p UpdatePatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.DueDate == nil && !p.ClearDueDate
}

func requiresDueDate(p models.TaskPriority) bool {
	return p == models.TaskPriorityHigh || p == models.TaskPriorityUrgent
}

// ValidateCreate checks a create request against the creation rules. Every
// violation is collected; a nil result means the request is valid.
func ValidateCreate(in CreateCheck, now time.Time) ValidationErrors {
	var errs ValidationErrors

	if in.Title == "" {
		errs = append(errs, FieldError{
			Field:   "title",
			Kind:    KindTitleRequired,
			Message: "title is required",
		})
	} else if in.TitleTaken {
		errs = append(errs, FieldError{
			Field:   "title",
			Kind:    KindDuplicateTitle,
			Message: "a task with this title already exists for this user",
		})
	}

	if requiresDueDate(in.Priority) && (in.DueDate == nil || in.DueDate.Before(now)) {
		errs = append(errs, FieldError{
			Field:   "due_date",
			Kind:    KindInvalidPriorityDueDate,
			Message: "high and urgent priority tasks must have a due date that is not in the past",
		})
	}

	if in.DueDate != nil && in.DueDate.Before(now) {
		errs = append(errs, FieldError{
			Field:   "due_date",
			Kind:    KindDueDateInPast,
			Message: "due date cannot be in the past",
		})
	}

	return errs
}

// ValidateUpdate checks a partial update against an existing task. A task in
// a terminal state rejects any field change with a single TASK_LOCKED
// violation; otherwise the post-patch priority/due-date combination is held
// to the same rules as creation.
func ValidateUpdate(existing *models.Task, patch UpdatePatch, now time.Time) ValidationErrors {
	if patch.IsZero() {
		return nil
	}

	if existing.IsTerminal() {
		return ValidationErrors{{
			Field:   "status",
			Kind:    KindTaskLocked,
			Message: "completed or cancelled tasks cannot be modified",
		}}
	}

	var errs ValidationErrors

	if patch.Title != nil && *patch.Title == "" {
		errs = append(errs, FieldError{
			Field:   "title",
			Kind:    KindTitleRequired,
			Message: "title cannot be empty",
		})
	}

	// Effective values after the patch would apply.
	priority := existing.Priority
	if patch.Priority != nil {
		priority = *patch.Priority
	}
	dueDate := existing.DueDate
	if patch.ClearDueDate {
		dueDate = nil
	} else if patch.DueDate != nil {
		dueDate = patch.DueDate
	}

	if patch.DueDate != nil && patch.DueDate.Before(now) {
		errs = append(errs, FieldError{
			Field:   "due_date",
			Kind:    KindDueDateInPast,
			Message: "due date cannot be in the past",
		})
	}

	// The post-patch priority/due-date combination is held to the creation
	// rule whenever the patch touches either field. A task that merely grew
	// overdue is still editable on unrelated fields.
	touchesSchedule := patch.Priority != nil || patch.DueDate != nil || patch.ClearDueDate
	if requiresDueDate(priority) {
		if dueDate == nil {
			errs = append(errs, FieldError{
				Field:   "due_date",
				Kind:    KindInvalidPriorityDueDate,
				Message: "high and urgent priority tasks must have a due date",
			})
		} else if touchesSchedule && dueDate.Before(now) {
			errs = append(errs, FieldError{
				Field:   "due_date",
				Kind:    KindInvalidPriorityDueDate,
				Message: "high and urgent priority tasks must have a due date that is not in the past",
			})
		}
	}

	return errs
}
