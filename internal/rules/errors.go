// Package rules holds the pure decision core of the API: field and
// cross-field validation, per-operation authorization, the task lifecycle
// state machine, and derived statistics. Nothing in this package performs
// I/O; callers resolve repository lookups first and pass the results in.
package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a rule violation.
type Kind string

const (
	KindInvalidPriorityDueDate Kind = "INVALID_PRIORITY_DUE_DATE"
	KindDueDateInPast          Kind = "DUE_DATE_IN_PAST"
	KindDuplicateTitle         Kind = "DUPLICATE_TITLE"
	KindTitleRequired          Kind = "TITLE_REQUIRED"
	KindTaskLocked             Kind = "TASK_LOCKED"
	KindInvalidTransition      Kind = "INVALID_TRANSITION"
)

// Sentinel errors for failures that gate before validation runs and are
// therefore reported singly.
var (
	ErrForbidden         = errors.New("operation not permitted for this user")
	ErrTaskLocked        = errors.New("completed or cancelled tasks cannot be modified")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// FieldError is a single validation violation.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// ValidationErrors collects every violation found in one pass so the caller
// can report all problems in a single response.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any collected violation carries the given kind.
func (v ValidationErrors) Has(kind Kind) bool {
	for _, fe := range v {
		if fe.Kind == kind {
			return true
		}
	}
	return false
}
