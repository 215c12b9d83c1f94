package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskDetailKind string

const (
	DetailKindComment       TaskDetailKind = "COMMENT"
	DetailKindAttachment    TaskDetailKind = "ATTACHMENT"
	DetailKindLog           TaskDetailKind = "LOG"
	DetailKindNote          TaskDetailKind = "NOTE"
	DetailKindChecklistItem TaskDetailKind = "CHECKLIST_ITEM"
)

// TaskDetail is a child record attached to a task: a comment, an attachment,
// a log entry, a note, or a checklist item. OrderIndex, IsCompleted and
// CompletedAt are only meaningful for checklist items; the file columns only
// for attachments.
type TaskDetail struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	TaskID      uint64         `gorm:"not null;index" json:"task_id"`
	Kind        TaskDetailKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Title       *string        `gorm:"type:varchar(200)" json:"title"`
	Content     *string        `gorm:"type:text" json:"content"`
	FilePath    *string        `gorm:"type:varchar(500)" json:"file_path"`
	FileName    *string        `gorm:"type:varchar(255)" json:"file_name"`
	FileSize    *int64         `json:"file_size"`
	MimeType    *string        `gorm:"type:varchar(100)" json:"mime_type"`
	Metadata    map[string]any `gorm:"serializer:json" json:"metadata"`
	CreatorID   uint64         `gorm:"not null;index" json:"creator_id"`
	OrderIndex  *int           `json:"order_index"`
	IsCompleted *bool          `json:"is_completed"`
	CompletedAt *time.Time     `json:"completed_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task    Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Creator User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

// IsChecklistItem reports whether the detail carries checklist semantics.
func (d *TaskDetail) IsChecklistItem() bool {
	return d.Kind == DetailKindChecklistItem
}
