package dto

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
)

// TaskDetailDTO represents a task detail in API responses
type TaskDetailDTO struct {
	ID          uint64                `json:"id"`
	TaskID      uint64                `json:"task_id"`
	Kind        models.TaskDetailKind `json:"kind"`
	Title       *string               `json:"title,omitempty"`
	Content     *string               `json:"content,omitempty"`
	FilePath    *string               `json:"file_path,omitempty"`
	FileName    *string               `json:"file_name,omitempty"`
	FileSize    *int64                `json:"file_size,omitempty"`
	MimeType    *string               `json:"mime_type,omitempty"`
	Metadata    map[string]any        `json:"metadata,omitempty"`
	CreatorID   uint64                `json:"creator_id"`
	OrderIndex  *int                  `json:"order_index,omitempty"`
	IsCompleted *bool                 `json:"is_completed,omitempty"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Creator     *UserRefDTO           `json:"creator,omitempty"`
}

// ToTaskDetailDTO converts a TaskDetail model to TaskDetailDTO
func ToTaskDetailDTO(detail models.TaskDetail) TaskDetailDTO {
	dto := TaskDetailDTO{
		ID:          detail.ID,
		TaskID:      detail.TaskID,
		Kind:        detail.Kind,
		Title:       detail.Title,
		Content:     detail.Content,
		FilePath:    detail.FilePath,
		FileName:    detail.FileName,
		FileSize:    detail.FileSize,
		MimeType:    detail.MimeType,
		Metadata:    detail.Metadata,
		CreatorID:   detail.CreatorID,
		OrderIndex:  detail.OrderIndex,
		IsCompleted: detail.IsCompleted,
		CompletedAt: detail.CompletedAt,
		CreatedAt:   detail.CreatedAt,
		UpdatedAt:   detail.UpdatedAt,
	}

	if detail.Creator.ID != 0 {
		creator := ToUserRefDTO(detail.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskDetailDTOs converts a slice of details
func ToTaskDetailDTOs(details []models.TaskDetail) []TaskDetailDTO {
	dtos := make([]TaskDetailDTO, len(details))
	for i, detail := range details {
		dtos[i] = ToTaskDetailDTO(detail)
	}
	return dtos
}
