package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/services"
)

// TaskDetailHandler coordinates detail-record HTTP handlers.
type TaskDetailHandler struct {
	detailService *services.TaskDetailService
}

// NewTaskDetailHandler creates a new TaskDetailHandler.
func NewTaskDetailHandler(detailService *services.TaskDetailService) *TaskDetailHandler {
	return &TaskDetailHandler{
		detailService: detailService,
	}
}

// ListDetails returns a task's details, optionally filtered by kind
func (h *TaskDetailHandler) ListDetails(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	var kind *models.TaskDetailKind
	if v := c.Query("kind"); v != "" {
		k := models.TaskDetailKind(v)
		kind = &k
	}

	details, err := h.detailService.ListDetails(actor, task.ID, kind)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"details": dto.ToTaskDetailDTOs(details)})
}

// AddDetail attaches a detail record to a task
func (h *TaskDetailHandler) AddDetail(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type AddDetailRequest struct {
		Kind     string         `json:"kind" binding:"required"`
		Title    *string        `json:"title"`
		Content  *string        `json:"content"`
		FilePath *string        `json:"file_path"`
		FileName *string        `json:"file_name"`
		FileSize *int64         `json:"file_size"`
		MimeType *string        `json:"mime_type"`
		Metadata map[string]any `json:"metadata"`
	}

	var req AddDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	detail, err := h.detailService.AddDetail(actor, task.ID, services.AddDetailInput{
		Kind:     models.TaskDetailKind(req.Kind),
		Title:    req.Title,
		Content:  req.Content,
		FilePath: req.FilePath,
		FileName: req.FileName,
		FileSize: req.FileSize,
		MimeType: req.MimeType,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDetailDTO(*detail))
}

// UpdateDetail changes the title/content of a detail record
func (h *TaskDetailHandler) UpdateDetail(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	detailID, ok := detailIDParam(c)
	if !ok {
		return
	}

	type UpdateDetailRequest struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}

	var req UpdateDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	detail, err := h.detailService.UpdateDetail(actor, task.ID, detailID, services.UpdateDetailInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*detail))
}

// DeleteDetail soft deletes a detail record
func (h *TaskDetailHandler) DeleteDetail(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	detailID, ok := detailIDParam(c)
	if !ok {
		return
	}

	if err := h.detailService.DeleteDetail(actor, task.ID, detailID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Detail deleted successfully",
	})
}

// ToggleChecklistItem flips a checklist item's completion flag
func (h *TaskDetailHandler) ToggleChecklistItem(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	detailID, ok := detailIDParam(c)
	if !ok {
		return
	}

	detail, err := h.detailService.ToggleChecklistItem(actor, task.ID, detailID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailDTO(*detail))
}

// ReorderChecklist rewrites the order of a task's checklist items
func (h *TaskDetailHandler) ReorderChecklist(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type ReorderRequest struct {
		DetailIDs []uint64 `json:"detail_ids" binding:"required"`
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	items, err := h.detailService.ReorderChecklist(actor, task.ID, req.DetailIDs)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"details": dto.ToTaskDetailDTOs(items)})
}

func detailIDParam(c *gin.Context) (uint64, bool) {
	detailID, err := strconv.ParseUint(c.Param("detail_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid detail ID")
		return 0, false
	}
	return detailID, true
}
