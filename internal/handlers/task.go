package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskboard/taskboard-api/internal/dto"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/middleware"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/rules"
	"github.com/taskboard/taskboard-api/internal/services"
	"github.com/taskboard/taskboard-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks visible to the current user with filtering,
// pagination, and aggregate statistics over the returned page.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		input.Priority = &priority
	}
	if v := c.Query("creator_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid creator_id")
			return
		}
		input.CreatorID = &id
	}
	if v := c.Query("assignee_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assignee_id")
			return
		}
		input.AssigneeID = &id
	}
	input.IncludeDeleted = c.Query("include_deleted") == "true"
	input.SortByDueDate = c.Query("sort") == "due_date"

	tasks, total, stats, err := h.taskService.ListTasks(actor, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total, stats))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		AssigneeID  *uint64    `json:"assignee_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a specific task with its details
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	full, err := h.taskService.GetTask(actor, task.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*full))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	// Raw map pass detects an explicit null due_date, which clears the field
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{}
	if v, ok := raw["title"]; ok {
		if s, ok := v.(string); ok {
			input.Title = &s
		}
	}
	if v, ok := raw["description"]; ok {
		if s, ok := v.(string); ok {
			input.Description = &s
		}
	}
	if v, ok := raw["priority"]; ok {
		if s, ok := v.(string); ok {
			priority := models.TaskPriority(s)
			input.Priority = &priority
		}
	}
	if v, ok := raw["status"]; ok {
		if s, ok := v.(string); ok {
			status := models.TaskStatus(s)
			input.Status = &status
		}
	}
	if v, ok := raw["due_date"]; ok {
		if v == nil {
			input.ClearDueDate = true
		} else if s, ok := v.(string); ok {
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date format")
				return
			}
			input.DueDate = &parsed
		}
	}

	updated, err := h.taskService.UpdateTask(actor, task.ID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// DeleteTask soft deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, task.ID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// RestoreTask un-deletes a soft-deleted task. Not behind RequireTaskAccess
// since the middleware only sees live tasks.
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.RestoreTask(actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// TransitionTask moves a task to a target lifecycle status
func (h *TaskHandler) TransitionTask(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type TransitionRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.TransitionTask(actor, task.ID, models.TaskStatus(req.Status))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// CompleteTask marks a task as completed
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	updated, err := h.taskService.CompleteTask(actor, task.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// AssignTask sets the task's assignee
func (h *TaskHandler) AssignTask(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	type AssignRequest struct {
		AssigneeID uint64 `json:"assignee_id" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.AssignTask(actor, task.ID, req.AssigneeID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// UnassignTask clears the task's assignee
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	actor, task, ok := taskRequestContext(c)
	if !ok {
		return
	}

	updated, err := h.taskService.UnassignTask(actor, task.ID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// GetStatistics returns aggregate statistics over the tasks the current
// user can see
func (h *TaskHandler) GetStatistics(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var creatorID *uint64
	if v := c.Query("creator_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid creator_id")
			return
		}
		creatorID = &id
	}

	stats, err := h.taskService.GetStatistics(actor, creatorID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListOverdue returns the current user's open tasks whose due date passed
func (h *TaskHandler) ListOverdue(c *gin.Context) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListOverdue(actor)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	items := make([]dto.TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = dto.ToTaskListItemDTO(task)
	}

	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

func taskRequestContext(c *gin.Context) (*models.User, *models.Task, bool) {
	actor, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return nil, nil, false
	}

	task, exists := middleware.GetContextTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return nil, nil, false
	}

	return actor, task, true
}

func respondTaskError(c *gin.Context, err error) {
	var validationErrs rules.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		apierrors.BadRequestWithDetails(c, "Validation failed", validationErrs)
	case errors.Is(err, rules.ErrTaskLocked):
		apierrors.TaskLocked(c, "")
	case errors.Is(err, rules.ErrInvalidTransition):
		apierrors.InvalidTransition(c, "")
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrDetailNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrNotTaskCreator):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAssigneeNotFound),
		errors.Is(err, services.ErrInvalidDetailKind),
		errors.Is(err, services.ErrDetailFieldMismatch),
		errors.Is(err, services.ErrNotChecklistItem),
		errors.Is(err, services.ErrIncompleteReordering):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWriteConflict),
		errors.Is(err, services.ErrTaskNotDeleted):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
