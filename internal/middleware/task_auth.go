package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/taskboard/taskboard-api/internal/errors"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/rules"
)

const contextKeyTask = "task"

// RequireTaskAccess loads the task from the :id parameter and checks that
// the acting user may view it. No-access responds 404 rather than 403 to
// avoid leaking task existence.
func RequireTaskAccess(taskRepo repository.TaskRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		user, exists := GetCurrentUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := taskRepo.FindByID(taskID, "Creator", "Assignee")
		if err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		if !rules.CanView(user, task) {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(contextKeyTask, task)
		c.Next()
	}
}

// GetContextTask retrieves the task loaded by RequireTaskAccess
func GetContextTask(c *gin.Context) (*models.Task, bool) {
	raw, exists := c.Get(contextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := raw.(*models.Task)
	return task, ok
}
