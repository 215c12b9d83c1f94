package repository

import (
	"time"

	"github.com/taskboard/taskboard-api/internal/database"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindByIDIncludingDeleted finds a task by ID regardless of soft-delete state
func (r *GormTaskRepository) FindByIDIncludingDeleted(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Unscoped().First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindByCreatorAndTitle finds a non-deleted task with an exact title match
// among a creator's tasks. The comparison is case-sensitive; BINARY forces
// that on MySQL's default collation.
func (r *GormTaskRepository) FindByCreatorAndTitle(creatorID uint64, title string) (*models.Task, error) {
	var task models.Task
	query := r.db.Where("creator_id = ?", creatorID)

	if r.db.Dialector.Name() == "mysql" {
		query = query.Where("BINARY title = ?", title)
	} else {
		query = query.Where("title = ?", title)
	}

	if err := query.First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})
	if filter.IncludeDeleted {
		query = query.Unscoped()
	}

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.CreatorID != nil {
		query = query.Where("tasks.creator_id = ?", *filter.CreatorID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.AccessibleTo != nil {
		query = query.Where("tasks.creator_id = ? OR tasks.assignee_id = ?",
			*filter.AccessibleTo, *filter.AccessibleTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.SortByDueDate {
		listQuery = listQuery.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")
	} else {
		listQuery = listQuery.Order("tasks.created_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Creator").Preload("Assignee").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// SoftDelete soft deletes a task and all of its live detail records
// atomically. Task and details share one deletion timestamp so a later
// restore can tell the cascade apart from details deleted on their own.
func (r *GormTaskRepository) SoftDelete(id uint64) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TaskDetail{}).
			Where("task_id = ?", id).
			Update("deleted_at", now).Error; err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", id).
			Update("deleted_at", now).Error
	})
}

// Restore un-deletes a soft-deleted task together with the details that were
// deleted by the same cascade. Details deleted individually before the task
// keep their own deletion timestamp and stay deleted.
func (r *GormTaskRepository) Restore(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Unscoped().First(&task, id).Error; err != nil {
		return nil, err
	}
	if !task.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Model(&models.Task{}).
			Where("id = ? AND deleted_at IS NOT NULL", id).
			Update("deleted_at", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Unscoped().Model(&models.TaskDetail{}).
			Where("task_id = ? AND deleted_at = ?", id, task.DeletedAt.Time).
			Update("deleted_at", nil).Error
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(id, "Creator", "Assignee")
}
