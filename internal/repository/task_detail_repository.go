package repository

import (
	"github.com/taskboard/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskDetailRepository is a GORM implementation of TaskDetailRepository
type GormTaskDetailRepository struct {
	db *gorm.DB
}

// NewTaskDetailRepository creates a new TaskDetailRepository
func NewTaskDetailRepository(db *gorm.DB) TaskDetailRepository {
	return &GormTaskDetailRepository{db: db}
}

// Create creates a new detail record
func (r *GormTaskDetailRepository) Create(detail *models.TaskDetail) error {
	return r.db.Create(detail).Error
}

// FindByID finds a detail by ID
func (r *GormTaskDetailRepository) FindByID(id uint64) (*models.TaskDetail, error) {
	var detail models.TaskDetail
	if err := r.db.First(&detail, id).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByTask lists a task's details, optionally filtered by kind. Checklist
// items order by order index, everything else by creation time.
func (r *GormTaskDetailRepository) ListByTask(taskID uint64, kind *models.TaskDetailKind) ([]models.TaskDetail, error) {
	var details []models.TaskDetail

	query := r.db.Where("task_id = ?", taskID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	query = query.Order("CASE WHEN order_index IS NULL THEN 1 ELSE 0 END, order_index ASC, created_at ASC")

	if err := query.Preload("Creator").Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

// Update updates a detail record
func (r *GormTaskDetailRepository) Update(detail *models.TaskDetail) error {
	return r.db.Save(detail).Error
}

// SoftDelete soft deletes a detail record
func (r *GormTaskDetailRepository) SoftDelete(id uint64) error {
	return r.db.Delete(&models.TaskDetail{}, id).Error
}

// MaxOrderIndex returns the highest checklist order index on a task, or -1
// when the task has no checklist items yet.
func (r *GormTaskDetailRepository) MaxOrderIndex(taskID uint64) (int, error) {
	var max *int
	err := r.db.Model(&models.TaskDetail{}).
		Where("task_id = ? AND kind = ?", taskID, models.DetailKindChecklistItem).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

// UpdateOrderIndexes rewrites checklist order indexes to match the given ID
// order within a single transaction.
func (r *GormTaskDetailRepository) UpdateOrderIndexes(taskID uint64, orderedIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&models.TaskDetail{}).
				Where("id = ? AND task_id = ? AND kind = ?", id, taskID, models.DetailKindChecklistItem).
				Update("order_index", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
