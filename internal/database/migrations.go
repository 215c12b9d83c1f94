package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// creates from struct tags. Safe to run repeatedly.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Composite indexes for the hot list/duplicate-check queries
		{"tasks", "idx_tasks_creator_title", "creator_id, title"},
		{"tasks", "idx_tasks_status_due_date", "status, due_date"},
		{"tasks", "idx_tasks_assignee_status", "assignee_id, status"},

		// Checklist ordering within a task
		{"task_details", "idx_task_details_task_order", "task_id, order_index"},
		{"task_details", "idx_task_details_task_kind", "task_id, kind"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
