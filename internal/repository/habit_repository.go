package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskflow/internal/model"
)

// HabitRepository handles habit history rows.
type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

// CreateEntry inserts a new history row.
func (r *HabitRepository) CreateEntry(ctx context.Context, entry *model.HabitEntry) error {
	if err := r.db.WithContext(ctx).Omit("Task").Create(entry).Error; err != nil {
		return fmt.Errorf("create habit entry: %w", err)
	}
	return nil
}

// UpsertEntry writes the completion state for (taskID, date) in one statement,
// relying on the unique index over both columns, and returns the stored row.
func (r *HabitRepository) UpsertEntry(ctx context.Context, taskID uint, date string, completed bool, now time.Time) (*model.HabitEntry, error) {
	db := r.db.WithContext(ctx)
	entry := model.HabitEntry{
		TaskID:    taskID,
		Date:      date,
		Completed: completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.Omit("Task").Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "task_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":  completed,
			"updated_at": now,
		}),
	}).Create(&entry).Error
	if err != nil {
		return nil, fmt.Errorf("upsert habit entry: %w", err)
	}

	stored, err := r.FindEntry(ctx, taskID, date)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("upsert habit entry: row for %s vanished", date)
	}
	return stored, nil
}

// FindEntry returns nil, nil when no row exists for (taskID, date).
func (r *HabitRepository) FindEntry(ctx context.Context, taskID uint, date string) (*model.HabitEntry, error) {
	var entry model.HabitEntry
	err := r.db.WithContext(ctx).Where("task_id = ? AND date = ?", taskID, date).Take(&entry).Error
	switch {
	case err == nil:
		return &entry, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find habit entry: %w", err)
	}
}

// DeleteEntry removes the row for (taskID, date) and returns it, or nil when
// there was nothing to delete.
func (r *HabitRepository) DeleteEntry(ctx context.Context, taskID uint, date string) (*model.HabitEntry, error) {
	entry, err := r.FindEntry(ctx, taskID, date)
	if err != nil || entry == nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).Delete(&model.HabitEntry{}, entry.ID)
	if res.Error != nil {
		return nil, fmt.Errorf("delete habit entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return entry, nil
}

// ListInWindow returns history rows for the given tasks with from <= date <= to,
// ordered by date ascending.
func (r *HabitRepository) ListInWindow(ctx context.Context, taskIDs []uint, from, to string) ([]model.HabitEntry, error) {
	if len(taskIDs) == 0 {
		return []model.HabitEntry{}, nil
	}
	var entries []model.HabitEntry
	if err := r.db.WithContext(ctx).
		Where("task_id IN ? AND date >= ? AND date <= ?", taskIDs, from, to).
		Order("date ASC").Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list habit window: %w", err)
	}
	return entries, nil
}
