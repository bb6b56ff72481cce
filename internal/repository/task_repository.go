package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// TaskRepository handles CRUD for tasks and their time blocks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID returns gorm.ErrRecordNotFound (wrapped) when the task is absent.
func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}

// FindHabit returns the task only if it is flagged as a habit.
func (r *TaskRepository) FindHabit(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ? AND is_habit = ?", id, true).First(&task).Error; err != nil {
		return nil, fmt.Errorf("find habit: %w", err)
	}
	return &task, nil
}

// ListHabits returns every habit with its category, newest first.
func (r *TaskRepository) ListHabits(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("is_habit = ?", true).
		Order("created_at DESC").Order("id DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return tasks, nil
}

// Updates applies column updates and bumps updated_at.
func (r *TaskRepository) Updates(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// ToggleCompleted flips the completed flag in a single statement and reports
// whether the task existed.
func (r *TaskRepository) ToggleCompleted(ctx context.Context, id uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"completed":  gorm.Expr("NOT completed"),
			"updated_at": now,
		})
	if res.Error != nil {
		return false, fmt.Errorf("toggle task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a task. Time blocks and habit history go with it through
// ON DELETE CASCADE.
func (r *TaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete task: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *TaskRepository) CreateTimeBlock(ctx context.Context, block *model.TimeBlock) error {
	if err := r.db.WithContext(ctx).Omit("Task").Create(block).Error; err != nil {
		return fmt.Errorf("create time block: %w", err)
	}
	return nil
}

// DeleteTimeBlocks removes every time block of a task.
func (r *TaskRepository) DeleteTimeBlocks(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.TimeBlock{}).Error; err != nil {
		return fmt.Errorf("delete time blocks: %w", err)
	}
	return nil
}
