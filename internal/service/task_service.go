package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// TimeBlockInput is a requested time slot. It is applied only when all three
// fields are set.
type TimeBlockInput struct {
	Start string
	End   string
	Date  string
}

func (b *TimeBlockInput) complete() bool {
	return b != nil && b.Start != "" && b.End != "" && b.Date != ""
}

func (b *TimeBlockInput) validate() error {
	if !b.complete() {
		return nil
	}
	if !validClock(b.Start) || !validClock(b.End) {
		return validationError("Time block start and end must be HH:MM")
	}
	if !validDate(b.Date) {
		return validationError("Time block date must be YYYY-MM-DD")
	}
	return nil
}

// CreateTaskInput represents data required to create a task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Category    string
	IsHabit     bool
	TimeBlock   *TimeBlockInput
}

// UpdateTaskInput holds optional changes. Nil and empty strings keep the
// current value. A non-nil TimeBlock replaces every existing block.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Category    *string
	IsHabit     *bool
	TimeBlock   *TimeBlockInput
}

// TaskService wraps task-related business logic.
type TaskService struct {
	store *repository.Store
	clock Clock
	log   *zap.Logger
}

func NewTaskService(store *repository.Store, clock Clock, log *zap.Logger) *TaskService {
	return &TaskService{store: store, clock: clock, log: log.Named("tasks")}
}

// List returns the Task Views matching q.
func (s *TaskService) List(ctx context.Context, q repository.TaskQuery) ([]model.TaskView, error) {
	views, err := s.store.Views.List(ctx, q)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownFilter) {
			return nil, validationError("Invalid filter")
		}
		return nil, storeError("Failed to fetch tasks", err)
	}
	return views, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.TaskView, error) {
	view, err := s.store.Views.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Task not found")
		}
		return nil, storeError("Failed to fetch task", err)
	}
	return view, nil
}

// Create inserts the task, its optional time block and, for habits, today's
// history entry in one transaction, then returns the assembled view.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*model.TaskView, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationError("Title is required")
	}
	if err := input.TimeBlock.validate(); err != nil {
		return nil, err
	}

	var task model.Task
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		// An unknown category name leaves the task uncategorized.
		category, err := tx.Categories.FindByName(ctx, input.Category)
		if err != nil {
			return err
		}

		task = model.Task{
			Title:       input.Title,
			Description: input.Description,
			IsHabit:     input.IsHabit,
		}
		if category != nil {
			task.CategoryID = &category.ID
		}
		if err := tx.Tasks.Create(ctx, &task); err != nil {
			return err
		}

		if input.TimeBlock.complete() {
			block := model.TimeBlock{
				TaskID:    task.ID,
				StartTime: input.TimeBlock.Start,
				EndTime:   input.TimeBlock.End,
				Date:      input.TimeBlock.Date,
			}
			if err := tx.Tasks.CreateTimeBlock(ctx, &block); err != nil {
				return err
			}
		}

		if input.IsHabit {
			entry := model.HabitEntry{TaskID: task.ID, Date: s.clock.Today(), Completed: false}
			if err := tx.Habits.CreateEntry(ctx, &entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError("Failed to create task", err)
	}

	s.log.Debug("task created", zap.Uint("id", task.ID), zap.Bool("habit", task.IsHabit))
	return s.Get(ctx, task.ID)
}

// Update applies the present fields of input. Category names that do not
// resolve keep the current category.
func (s *TaskService) Update(ctx context.Context, id uint, input UpdateTaskInput) (*model.TaskView, error) {
	if err := input.TimeBlock.validate(); err != nil {
		return nil, err
	}

	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Tasks.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Task not found")
			}
			return err
		}

		updates := map[string]interface{}{}
		if present(input.Title) {
			updates["title"] = *input.Title
		}
		if present(input.Description) {
			updates["description"] = *input.Description
		}
		if present(input.Category) {
			category, err := tx.Categories.FindByName(ctx, *input.Category)
			if err != nil {
				return err
			}
			if category != nil {
				updates["category_id"] = category.ID
			}
		}
		if input.IsHabit != nil {
			updates["is_habit"] = *input.IsHabit
		}
		if len(updates) == 0 {
			updates["updated_at"] = s.clock.now()
		}
		if err := tx.Tasks.Updates(ctx, id, updates); err != nil {
			return err
		}

		if input.TimeBlock != nil {
			if err := tx.Tasks.DeleteTimeBlocks(ctx, id); err != nil {
				return err
			}
			if input.TimeBlock.complete() {
				block := model.TimeBlock{
					TaskID:    id,
					StartTime: input.TimeBlock.Start,
					EndTime:   input.TimeBlock.End,
					Date:      input.TimeBlock.Date,
				}
				if err := tx.Tasks.CreateTimeBlock(ctx, &block); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeError("Failed to update task", err)
	}
	return s.Get(ctx, id)
}

// Toggle flips the completed flag.
func (s *TaskService) Toggle(ctx context.Context, id uint) (*model.TaskView, error) {
	ok, err := s.store.Tasks.ToggleCompleted(ctx, id, s.clock.now())
	if err != nil {
		return nil, storeError("Failed to toggle task", err)
	}
	if !ok {
		return nil, notFound("Task not found")
	}
	return s.Get(ctx, id)
}

// Delete removes a task and returns the deleted row.
func (s *TaskService) Delete(ctx context.Context, id uint) (*model.Task, error) {
	var deleted *model.Task
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Task not found")
			}
			return err
		}
		ok, err := tx.Tasks.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("Task not found")
		}
		deleted = task
		return nil
	})
	if err != nil {
		return nil, storeError("Failed to delete task", err)
	}
	return deleted, nil
}
