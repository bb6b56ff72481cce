package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/stats"
)

// HabitStats is the single-habit statistics payload.
type HabitStats struct {
	HabitID uint   `json:"habitId"`
	Period  string `json:"period"`
	stats.Summary
	History []model.HabitEntry `json:"history"`
}

// HabitOverview is the cross-habit statistics payload.
type HabitOverview struct {
	Period string `json:"period"`
	stats.OverviewResult
}

// HabitService handles habit history and statistics.
type HabitService struct {
	store *repository.Store
	clock Clock
	log   *zap.Logger
}

func NewHabitService(store *repository.Store, clock Clock, log *zap.Logger) *HabitService {
	return &HabitService{store: store, clock: clock, log: log.Named("habits")}
}

// List returns the views of every habit.
func (s *HabitService) List(ctx context.Context) ([]model.TaskView, error) {
	views, err := s.store.Views.List(ctx, repository.TaskQuery{Status: model.FilterHabits})
	if err != nil {
		return nil, storeError("Failed to fetch habits", err)
	}
	return views, nil
}

func (s *HabitService) Get(ctx context.Context, id uint) (*model.TaskView, error) {
	view, err := s.store.Views.GetHabit(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Habit not found")
		}
		return nil, storeError("Failed to fetch habit", err)
	}
	return view, nil
}

// SetEntry records completion for a habit on date, inserting or updating the
// single (habit, date) row atomically.
func (s *HabitService) SetEntry(ctx context.Context, taskID uint, date string, completed bool) (*model.HabitEntry, error) {
	if !validDate(date) {
		return nil, validationError("Valid date (YYYY-MM-DD) is required")
	}
	if err := s.requireHabit(ctx, taskID); err != nil {
		return nil, err
	}

	entry, err := s.store.Habits.UpsertEntry(ctx, taskID, date, completed, s.clock.now())
	if err != nil {
		return nil, storeError("Failed to update habit completion", err)
	}
	s.log.Debug("habit entry set", zap.Uint("habit", taskID), zap.String("date", date), zap.Bool("completed", completed))
	return entry, nil
}

// DeleteEntry removes the history row for date and returns it.
func (s *HabitService) DeleteEntry(ctx context.Context, taskID uint, date string) (*model.HabitEntry, error) {
	if err := s.requireHabit(ctx, taskID); err != nil {
		return nil, err
	}
	entry, err := s.store.Habits.DeleteEntry(ctx, taskID, date)
	if err != nil {
		return nil, storeError("Failed to delete habit history", err)
	}
	if entry == nil {
		return nil, notFound("Habit history entry not found")
	}
	return entry, nil
}

// Stats summarizes the habit over [today-days, today].
func (s *HabitService) Stats(ctx context.Context, taskID uint, days int) (*HabitStats, error) {
	if days < 0 {
		return nil, validationError("days must be a non-negative number")
	}
	if err := s.requireHabit(ctx, taskID); err != nil {
		return nil, err
	}

	from, to := stats.Window(s.clock.todayTime(), days)
	entries, err := s.store.Habits.ListInWindow(ctx, []uint{taskID}, from, to)
	if err != nil {
		return nil, storeError("Failed to fetch habit statistics", err)
	}

	return &HabitStats{
		HabitID: taskID,
		Period:  period(days),
		Summary: stats.Summarize(entries),
		History: entries,
	}, nil
}

// Overview computes completion rates for every habit over [today-days, today].
func (s *HabitService) Overview(ctx context.Context, days int) (*HabitOverview, error) {
	if days < 0 {
		return nil, validationError("days must be a non-negative number")
	}

	habits, err := s.store.Tasks.ListHabits(ctx)
	if err != nil {
		return nil, storeError("Failed to fetch habits overview", err)
	}
	ids := make([]uint, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}

	from, to := stats.Window(s.clock.todayTime(), days)
	entries, err := s.store.Habits.ListInWindow(ctx, ids, from, to)
	if err != nil {
		return nil, storeError("Failed to fetch habits overview", err)
	}
	byHabit := make(map[uint][]model.HabitEntry, len(habits))
	for _, e := range entries {
		byHabit[e.TaskID] = append(byHabit[e.TaskID], e)
	}

	return &HabitOverview{
		Period:         period(days),
		OverviewResult: stats.Overview(habits, byHabit),
	}, nil
}

func (s *HabitService) requireHabit(ctx context.Context, taskID uint) error {
	if _, err := s.store.Tasks.FindHabit(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Habit not found")
		}
		return storeError("Failed to fetch habit", err)
	}
	return nil
}

func period(days int) string {
	return fmt.Sprintf("%d days", days)
}
