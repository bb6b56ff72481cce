package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskflow/internal/model"
)

// TaskQuery narrows a Task View listing. All set fields combine with AND.
type TaskQuery struct {
	Status     model.TaskFilter
	Category   string
	CategoryID *uint
	Search     string
}

// ViewRepository assembles Task Views: the task row, its category, and its
// time blocks and habit history.
type ViewRepository struct {
	db *gorm.DB
}

func NewViewRepository(db *gorm.DB) *ViewRepository {
	return &ViewRepository{db: db}
}

// List returns one view per matching task, newest first.
func (r *ViewRepository) List(ctx context.Context, q TaskQuery) ([]model.TaskView, error) {
	db := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Select("tasks.*").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Preload("Category")

	db, err := applyStatus(db, q.Status)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(q.Category); name != "" && name != string(model.FilterAll) {
		db = db.Where("categories.name = ?", name)
	}
	if q.CategoryID != nil {
		db = db.Where("tasks.category_id = ?", *q.CategoryID)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		db = db.Where(
			"(LOWER(tasks.title) LIKE ? ESCAPE '\\' OR LOWER(tasks.description) LIKE ? ESCAPE '\\')",
			pattern, pattern,
		)
	}

	var tasks []model.Task
	if err := db.Order("tasks.created_at DESC").Order("tasks.id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return r.assemble(ctx, tasks)
}

// Get returns the view for one task, or a wrapped gorm.ErrRecordNotFound.
func (r *ViewRepository) Get(ctx context.Context, id uint) (*model.TaskView, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Category").First(&task, id).Error; err != nil {
		return nil, fmt.Errorf("find task view: %w", err)
	}
	views, err := r.assemble(ctx, []model.Task{task})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// GetHabit is Get restricted to habits.
func (r *ViewRepository) GetHabit(ctx context.Context, id uint) (*model.TaskView, error) {
	view, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !view.IsHabit {
		return nil, fmt.Errorf("find habit view: %w", gorm.ErrRecordNotFound)
	}
	return view, nil
}

// assemble loads dependent rows for all tasks in two batched queries and
// attaches them in task order.
func (r *ViewRepository) assemble(ctx context.Context, tasks []model.Task) ([]model.TaskView, error) {
	views := make([]model.TaskView, 0, len(tasks))
	if len(tasks) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}

	var blocks []model.TimeBlock
	if err := r.db.WithContext(ctx).Where("task_id IN ?", ids).Order("id ASC").Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("load time blocks: %w", err)
	}
	var history []model.HabitEntry
	if err := r.db.WithContext(ctx).Where("task_id IN ?", ids).Order("date ASC").Order("id ASC").Find(&history).Error; err != nil {
		return nil, fmt.Errorf("load habit history: %w", err)
	}

	blocksByTask := make(map[uint][]model.TimeBlock, len(tasks))
	for _, b := range blocks {
		blocksByTask[b.TaskID] = append(blocksByTask[b.TaskID], b)
	}
	historyByTask := make(map[uint][]model.HabitEntry, len(tasks))
	for _, h := range history {
		historyByTask[h.TaskID] = append(historyByTask[h.TaskID], h)
	}

	for _, t := range tasks {
		view := model.NewTaskView(t)
		if b, ok := blocksByTask[t.ID]; ok {
			view.TimeBlocks = b
		}
		if h, ok := historyByTask[t.ID]; ok {
			view.HabitHistory = h
		}
		views = append(views, view)
	}
	return views, nil
}

// ErrUnknownFilter is returned for filter values outside model.TaskFilter.
var ErrUnknownFilter = errors.New("unknown task filter")

func applyStatus(db *gorm.DB, f model.TaskFilter) (*gorm.DB, error) {
	switch f {
	case "", model.FilterAll:
		return db, nil
	case model.FilterActive:
		return db.Where("tasks.completed = ?", false), nil
	case model.FilterCompleted:
		return db.Where("tasks.completed = ?", true), nil
	case model.FilterHabits:
		return db.Where("tasks.is_habit = ?", true), nil
	case model.FilterTimeBlocked:
		return db.Where("EXISTS (SELECT 1 FROM time_blocks WHERE time_blocks.task_id = tasks.id)"), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, f)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
