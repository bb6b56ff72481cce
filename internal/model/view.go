package model

import "time"

// TaskView is the denormalized read model: a task, its category flattened,
// and every time block and habit entry it owns. It is rebuilt on every read.
type TaskView struct {
	ID                uint         `json:"id"`
	Title             string       `json:"title"`
	Description       *string      `json:"description"`
	Completed         bool         `json:"completed"`
	IsHabit           bool         `json:"is_habit"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	CategoryID        *uint        `json:"category_id"`
	Category          *string      `json:"category"`
	CategoryColor     *string      `json:"category_color"`
	CategoryTextColor *string      `json:"category_text_color"`
	TimeBlocks        []TimeBlock  `json:"time_blocks"`
	HabitHistory      []HabitEntry `json:"habit_history"`
}

// NewTaskView flattens a task and its optional category. Dependent slices
// start empty, never nil.
func NewTaskView(task Task) TaskView {
	view := TaskView{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Completed:    task.Completed,
		IsHabit:      task.IsHabit,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		TimeBlocks:   []TimeBlock{},
		HabitHistory: []HabitEntry{},
	}
	if task.Category != nil {
		c := task.Category
		view.CategoryID = &c.ID
		view.Category = &c.Name
		view.CategoryColor = &c.Color
		view.CategoryTextColor = &c.TextColor
	}
	return view
}
