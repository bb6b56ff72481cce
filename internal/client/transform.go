package client

import (
	"time"

	"taskflow/internal/model"
)

// DefaultCategory is shown for tasks without a category.
const DefaultCategory = "other"

// Task is the presentation shape of a Task View.
type Task struct {
	ID           uint
	Title        string
	Description  string
	Completed    bool
	Category     string
	Categorized  bool
	TimeBlock    *TimeBlock
	IsHabit      bool
	HabitHistory []HabitDay
	CreatedAt    time.Time
}

// TimeBlock keeps the first time block of a task. Date is empty for blocks
// not yet sent, which are scheduled today.
type TimeBlock struct {
	Start string
	End   string
	Date  string
}

type HabitDay struct {
	Date      string
	Completed bool
}

// FromView converts a server Task View. Only the first time block is kept.
func FromView(v model.TaskView) Task {
	t := Task{
		ID:           v.ID,
		Title:        v.Title,
		Completed:    v.Completed,
		Category:     DefaultCategory,
		IsHabit:      v.IsHabit,
		CreatedAt:    v.CreatedAt,
		HabitHistory: make([]HabitDay, 0, len(v.HabitHistory)),
	}
	if v.Description != nil {
		t.Description = *v.Description
	}
	if v.Category != nil && *v.Category != "" {
		t.Category = *v.Category
		t.Categorized = true
	}
	if len(v.TimeBlocks) > 0 {
		b := v.TimeBlocks[0]
		t.TimeBlock = &TimeBlock{Start: b.StartTime, End: b.EndTime, Date: b.Date}
	}
	for _, h := range v.HabitHistory {
		t.HabitHistory = append(t.HabitHistory, HabitDay{Date: h.Date, Completed: h.Completed})
	}
	return t
}

// Payload converts a new task into a create body. A time block without a
// date is scheduled today.
func (t Task) Payload(today string) TaskPayload {
	title := t.Title
	description := t.Description
	category := t.Category
	if category == "" {
		category = DefaultCategory
	}
	isHabit := t.IsHabit

	p := TaskPayload{
		Title:       &title,
		Description: &description,
		Category:    &category,
		IsHabit:     &isHabit,
	}
	if t.TimeBlock != nil {
		p.TimeBlock = t.TimeBlock.payload(today)
	}
	return p
}

// Changes builds an update body holding only the fields that differ from
// prev. A removed time block is sent empty, which clears the task's blocks.
func (t Task) Changes(prev Task, today string) TaskPayload {
	var p TaskPayload
	if t.Title != prev.Title {
		title := t.Title
		p.Title = &title
	}
	if t.Description != prev.Description {
		description := t.Description
		p.Description = &description
	}
	if categoryName(t) != categoryName(prev) || (t.Categorized && !prev.Categorized) {
		category := categoryName(t)
		p.Category = &category
	}
	if t.IsHabit != prev.IsHabit {
		isHabit := t.IsHabit
		p.IsHabit = &isHabit
	}
	switch {
	case t.TimeBlock == nil && prev.TimeBlock != nil:
		p.TimeBlock = &TimeBlockPayload{}
	case t.TimeBlock != nil && (prev.TimeBlock == nil || *t.TimeBlock != *prev.TimeBlock):
		p.TimeBlock = t.TimeBlock.payload(today)
	}
	return p
}

func categoryName(t Task) string {
	if t.Category == "" {
		return DefaultCategory
	}
	return t.Category
}

func (b *TimeBlock) payload(today string) *TimeBlockPayload {
	date := b.Date
	if date == "" {
		date = today
	}
	return &TimeBlockPayload{Start: b.Start, End: b.End, Date: date}
}

// clone copies t so callers can edit it without touching the mirror.
func (t Task) clone() Task {
	if t.TimeBlock != nil {
		b := *t.TimeBlock
		t.TimeBlock = &b
	}
	history := make([]HabitDay, len(t.HabitHistory))
	copy(history, t.HabitHistory)
	t.HabitHistory = history
	return t
}

// HasTimeBlock reports whether the task is scheduled.
func (t Task) HasTimeBlock() bool {
	return t.TimeBlock != nil
}
