package model

import "time"

// Task represents a single item in the tracker. Habits are tasks with IsHabit set.
type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	IsHabit     bool      `json:"is_habit" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Category `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}

// TimeBlock is a scheduled slot attached to a task. Start and end are HH:MM,
// date is YYYY-MM-DD.
type TimeBlock struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TaskID    uint   `json:"task_id" gorm:"not null;index"`
	StartTime string `json:"start_time" gorm:"not null"`
	EndTime   string `json:"end_time" gorm:"not null"`
	Date      string `json:"date" gorm:"not null;type:varchar(10)"`

	Task *Task `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// HabitEntry records whether a habit was done on a given day.
type HabitEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null;uniqueIndex:idx_habit_history_task_date"`
	Date      string    `json:"date" gorm:"not null;type:varchar(10);uniqueIndex:idx_habit_history_task_date"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Task *Task `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (HabitEntry) TableName() string {
	return "habit_history"
}
