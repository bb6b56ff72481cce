package model

import "time"

const (
	DefaultCategoryColor     = "bg-slate-500"
	DefaultCategoryTextColor = "text-slate-500"
)

// Category groups tasks by area (work, health, learning, etc.).
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	Color     string    `json:"color" gorm:"not null"`
	TextColor string    `json:"text_color" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
