package model

import "fmt"

// TaskFilter selects tasks by status.
type TaskFilter string

const (
	FilterAll         TaskFilter = "all"
	FilterActive      TaskFilter = "active"
	FilterCompleted   TaskFilter = "completed"
	FilterHabits      TaskFilter = "habits"
	FilterTimeBlocked TaskFilter = "timeBlocked"
)

// ParseTaskFilter maps the wire value to a filter. Empty means all.
func ParseTaskFilter(raw string) (TaskFilter, error) {
	switch TaskFilter(raw) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive, FilterCompleted, FilterHabits, FilterTimeBlocked:
		return TaskFilter(raw), nil
	default:
		return "", fmt.Errorf("unknown filter %q", raw)
	}
}

// Match reports whether a task with the given flags passes the filter.
func (f TaskFilter) Match(completed, isHabit, hasTimeBlock bool) bool {
	switch f {
	case FilterActive:
		return !completed
	case FilterCompleted:
		return completed
	case FilterHabits:
		return isHabit
	case FilterTimeBlocked:
		return hasTimeBlock
	default:
		return true
	}
}
