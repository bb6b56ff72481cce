package stats

import (
	"math"
	"sort"

	"taskflow/internal/model"
)

// HabitRate is one row of the cross-habit overview.
type HabitRate struct {
	ID               uint     `json:"id"`
	Title            string   `json:"title"`
	CategoryID       *uint    `json:"category_id"`
	CategoryName     *string  `json:"category_name"`
	TotalEntries     int      `json:"total_entries"`
	CompletedEntries int      `json:"completed_entries"`
	CompletionRate   *float64 `json:"completion_rate"`
}

// OverviewResult aggregates completion across all habits.
type OverviewResult struct {
	TotalHabits           int         `json:"totalHabits"`
	ActiveHabits          int         `json:"activeHabits"`
	AverageCompletionRate int         `json:"averageCompletionRate"`
	Habits                []HabitRate `json:"habits"`
}

// Overview computes per-habit rates and the overall average. Habits without
// entries have a nil rate, are not active, and still count as 0 in the
// average, which divides by the total number of habits.
func Overview(habits []model.Task, entriesByHabit map[uint][]model.HabitEntry) OverviewResult {
	res := OverviewResult{
		TotalHabits: len(habits),
		Habits:      make([]HabitRate, 0, len(habits)),
	}

	var sum float64
	for _, h := range habits {
		row := HabitRate{ID: h.ID, Title: h.Title, CategoryID: h.CategoryID}
		if h.Category != nil {
			name := h.Category.Name
			row.CategoryName = &name
		}
		for _, e := range entriesByHabit[h.ID] {
			row.TotalEntries++
			if e.Completed {
				row.CompletedEntries++
			}
		}
		if row.TotalEntries > 0 {
			res.ActiveHabits++
			rate := roundTo(float64(row.CompletedEntries)/float64(row.TotalEntries)*100, 1)
			row.CompletionRate = &rate
			sum += rate
		}
		res.Habits = append(res.Habits, row)
	}

	if res.TotalHabits > 0 {
		res.AverageCompletionRate = int(math.Round(sum / float64(res.TotalHabits)))
	}

	sort.SliceStable(res.Habits, func(i, j int) bool {
		a, b := res.Habits[i].CompletionRate, res.Habits[j].CompletionRate
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	return res
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
