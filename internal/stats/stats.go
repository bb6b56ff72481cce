// Package stats computes habit completion statistics over a snapshot of
// history rows. Streaks are counted over recorded rows, not calendar days.
package stats

import (
	"math"
	"sort"
	"time"

	"taskflow/internal/model"
)

const (
	DateLayout = "2006-01-02"

	DefaultHabitDays    = 30
	DefaultOverviewDays = 7
)

// Summary holds the statistics for one habit.
type Summary struct {
	TotalDays      int `json:"totalDays"`
	CompletedDays  int `json:"completedDays"`
	CompletionRate int `json:"completionRate"`
	CurrentStreak  int `json:"currentStreak"`
	LongestStreak  int `json:"longestStreak"`
}

// Window returns the inclusive date bounds [today-days, today].
func Window(today time.Time, days int) (from, to string) {
	return today.AddDate(0, 0, -days).Format(DateLayout), today.Format(DateLayout)
}

// Today formats now in loc as a history date.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}

// SortByDate orders entries by date ascending, keeping insertion order for ties.
func SortByDate(entries []model.HabitEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}

// Summarize computes the summary of entries already restricted to a window.
func Summarize(entries []model.HabitEntry) Summary {
	sorted := make([]model.HabitEntry, len(entries))
	copy(sorted, entries)
	SortByDate(sorted)

	s := Summary{TotalDays: len(sorted)}
	for _, e := range sorted {
		if e.Completed {
			s.CompletedDays++
		}
	}
	s.CompletionRate = Rate(s.CompletedDays, s.TotalDays)
	s.CurrentStreak = CurrentStreak(sorted)
	s.LongestStreak = LongestStreak(sorted)
	return s
}

// Rate is round(100*completed/total), or 0 when total is 0.
func Rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// CurrentStreak counts completed rows from the most recent one backward,
// stopping at the first incomplete row. Entries must be date-ascending.
func CurrentStreak(entries []model.HabitEntry) int {
	streak := 0
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].Completed {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive completed rows.
// Entries must be date-ascending.
func LongestStreak(entries []model.HabitEntry) int {
	longest, run := 0, 0
	for _, e := range entries {
		if e.Completed {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}
