package stats

import (
	"testing"
	"time"

	"taskflow/internal/model"
)

func entries(pairs ...interface{}) []model.HabitEntry {
	var out []model.HabitEntry
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.HabitEntry{Date: pairs[i].(string), Completed: pairs[i+1].(bool)})
	}
	return out
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name          string
		entries       []model.HabitEntry
		wantTotal     int
		wantCompleted int
		wantRate      int
		wantCurrent   int
		wantLongest   int
	}{
		{
			name:    "no entries",
			entries: nil,
		},
		{
			name:          "broken run then single completion",
			entries:       entries("2024-01-01", true, "2024-01-02", true, "2024-01-03", false, "2024-01-04", true),
			wantTotal:     4,
			wantCompleted: 3,
			wantRate:      75,
			wantCurrent:   1,
			wantLongest:   2,
		},
		{
			name:          "unsorted input",
			entries:       entries("2024-01-04", true, "2024-01-01", true, "2024-01-03", false, "2024-01-02", true),
			wantTotal:     4,
			wantCompleted: 3,
			wantRate:      75,
			wantCurrent:   1,
			wantLongest:   2,
		},
		{
			name:          "latest incomplete",
			entries:       entries("2024-01-01", true, "2024-01-02", true, "2024-01-03", true, "2024-01-04", false),
			wantTotal:     4,
			wantCompleted: 3,
			wantRate:      75,
			wantCurrent:   0,
			wantLongest:   3,
		},
		{
			name:          "all completed",
			entries:       entries("2024-02-01", true, "2024-02-02", true, "2024-02-03", true),
			wantTotal:     3,
			wantCompleted: 3,
			wantRate:      100,
			wantCurrent:   3,
			wantLongest:   3,
		},
		{
			name:          "gaps in dates do not break a run of rows",
			entries:       entries("2024-03-01", true, "2024-03-05", true, "2024-03-09", true),
			wantTotal:     3,
			wantCompleted: 3,
			wantRate:      100,
			wantCurrent:   3,
			wantLongest:   3,
		},
		{
			name:          "rounding",
			entries:       entries("2024-01-01", true, "2024-01-02", false, "2024-01-03", false),
			wantTotal:     3,
			wantCompleted: 1,
			wantRate:      33,
			wantCurrent:   0,
			wantLongest:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.entries)
			if got.TotalDays != tt.wantTotal {
				t.Errorf("TotalDays = %d, want %d", got.TotalDays, tt.wantTotal)
			}
			if got.CompletedDays != tt.wantCompleted {
				t.Errorf("CompletedDays = %d, want %d", got.CompletedDays, tt.wantCompleted)
			}
			if got.CompletionRate != tt.wantRate {
				t.Errorf("CompletionRate = %d, want %d", got.CompletionRate, tt.wantRate)
			}
			if got.CurrentStreak != tt.wantCurrent {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.wantCurrent)
			}
			if got.LongestStreak != tt.wantLongest {
				t.Errorf("LongestStreak = %d, want %d", got.LongestStreak, tt.wantLongest)
			}
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	in := entries("2024-01-02", true, "2024-01-01", false)
	Summarize(in)
	if in[0].Date != "2024-01-02" {
		t.Fatalf("input reordered: %+v", in)
	}
}

func TestRateZeroTotal(t *testing.T) {
	if got := Rate(0, 0); got != 0 {
		t.Fatalf("Rate(0, 0) = %d, want 0", got)
	}
}

func TestWindow(t *testing.T) {
	today := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
	from, to := Window(today, 7)
	if from != "2024-02-24" || to != "2024-03-02" {
		t.Fatalf("Window = (%s, %s), want (2024-02-24, 2024-03-02)", from, to)
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)
	if got := Today(now, tokyo); got != "2024-01-02" {
		t.Fatalf("Today(JST) = %s, want 2024-01-02", got)
	}
	if got := Today(now, nil); got != "2024-01-01" {
		t.Fatalf("Today(nil) = %s, want 2024-01-01", got)
	}
}

func TestOverview(t *testing.T) {
	work := &model.Category{ID: 9, Name: "work"}
	habits := []model.Task{
		{ID: 1, Title: "Read", IsHabit: true},
		{ID: 2, Title: "Run", IsHabit: true, CategoryID: &work.ID, Category: work},
		{ID: 3, Title: "Meditate", IsHabit: true},
	}
	byHabit := map[uint][]model.HabitEntry{
		1: entries("2024-01-01", true, "2024-01-02", false),
		2: entries("2024-01-01", true, "2024-01-02", true, "2024-01-03", false),
	}

	got := Overview(habits, byHabit)

	if got.TotalHabits != 3 {
		t.Errorf("TotalHabits = %d, want 3", got.TotalHabits)
	}
	if got.ActiveHabits != 2 {
		t.Errorf("ActiveHabits = %d, want 2", got.ActiveHabits)
	}
	// (50 + 66.7 + 0) / 3 = 38.9 -> 39; excluding the empty habit would give 58.
	if got.AverageCompletionRate != 39 {
		t.Errorf("AverageCompletionRate = %d, want 39", got.AverageCompletionRate)
	}

	wantOrder := []uint{2, 1, 3}
	for i, id := range wantOrder {
		if got.Habits[i].ID != id {
			t.Fatalf("Habits[%d].ID = %d, want %d", i, got.Habits[i].ID, id)
		}
	}
	if r := got.Habits[0].CompletionRate; r == nil || *r != 66.7 {
		t.Errorf("Run rate = %v, want 66.7", r)
	}
	if got.Habits[0].CategoryName == nil || *got.Habits[0].CategoryName != "work" {
		t.Errorf("Run category = %v, want work", got.Habits[0].CategoryName)
	}
	if got.Habits[2].CompletionRate != nil {
		t.Errorf("Meditate rate = %v, want nil", *got.Habits[2].CompletionRate)
	}
}

func TestOverviewNoHabits(t *testing.T) {
	got := Overview(nil, nil)
	if got.TotalHabits != 0 || got.AverageCompletionRate != 0 || len(got.Habits) != 0 {
		t.Fatalf("Overview(nil) = %+v", got)
	}
}
