package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskflow/internal/config"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

type testServices struct {
	db         *gorm.DB
	store      *repository.Store
	tasks      *TaskService
	habits     *HabitService
	categories *CategoryService
}

var fixedNow = time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db, err := repository.NewDB(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"}, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })

	store := repository.NewStore(db)
	clock := Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC}
	log := zap.NewNop()
	return &testServices{
		db:         db,
		store:      store,
		tasks:      NewTaskService(store, clock, log),
		habits:     NewHabitService(store, clock, log),
		categories: NewCategoryService(store),
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestCreateHabitSeedsToday(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	view, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Read", IsHabit: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(view.HabitHistory) != 1 {
		t.Fatalf("habit history = %d rows, want 1", len(view.HabitHistory))
	}
	entry := view.HabitHistory[0]
	if entry.Date != "2024-01-04" || entry.Completed {
		t.Fatalf("seed entry = %+v, want 2024-01-04 incomplete", entry)
	}

	habits, err := s.habits.List(ctx)
	if err != nil {
		t.Fatalf("List habits: %v", err)
	}
	if len(habits) != 1 || habits[0].ID != view.ID {
		t.Fatalf("habits = %+v, want the created task", habits)
	}
}

// failInserts makes every insert into table fail.
func failInserts(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	if _, err := s.categories.Create(ctx, CategoryInput{Name: strPtr("health"), Color: strPtr("bg-green-500"), TextColor: strPtr("text-white")}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	input := CreateTaskInput{
		Title:       "Run",
		Description: strPtr("5k around the park"),
		Category:    "health",
		IsHabit:     true,
		TimeBlock:   &TimeBlockInput{Start: "06:30", End: "07:15", Date: "2024-01-05"},
	}
	created, err := s.tasks.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.tasks.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != input.Title || got.Description == nil || *got.Description != *input.Description || !got.IsHabit || got.Completed {
		t.Errorf("task fields = %+v", got)
	}
	if got.Category == nil || *got.Category != "health" || *got.CategoryColor != "bg-green-500" || *got.CategoryTextColor != "text-white" {
		t.Errorf("category = %v %v %v", got.Category, got.CategoryColor, got.CategoryTextColor)
	}
	if len(got.TimeBlocks) != 1 {
		t.Fatalf("time blocks = %+v, want 1", got.TimeBlocks)
	}
	b := got.TimeBlocks[0]
	if b.StartTime != "06:30" || b.EndTime != "07:15" || b.Date != "2024-01-05" || b.TaskID != created.ID {
		t.Errorf("time block = %+v", b)
	}
	if len(got.HabitHistory) != 1 || got.HabitHistory[0].Date != "2024-01-04" || got.HabitHistory[0].Completed {
		t.Errorf("habit history = %+v, want one open entry for today", got.HabitHistory)
	}
}

func TestCreateRollsBackOnDependentFailure(t *testing.T) {
	tests := []struct {
		name  string
		table string
		input CreateTaskInput
	}{
		{
			name:  "time block insert fails",
			table: "time_blocks",
			input: CreateTaskInput{Title: "Gym", TimeBlock: &TimeBlockInput{Start: "09:00", End: "10:00", Date: "2024-01-05"}},
		},
		{
			name:  "habit seed insert fails",
			table: "habit_history",
			input: CreateTaskInput{Title: "Read", IsHabit: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServices(t)
			ctx := context.Background()
			failInserts(t, s.db, tt.table)

			_, err := s.tasks.Create(ctx, tt.input)
			if !errors.Is(err, ErrStore) {
				t.Fatalf("err = %v, want a store error", err)
			}

			views, err := s.tasks.List(ctx, repository.TaskQuery{})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(views) != 0 {
				t.Fatalf("task row survived the failed create: %+v", views)
			}
		})
	}
}

func TestUpdateRollsBackOnDependentFailure(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	created, err := s.tasks.Create(ctx, CreateTaskInput{
		Title:     "Standup",
		TimeBlock: &TimeBlockInput{Start: "09:00", End: "09:15", Date: "2024-01-04"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	failInserts(t, s.db, "time_blocks")

	_, err = s.tasks.Update(ctx, created.ID, UpdateTaskInput{
		Title:     strPtr("Retro"),
		TimeBlock: &TimeBlockInput{Start: "16:00", End: "17:00", Date: "2024-01-05"},
	})
	if !errors.Is(err, ErrStore) {
		t.Fatalf("err = %v, want a store error", err)
	}

	got, err := s.tasks.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Standup" {
		t.Errorf("title = %q, want the update rolled back", got.Title)
	}
	if len(got.TimeBlocks) != 1 || got.TimeBlocks[0].StartTime != "09:00" || got.TimeBlocks[0].Date != "2024-01-04" {
		t.Errorf("time blocks = %+v, want the original block kept", got.TimeBlocks)
	}
}

func TestCreateTask(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	if _, err := s.categories.Create(ctx, CategoryInput{Name: strPtr("work"), Color: strPtr("bg-blue-500")}); err != nil {
		t.Fatalf("create category: %v", err)
	}

	tests := []struct {
		name         string
		input        CreateTaskInput
		wantErr      error
		wantCategory *string
		wantBlocks   int
	}{
		{name: "blank title", input: CreateTaskInput{Title: "   "}, wantErr: ErrValidation},
		{name: "unknown category", input: CreateTaskInput{Title: "Email", Category: "nonexistent"}},
		{name: "known category", input: CreateTaskInput{Title: "Plan", Category: "work"}, wantCategory: strPtr("work")},
		{
			name:       "with time block",
			input:      CreateTaskInput{Title: "Gym", TimeBlock: &TimeBlockInput{Start: "09:00", End: "10:00", Date: "2024-01-05"}},
			wantBlocks: 1,
		},
		{
			name:  "partial time block ignored",
			input: CreateTaskInput{Title: "Walk", TimeBlock: &TimeBlockInput{Start: "09:00"}},
		},
		{
			name:    "bad time block",
			input:   CreateTaskInput{Title: "Nap", TimeBlock: &TimeBlockInput{Start: "9am", End: "10:00", Date: "2024-01-05"}},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := s.tasks.Create(ctx, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			switch {
			case tt.wantCategory == nil && view.Category != nil:
				t.Errorf("category = %q, want none", *view.Category)
			case tt.wantCategory != nil && (view.Category == nil || *view.Category != *tt.wantCategory):
				t.Errorf("category = %v, want %q", view.Category, *tt.wantCategory)
			}
			if tt.wantCategory != nil && (view.CategoryColor == nil || *view.CategoryColor != "bg-blue-500") {
				t.Errorf("category color = %v, want bg-blue-500", view.CategoryColor)
			}
			if len(view.TimeBlocks) != tt.wantBlocks {
				t.Errorf("time blocks = %d, want %d", len(view.TimeBlocks), tt.wantBlocks)
			}
			if view.HabitHistory == nil || view.TimeBlocks == nil {
				t.Errorf("dependent slices must not be nil")
			}
		})
	}
}

func TestUpdateReplacesTimeBlocks(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	view, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Deep work"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, start := range []string{"07:00", "13:00"} {
		block := model.TimeBlock{TaskID: view.ID, StartTime: start, EndTime: "08:00", Date: "2024-01-01"}
		if err := s.store.Tasks.CreateTimeBlock(ctx, &block); err != nil {
			t.Fatalf("seed block: %v", err)
		}
	}

	updated, err := s.tasks.Update(ctx, view.ID, UpdateTaskInput{
		TimeBlock: &TimeBlockInput{Start: "09:00", End: "10:00", Date: "2024-01-01"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(updated.TimeBlocks) != 1 {
		t.Fatalf("time blocks = %d, want 1", len(updated.TimeBlocks))
	}
	if b := updated.TimeBlocks[0]; b.StartTime != "09:00" || b.EndTime != "10:00" {
		t.Fatalf("block = %+v, want 09:00-10:00", b)
	}
}

func TestUpdateTask(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	if _, err := s.categories.Create(ctx, CategoryInput{Name: strPtr("home")}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	view, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Laundry", Description: strPtr("whites"), Category: "home"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := s.tasks.Update(ctx, view.ID, UpdateTaskInput{
		Title:       strPtr(""),
		Description: strPtr("colors"),
		Category:    strPtr("missing"),
		IsHabit:     boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Laundry" {
		t.Errorf("title = %q, want unchanged", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "colors" {
		t.Errorf("description = %v, want colors", updated.Description)
	}
	if updated.Category == nil || *updated.Category != "home" {
		t.Errorf("category = %v, want home kept", updated.Category)
	}
	if !updated.IsHabit {
		t.Errorf("is_habit not applied")
	}

	if _, err := s.tasks.Update(ctx, 999, UpdateTaskInput{Title: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing err = %v, want not found", err)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	view, err := s.tasks.Create(ctx, CreateTaskInput{Title: "Call mom"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, err := s.tasks.Toggle(ctx, view.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !first.Completed {
		t.Fatalf("first toggle did not complete")
	}
	second, err := s.tasks.Toggle(ctx, view.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if second.Completed != view.Completed {
		t.Fatalf("completed = %v after two toggles, want %v", second.Completed, view.Completed)
	}

	if _, err := s.tasks.Toggle(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("toggle missing err = %v, want not found", err)
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	view, err := s.tasks.Create(ctx, CreateTaskInput{
		Title:     "Stretch",
		IsHabit:   true,
		TimeBlock: &TimeBlockInput{Start: "06:00", End: "06:15", Date: "2024-01-04"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := s.tasks.Delete(ctx, view.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != view.ID || deleted.Title != "Stretch" {
		t.Fatalf("deleted = %+v", deleted)
	}
	if _, err := s.tasks.Get(ctx, view.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted err = %v, want not found", err)
	}
	entries, err := s.store.Habits.ListInWindow(ctx, []uint{view.ID}, "2000-01-01", "2100-01-01")
	if err != nil {
		t.Fatalf("ListInWindow: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("history rows left = %d, want 0", len(entries))
	}
	if _, err := s.tasks.Delete(ctx, view.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want not found", err)
	}
}

func TestListFilters(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	if _, err := s.categories.Create(ctx, CategoryInput{Name: strPtr("work")}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	seed := []CreateTaskInput{
		{Title: "Write report", Category: "work"},
		{Title: "Meditate", IsHabit: true},
		{Title: "Dentist", Description: strPtr("Book 50% off cleaning"), TimeBlock: &TimeBlockInput{Start: "15:00", End: "16:00", Date: "2024-01-05"}},
	}
	ids := map[string]uint{}
	for _, in := range seed {
		v, err := s.tasks.Create(ctx, in)
		if err != nil {
			t.Fatalf("seed %q: %v", in.Title, err)
		}
		ids[in.Title] = v.ID
	}
	if _, err := s.tasks.Toggle(ctx, ids["Write report"]); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	tests := []struct {
		name    string
		query   repository.TaskQuery
		want    []string
		wantErr error
	}{
		{name: "all newest first", query: repository.TaskQuery{}, want: []string{"Dentist", "Meditate", "Write report"}},
		{name: "active", query: repository.TaskQuery{Status: model.FilterActive}, want: []string{"Dentist", "Meditate"}},
		{name: "completed", query: repository.TaskQuery{Status: model.FilterCompleted}, want: []string{"Write report"}},
		{name: "habits", query: repository.TaskQuery{Status: model.FilterHabits}, want: []string{"Meditate"}},
		{name: "time blocked", query: repository.TaskQuery{Status: model.FilterTimeBlocked}, want: []string{"Dentist"}},
		{name: "category", query: repository.TaskQuery{Category: "work"}, want: []string{"Write report"}},
		{name: "category all", query: repository.TaskQuery{Category: "all"}, want: []string{"Dentist", "Meditate", "Write report"}},
		{name: "search title case-insensitive", query: repository.TaskQuery{Search: "REPORT"}, want: []string{"Write report"}},
		{name: "search description", query: repository.TaskQuery{Search: "cleaning"}, want: []string{"Dentist"}},
		{name: "search escapes wildcards", query: repository.TaskQuery{Search: "50%"}, want: []string{"Dentist"}},
		{name: "combined", query: repository.TaskQuery{Status: model.FilterActive, Category: "work"}, want: []string{}},
		{name: "unknown filter", query: repository.TaskQuery{Status: "weekly"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := s.tasks.List(ctx, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(views) != len(tt.want) {
				t.Fatalf("got %d views, want %d", len(views), len(tt.want))
			}
			for i, title := range tt.want {
				if views[i].Title != title {
					t.Errorf("views[%d] = %q, want %q", i, views[i].Title, title)
				}
			}
		})
	}
}
