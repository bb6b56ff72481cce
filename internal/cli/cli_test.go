package cli

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskflow/internal/api"
	"taskflow/internal/client"
	"taskflow/internal/config"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"
)

var testNow = time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)

// newTestEnv points the CLI at the real API over an in-memory database.
func newTestEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.NewDB(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"}, zap.NewNop())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })

	store := repository.NewStore(db)
	clock := service.Clock{Now: func() time.Time { return testNow }, Location: time.UTC}
	log := zap.NewNop()
	srv := api.NewServer(":0",
		service.NewTaskService(store, clock, log),
		service.NewHabitService(store, clock, log),
		service.NewCategoryService(store),
		store, log,
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &env{cfg: &config.Config{
		Client:   config.ClientConfig{BaseURL: ts.URL + "/api", Timeout: 5 * time.Second},
		Timezone: "UTC",
	}}
}

func run(t *testing.T, e *env, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRootCmd(e, "test")
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestTaskCommands(t *testing.T) {
	e := newTestEnv(t)

	if _, err := run(t, e, "categories", "add", "work", "--color", "#ffb86c"); err != nil {
		t.Fatalf("categories add: %v", err)
	}
	out, err := run(t, e, "tasks", "add", "Plan sprint", "-c", "work", "--start", "09:00", "--end", "10:00")
	if err != nil {
		t.Fatalf("tasks add: %v", err)
	}
	if !strings.Contains(out, "Plan sprint") || !strings.Contains(out, "09:00-10:00") {
		t.Errorf("tasks add output = %q", out)
	}
	if _, err := run(t, e, "tasks", "add", "Stretch", "--habit"); err != nil {
		t.Fatalf("tasks add habit: %v", err)
	}

	out, err = run(t, e, "tasks", "list", "--filter", "timeBlocked")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	if !strings.Contains(out, "Plan sprint") || strings.Contains(out, "Stretch") {
		t.Errorf("timeBlocked list = %q", out)
	}

	if _, err := run(t, e, "tasks", "toggle", "1"); err != nil {
		t.Fatalf("tasks toggle: %v", err)
	}
	out, err = run(t, e, "tasks", "list", "-f", "completed")
	if err != nil {
		t.Fatalf("tasks list completed: %v", err)
	}
	if !strings.Contains(out, "Plan sprint") {
		t.Errorf("completed list = %q", out)
	}

	out, err = run(t, e, "tasks", "edit", "1", "--title", "Plan quarter")
	if err != nil {
		t.Fatalf("tasks edit: %v", err)
	}
	if !strings.Contains(out, "Plan quarter") || !strings.Contains(out, "(work)") {
		t.Errorf("tasks edit output = %q", out)
	}

	if _, err := run(t, e, "tasks", "delete", "1"); err != nil {
		t.Fatalf("tasks delete: %v", err)
	}
	out, err = run(t, e, "tasks", "list")
	if err != nil {
		t.Fatalf("tasks list: %v", err)
	}
	if strings.Contains(out, "Plan quarter") {
		t.Errorf("deleted task still listed: %q", out)
	}
}

func TestTaskCommandErrors(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "bad filter", args: []string{"tasks", "list", "-f", "later"}, want: "unknown filter"},
		{name: "bad id", args: []string{"tasks", "toggle", "abc"}, want: "invalid id"},
		{name: "half time block", args: []string{"tasks", "add", "x", "--start", "09:00"}, want: "--start and --end"},
		{name: "missing task", args: []string{"tasks", "toggle", "42"}, want: "Task not found"},
		{name: "edit missing task", args: []string{"tasks", "edit", "42", "--title", "y"}, want: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, e, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestHabitCommands(t *testing.T) {
	e := newTestEnv(t)

	if _, err := run(t, e, "tasks", "add", "Read", "--habit"); err != nil {
		t.Fatalf("tasks add: %v", err)
	}
	for _, date := range []string{"2024-01-02", "2024-01-03"} {
		if _, err := run(t, e, "habits", "check", "1", "--date", date); err != nil {
			t.Fatalf("habits check %s: %v", date, err)
		}
	}
	out, err := run(t, e, "habits", "check", "1", "--date", "2024-01-03", "--undo")
	if err != nil {
		t.Fatalf("habits check --undo: %v", err)
	}
	if !strings.Contains(out, "Habit uncompleted for 2024-01-03") {
		t.Errorf("undo output = %q", out)
	}

	out, err = run(t, e, "habits", "stats", "1")
	if err != nil {
		t.Fatalf("habits stats: %v", err)
	}
	// Entries: 01-02 done, 01-03 not, 01-04 seeded open.
	if !strings.Contains(out, "1 / 3") || !strings.Contains(out, "33%") {
		t.Errorf("stats output = %q", out)
	}

	out, err = run(t, e, "habits", "overview")
	if err != nil {
		t.Fatalf("habits overview: %v", err)
	}
	if !strings.Contains(out, "Read") || !strings.Contains(out, "33.3%") {
		t.Errorf("overview output = %q", out)
	}

	if _, err := run(t, e, "habits", "clear", "1", "--date", "2024-01-03"); err != nil {
		t.Fatalf("habits clear: %v", err)
	}
	if _, err := run(t, e, "habits", "clear", "1", "--date", "2024-01-03"); err == nil {
		t.Fatal("second clear succeeded")
	}
}

func TestCategoryCommands(t *testing.T) {
	e := newTestEnv(t)

	if _, err := run(t, e, "categories", "add", "home"); err != nil {
		t.Fatalf("categories add: %v", err)
	}
	if _, err := run(t, e, "tasks", "add", "Laundry", "-c", "home"); err != nil {
		t.Fatalf("tasks add: %v", err)
	}

	out, err := run(t, e, "categories", "tasks", "1")
	if err != nil {
		t.Fatalf("categories tasks: %v", err)
	}
	if !strings.Contains(out, "Laundry") {
		t.Errorf("categories tasks = %q", out)
	}

	_, err = run(t, e, "categories", "delete", "1")
	var apiErr *client.APIError
	if err == nil || !errors.As(err, &apiErr) || apiErr.TaskCount != 1 {
		t.Fatalf("delete in-use category err = %v", err)
	}

	if _, err := run(t, e, "categories", "edit", "1", "--name", "chores"); err != nil {
		t.Fatalf("categories edit: %v", err)
	}
	out, err = run(t, e, "categories", "list")
	if err != nil {
		t.Fatalf("categories list: %v", err)
	}
	if !strings.Contains(out, "chores") {
		t.Errorf("categories list = %q", out)
	}
}

func TestStatusCommand(t *testing.T) {
	e := newTestEnv(t)
	out, err := run(t, e, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "OK") || !strings.Contains(out, "connected") {
		t.Errorf("status output = %q", out)
	}
}

func TestHabitStrip(t *testing.T) {
	today := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	history := []client.HabitDay{
		{Date: "2024-01-02", Completed: true},
		{Date: "2024-01-04", Completed: false},
	}
	got := habitStrip(history, today, 4)
	want := "·●·○"
	if got != want {
		t.Fatalf("habitStrip = %q, want %q", got, want)
	}
}

func TestRenderTasksEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderTasks(&buf, nil, model.FilterActive)
	if !strings.Contains(buf.String(), "Tasks (active, 0)") || !strings.Contains(buf.String(), "nothing here") {
		t.Fatalf("renderTasks = %q", buf.String())
	}
}
