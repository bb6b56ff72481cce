package client

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/model"
	"taskflow/internal/stats"
)

// ErrStale is returned when a response arrived after a newer request for the
// same entity (or a newer refresh) and was dropped.
var ErrStale = errors.New("stale response discarded")

// API is the subset of Client the Synchronizer needs.
type API interface {
	ListTasks(ctx context.Context, q TaskQuery) ([]model.TaskView, error)
	CreateTask(ctx context.Context, payload TaskPayload) (*model.TaskView, error)
	UpdateTask(ctx context.Context, id uint, payload TaskPayload) (*model.TaskView, error)
	ToggleTask(ctx context.Context, id uint) (*model.TaskView, error)
	DeleteTask(ctx context.Context, id uint) (*model.Task, error)
	CompleteHabit(ctx context.Context, id uint, date string, completed bool) (*model.HabitEntry, error)
}

// Phase is the sync state of one task.
type Phase int

const (
	Idle Phase = iota
	Pending
	Reconciled
	Failed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Reconciled:
		return "reconciled"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// EntityState tracks the latest request issued for a task.
type EntityState struct {
	Phase     Phase
	RequestID uuid.UUID
	Err       error
}

// State is a snapshot of the local mirror.
type State struct {
	Tasks   []Task
	Filter  model.TaskFilter
	Loading bool
	Err     error
}

// Synchronizer mirrors the server task list. Mutations are request then
// reconcile: local state changes only with what the server returned.
type Synchronizer struct {
	api API
	now func() time.Time
	loc *time.Location
	log *zap.Logger

	mu         sync.Mutex
	tasks      []Task
	filter     model.TaskFilter
	loading    bool
	err        error
	entities   map[uint]*EntityState
	generation uint64
}

func NewSynchronizer(api API, loc *time.Location, log *zap.Logger) *Synchronizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Synchronizer{
		api:      api,
		now:      time.Now,
		loc:      loc,
		log:      log.Named("sync"),
		tasks:    []Task{},
		filter:   model.FilterAll,
		entities: make(map[uint]*EntityState),
	}
}

// Refresh reloads every task and replaces the mirror on success. On failure
// the previous tasks stay and the error is recorded.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.mu.Unlock()

	views, err := s.api.ListTasks(ctx, TaskQuery{})

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.log.Debug("dropping stale refresh", zap.Uint64("generation", gen))
		return ErrStale
	}
	s.loading = false
	if err != nil {
		s.err = err
		return err
	}

	tasks := make([]Task, 0, len(views))
	for _, v := range views {
		tasks = append(tasks, FromView(v))
	}
	s.tasks = tasks
	s.err = nil
	return nil
}

// Create sends a new task and adds the server's version to the front of the
// mirror, matching the newest-first order of the server.
func (s *Synchronizer) Create(ctx context.Context, t Task) (Task, error) {
	view, err := s.api.CreateTask(ctx, t.Payload(s.today()))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		return Task{}, err
	}

	created := FromView(*view)
	if i := s.indexOf(created.ID); i >= 0 {
		s.tasks[i] = created
	} else {
		s.tasks = append([]Task{created}, s.tasks...)
	}
	s.entities[created.ID] = &EntityState{Phase: Reconciled}
	s.err = nil
	return created, nil
}

// Update sends the fields of t that differ from the mirrored copy and replaces
// the local copy with the response. A task missing from the mirror is compared
// against an empty, uncategorized task.
func (s *Synchronizer) Update(ctx context.Context, t Task) (Task, error) {
	s.mu.Lock()
	prev := Task{ID: t.ID, Category: DefaultCategory}
	if i := s.indexOf(t.ID); i >= 0 {
		prev = s.tasks[i]
	}
	s.mu.Unlock()

	reqID := s.begin(t.ID)
	view, err := s.api.UpdateTask(ctx, t.ID, t.Changes(prev, s.today()))
	return s.reconcileView(t.ID, reqID, view, err)
}

// Toggle flips completion on the server and applies the returned task.
func (s *Synchronizer) Toggle(ctx context.Context, id uint) (Task, error) {
	reqID := s.begin(id)
	view, err := s.api.ToggleTask(ctx, id)
	return s.reconcileView(id, reqID, view, err)
}

// Delete removes the task from the mirror once the server confirms.
func (s *Synchronizer) Delete(ctx context.Context, id uint) error {
	reqID := s.begin(id)
	_, err := s.api.DeleteTask(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(id, reqID, err) {
		return ErrStale
	}
	if err != nil {
		return err
	}
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	delete(s.entities, id)
	return nil
}

// SetHabit records completion for date and merges the stored entry into the
// task's history.
func (s *Synchronizer) SetHabit(ctx context.Context, id uint, date string, completed bool) (Task, error) {
	reqID := s.begin(id)
	entry, err := s.api.CompleteHabit(ctx, id, date, completed)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(id, reqID, err) {
		return Task{}, ErrStale
	}
	if err != nil {
		return Task{}, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, nil
	}
	t := s.tasks[i]
	history := make([]HabitDay, 0, len(t.HabitHistory)+1)
	found := false
	for _, h := range t.HabitHistory {
		if h.Date == entry.Date {
			h.Completed = entry.Completed
			found = true
		}
		history = append(history, h)
	}
	if !found {
		history = append(history, HabitDay{Date: entry.Date, Completed: entry.Completed})
		sort.SliceStable(history, func(a, b int) bool { return history[a].Date < history[b].Date })
	}
	t.HabitHistory = history
	s.tasks[i] = t
	return t, nil
}

// SetFilter changes the local filter. It never touches the network.
func (s *Synchronizer) SetFilter(f model.TaskFilter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Visible returns the tasks that pass the current filter.
func (s *Synchronizer) Visible() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter.Match(t.Completed, t.IsHabit, t.HasTimeBlock()) {
			out = append(out, t.clone())
		}
	}
	return out
}

// Snapshot deep-copies the mirror.
func (s *Synchronizer) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		tasks[i] = t.clone()
	}
	return State{Tasks: tasks, Filter: s.filter, Loading: s.loading, Err: s.err}
}

// Entity returns the sync state of one task. Unknown tasks are Idle.
func (s *Synchronizer) Entity(id uint) EntityState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entities[id]; ok {
		return *e
	}
	return EntityState{Phase: Idle}
}

// begin marks id as pending under a fresh request id.
func (s *Synchronizer) begin(id uint) uuid.UUID {
	reqID := uuid.New()
	s.mu.Lock()
	s.entities[id] = &EntityState{Phase: Pending, RequestID: reqID}
	s.mu.Unlock()
	return reqID
}

// settle finishes request reqID for id. It reports false when a newer request
// has superseded it, in which case nothing changes. Callers hold s.mu.
func (s *Synchronizer) settle(id uint, reqID uuid.UUID, err error) bool {
	e, ok := s.entities[id]
	if !ok || e.RequestID != reqID {
		s.log.Debug("dropping stale response", zap.Uint("task", id), zap.String("request", reqID.String()))
		return false
	}
	if err != nil {
		e.Phase = Failed
		e.Err = err
		s.err = err
		return true
	}
	e.Phase = Reconciled
	e.Err = nil
	s.err = nil
	return true
}

func (s *Synchronizer) reconcileView(id uint, reqID uuid.UUID, view *model.TaskView, err error) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.settle(id, reqID, err) {
		return Task{}, ErrStale
	}
	if err != nil {
		return Task{}, err
	}
	t := FromView(*view)
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i] = t
	}
	return t, nil
}

func (s *Synchronizer) indexOf(id uint) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Synchronizer) today() string {
	return stats.Today(s.now(), s.loc)
}
