package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Store bundles the repositories over one database handle. A Store bound to
// a transaction is obtained through InTx.
type Store struct {
	db *gorm.DB

	Categories *CategoryRepository
	Tasks      *TaskRepository
	Habits     *HabitRepository
	Views      *ViewRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Categories: NewCategoryRepository(db),
		Tasks:      NewTaskRepository(db),
		Habits:     NewHabitRepository(db),
		Views:      NewViewRepository(db),
	}
}

// InTx runs fn inside a single transaction. Any error returned by fn, or a
// panic, rolls back every write made through the transactional store.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping probes connectivity and returns the database clock.
func (s *Store) Ping(ctx context.Context) (time.Time, error) {
	return Ping(ctx, s.db)
}
