package lecturer

import (
	"context"
	"sync"

	"github.com/danghamo/lecturer-service/internal/domain/shared"
)

// MemoryRepository implements Repository with an in-process map
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[ID]*Lecturer
}

// NewMemoryRepository creates an empty in-memory lecturer repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[ID]*Lecturer),
	}
}

// Save stores a copy of the lecturer, replacing any record with the same ID
func (r *MemoryRepository) Save(ctx context.Context, l *Lecturer) (*Lecturer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l == nil {
		return nil, shared.ErrInvalidInput("lecturer cannot be nil")
	}
	if l.ID.IsEmpty() {
		return nil, shared.ErrInvalidInput("lecturer id cannot be empty")
	}

	stored := l.Clone()
	stored.normalize()

	r.mu.Lock()
	r.records[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

// FindAll returns copies of all stored lecturers
func (r *MemoryRepository) FindAll(ctx context.Context) ([]*Lecturer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	lecturers := make([]*Lecturer, 0, len(r.records))
	for _, l := range r.records {
		lecturers = append(lecturers, l.Clone())
	}
	return lecturers, nil
}

// FindByID returns a copy of the lecturer, or nil when absent
func (r *MemoryRepository) FindByID(ctx context.Context, id ID) (*Lecturer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.records[id].Clone(), nil
}

// DeleteByID removes the lecturer; absent IDs are ignored
func (r *MemoryRepository) DeleteByID(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.records, id)
	r.mu.Unlock()

	return nil
}

// Len returns the number of stored lecturers
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
