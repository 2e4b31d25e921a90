package lecturer

import (
	"context"
)

// Repository defines the persistence contract for lecturer records.
//
// Implementations must treat FindByID of an absent id as (nil, nil) and
// DeleteByID of an absent id as a no-op.
type Repository interface {
	// Save inserts the lecturer or replaces the record with the same ID
	Save(ctx context.Context, l *Lecturer) (*Lecturer, error)

	// FindAll returns every stored lecturer in backend-defined order
	FindAll(ctx context.Context) ([]*Lecturer, error)

	// FindByID returns the lecturer with the given ID, or nil when absent
	FindByID(ctx context.Context, id ID) (*Lecturer, error)

	// DeleteByID removes the lecturer with the given ID if present
	DeleteByID(ctx context.Context, id ID) error
}

// HealthChecker is implemented by repositories backed by a remote store
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
