package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/internal/cqrs"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/domain/shared"
	"github.com/danghamo/lecturer-service/internal/metrics"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// Repository operation labels for metrics
const (
	opSave       = "save"
	opFindAll    = "find_all"
	opFindByID   = "find_by_id"
	opDeleteByID = "delete_by_id"
)

// EventPublisher interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// Option configures a LecturerService
type Option func(*LecturerService)

// WithEventPublisher announces completed writes
func WithEventPublisher(publisher EventPublisher) Option {
	return func(s *LecturerService) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LecturerService) { s.metrics = m }
}

func WithLogger(log *logger.Logger) Option {
	return func(s *LecturerService) { s.logger = log.WithComponent("lecturer-service") }
}

// LecturerService exposes CRUD over a lecturer.Repository. It holds no
// record state; every call is one repository round trip.
type LecturerService struct {
	repo      lecturer.Repository
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// NewLecturerService creates a service backed by repo
func NewLecturerService(repo lecturer.Repository, opts ...Option) *LecturerService {
	s := &LecturerService{
		repo:   repo,
		logger: logger.GetGlobalLogger().WithComponent("lecturer-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert inserts or replaces the lecturer. A lecturer without an id is
// assigned a new one, and after a successful save that id is written back
// to l so saving the same value again updates the same record. No other
// field of l is modified.
func (s *LecturerService) Upsert(ctx context.Context, l *lecturer.Lecturer) (*lecturer.Lecturer, error) {
	toSave := l.Clone()
	if toSave != nil && toSave.ID.IsEmpty() {
		toSave.ID = lecturer.NewID()
	}

	saved, err := s.repo.Save(ctx, toSave)
	s.record(opSave, err)
	if err != nil {
		return nil, err
	}

	if l != nil && l.ID.IsEmpty() {
		l.ID = saved.ID
	}

	s.logger.WithLecturerID(saved.ID.String()).Debug("Lecturer upserted")
	s.publish(ctx, saved.ID, cqrs.NewLecturerSavedEvent(saved))

	return saved, nil
}

// ListAll returns every stored lecturer in repository order
func (s *LecturerService) ListAll(ctx context.Context) ([]*lecturer.Lecturer, error) {
	lecturers, err := s.repo.FindAll(ctx)
	s.record(opFindAll, err)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Lecturers listed", zap.Int("count", len(lecturers)))
	return lecturers, nil
}

// Get returns the lecturer with id, or nil when there is none
func (s *LecturerService) Get(ctx context.Context, id lecturer.ID) (*lecturer.Lecturer, error) {
	found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.record(opFindByID, err)
		return nil, err
	}

	if found == nil {
		s.metrics.RecordStoreOperation(opFindByID, metrics.OutcomeNotFound)
		s.logger.WithLecturerID(id.String()).Debug("Lecturer not found")
		return nil, nil
	}

	s.record(opFindByID, nil)
	return found, nil
}

// Delete removes the lecturer with id. Deleting an absent id succeeds,
// including for repositories that report NOT_FOUND.
func (s *LecturerService) Delete(ctx context.Context, id lecturer.ID) error {
	err := s.repo.DeleteByID(ctx, id)
	if shared.IsNotFound(err) {
		s.metrics.RecordStoreOperation(opDeleteByID, metrics.OutcomeNotFound)
		s.logger.WithLecturerID(id.String()).Debug("Lecturer already absent")
		return nil
	}

	s.record(opDeleteByID, err)
	if err != nil {
		return err
	}

	s.logger.WithLecturerID(id.String()).Debug("Lecturer deleted")
	s.publish(ctx, id, cqrs.NewLecturerDeletedEvent(id))

	return nil
}

func (s *LecturerService) record(operation string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	s.metrics.RecordStoreOperation(operation, outcome)
}

// publish is best effort; the write already happened
func (s *LecturerService) publish(ctx context.Context, id lecturer.ID, event any) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithLecturerID(id.String()).Warn("Failed to publish lecturer event", zap.Error(err))
	}
}
