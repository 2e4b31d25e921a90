package cqrs

import (
	"time"

	"github.com/google/uuid"

	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
)

// LecturerSavedEvent is published after a lecturer was created or replaced
type LecturerSavedEvent struct {
	LecturerID string             `json:"lecturer_id"`
	Lecturer   *lecturer.Lecturer `json:"lecturer"`
	Timestamp  time.Time          `json:"timestamp"`
	RequestID  string             `json:"request_id"`
}

// LecturerDeletedEvent is published after a delete-by-id completed
type LecturerDeletedEvent struct {
	LecturerID string    `json:"lecturer_id"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id"`
}

// NewLecturerSavedEvent snapshots l so later mutations by the caller don't leak into the event
func NewLecturerSavedEvent(l *lecturer.Lecturer) *LecturerSavedEvent {
	return &LecturerSavedEvent{
		LecturerID: l.ID.String(),
		Lecturer:   l.Clone(),
		Timestamp:  time.Now().UTC(),
		RequestID:  uuid.New().String(),
	}
}

func NewLecturerDeletedEvent(id lecturer.ID) *LecturerDeletedEvent {
	return &LecturerDeletedEvent{
		LecturerID: id.String(),
		Timestamp:  time.Now().UTC(),
		RequestID:  uuid.New().String(),
	}
}
