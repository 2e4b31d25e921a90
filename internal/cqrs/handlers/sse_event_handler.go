package handlers

import (
	"context"
	"time"

	wmcqrs "github.com/ThreeDotsLabs/watermill/components/cqrs"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
	cqrsevents "github.com/danghamo/lecturer-service/internal/cqrs"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// Notification methods pushed to stream subscribers
const (
	MethodLecturerSaved   = "lecturer.saved"
	MethodLecturerDeleted = "lecturer.deleted"
)

// SSEBroadcaster interface for broadcasting SSE messages
type SSEBroadcaster interface {
	BroadcastToAll(message any)
}

// SSEEventHandler turns lecturer events into JSON-RPC notifications for SSE clients
type SSEEventHandler struct {
	sseBroadcaster SSEBroadcaster
	logger         *logger.Logger
}

// NewSSEEventHandler creates a new SSE event handler
func NewSSEEventHandler(sseBroadcaster SSEBroadcaster, logger *logger.Logger) *SSEEventHandler {
	return &SSEEventHandler{
		sseBroadcaster: sseBroadcaster,
		logger:         logger.WithComponent("sse-event-handler"),
	}
}

// EventHandlers returns the watermill handlers to register on the event processor
func (h *SSEEventHandler) EventHandlers() []wmcqrs.EventHandler {
	return []wmcqrs.EventHandler{
		wmcqrs.NewEventHandler("LecturerSavedSSEHandler", h.HandleLecturerSavedEvent),
		wmcqrs.NewEventHandler("LecturerDeletedSSEHandler", h.HandleLecturerDeletedEvent),
	}
}

// HandleLecturerSavedEvent broadcasts the saved record to every subscriber
func (h *SSEEventHandler) HandleLecturerSavedEvent(ctx context.Context, event *cqrsevents.LecturerSavedEvent) error {
	h.logger.Debug("Handling lecturer saved event",
		zap.String("lecturerId", event.LecturerID),
		zap.String("requestId", event.RequestID))

	h.sseBroadcaster.BroadcastToAll(jsonrpcx.NewNotification(MethodLecturerSaved, map[string]interface{}{
		"id":         event.LecturerID,
		"lecturer":   event.Lecturer,
		"timestamp":  event.Timestamp.Format(time.RFC3339),
		"request_id": event.RequestID,
	}))

	return nil
}

// HandleLecturerDeletedEvent broadcasts the removed id to every subscriber
func (h *SSEEventHandler) HandleLecturerDeletedEvent(ctx context.Context, event *cqrsevents.LecturerDeletedEvent) error {
	h.logger.Debug("Handling lecturer deleted event",
		zap.String("lecturerId", event.LecturerID),
		zap.String("requestId", event.RequestID))

	h.sseBroadcaster.BroadcastToAll(jsonrpcx.NewNotification(MethodLecturerDeleted, map[string]interface{}{
		"id":         event.LecturerID,
		"timestamp":  event.Timestamp.Format(time.RFC3339),
		"request_id": event.RequestID,
	}))

	return nil
}
