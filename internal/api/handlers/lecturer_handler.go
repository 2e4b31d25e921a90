package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/domain/shared"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// LecturerService is the application service the handlers drive
type LecturerService interface {
	Upsert(ctx context.Context, l *lecturer.Lecturer) (*lecturer.Lecturer, error)
	ListAll(ctx context.Context) ([]*lecturer.Lecturer, error)
	Get(ctx context.Context, id lecturer.ID) (*lecturer.Lecturer, error)
	Delete(ctx context.Context, id lecturer.ID) error
}

// Request parameter structures
type GetLecturerRequest struct {
	ID string `json:"id" example:"6650f1c2a1b2c3d4e5f60718"`
}

type ListLecturerRequest struct{}

type SaveLecturerRequest = lecturer.Lecturer

type PatchLecturerRequest struct {
	ID string `json:"id" example:"6650f1c2a1b2c3d4e5f60718"`
	// Patch is an RFC 7386 merge patch applied to the stored record
	Patch map[string]interface{} `json:"patch" swaggertype:"object"`
}

type DeleteLecturerRequest struct {
	ID string `json:"id" example:"6650f1c2a1b2c3d4e5f60718"`
}

// Response structures for Swagger documentation
type GetLecturerResponse = lecturer.Lecturer
type SaveLecturerResponse = lecturer.Lecturer

type ListLecturerResponse struct {
	Lecturers []*lecturer.Lecturer `json:"lecturers"`
	Total     int                  `json:"total"`
}

type DeleteLecturerResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// parseCall checks the HTTP method, parses the envelope and decodes params.
// On failure the JSON-RPC error is already attached to r.
func parseCall(r *http.Request, params any) (*jsonrpcx.Request, bool) {
	if r.Method != http.MethodPost {
		jsonrpcx.WithError(r, nil, jsonrpcx.MethodNotFound, "Method not allowed")
		return nil, false
	}

	req, err := jsonrpcx.ParseRequest(r)
	if err != nil {
		jsonrpcx.WithError(r, nil, jsonrpcx.ParseError, "Invalid JSON-RPC request")
		return nil, false
	}

	if params != nil {
		if err := req.DecodeParams(params); err != nil {
			jsonrpcx.WithError(r, req.ID, jsonrpcx.InvalidParams, "Invalid params")
			return nil, false
		}
	}

	return req, true
}

// writeServiceError maps domain error codes onto JSON-RPC codes
func writeServiceError(r *http.Request, log *logger.Logger, id any, err error, message string) {
	switch shared.ErrorCode(err) {
	case shared.ErrCodeInvalidInput:
		jsonrpcx.WithError(r, id, jsonrpcx.InvalidParams, err.Error())
	case shared.ErrCodeNotFound:
		jsonrpcx.WithError(r, id, jsonrpcx.LecturerNotFound, "Lecturer not found")
	default:
		log.Error(message, zap.Error(err))
		jsonrpcx.WithError(r, id, jsonrpcx.InternalError, message)
	}
}
