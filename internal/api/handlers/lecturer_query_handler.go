package handlers

import (
	"net/http"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// LecturerQueryHandler serves the read-only lecturer methods
type LecturerQueryHandler struct {
	logger  *logger.Logger
	service LecturerService
}

// NewLecturerQueryHandler creates a new lecturer query handler
func NewLecturerQueryHandler(logger *logger.Logger, service LecturerService) *LecturerQueryHandler {
	return &LecturerQueryHandler{
		logger:  logger.WithComponent("lecturer-query-handler"),
		service: service,
	}
}

// HandleList handles POST /api/v1/lecturer.List
// @Summary List lecturers
// @Description Return every stored lecturer
// @Tags lecturer
// @Accept json
// @Produce json
// @Param request body jsonrpcx.RequestT[ListLecturerRequest] true "JSON-RPC request"
// @Success 200 {object} jsonrpcx.ResponseT[ListLecturerResponse] "All lecturers"
// @Failure 500 {object} jsonrpcx.ErrorResponse "Internal server error"
// @Router /api/v1/lecturer.List [post]
func (h *LecturerQueryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	req, ok := parseCall(r, nil)
	if !ok {
		return
	}

	lecturers, err := h.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(r, h.logger, req.ID, err, "Failed to list lecturers")
		return
	}

	jsonrpcx.Success(w, req.ID, ListLecturerResponse{
		Lecturers: lecturers,
		Total:     len(lecturers),
	})
}

// HandleGet handles POST /api/v1/lecturer.Get
// @Summary Get a lecturer
// @Description Return one lecturer by id; an absent id yields a LecturerNotFound (-32004) error
// @Tags lecturer
// @Accept json
// @Produce json
// @Param request body jsonrpcx.RequestT[GetLecturerRequest] true "JSON-RPC request"
// @Success 200 {object} jsonrpcx.ResponseT[GetLecturerResponse] "Lecturer"
// @Failure 400 {object} jsonrpcx.ErrorResponse "Invalid params or lecturer not found"
// @Failure 500 {object} jsonrpcx.ErrorResponse "Internal server error"
// @Router /api/v1/lecturer.Get [post]
func (h *LecturerQueryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	var params GetLecturerRequest
	req, ok := parseCall(r, &params)
	if !ok {
		return
	}

	if params.ID == "" {
		jsonrpcx.WithError(r, req.ID, jsonrpcx.InvalidParams, "id is required")
		return
	}

	found, err := h.service.Get(r.Context(), lecturer.ID(params.ID))
	if err != nil {
		writeServiceError(r, h.logger, req.ID, err, "Failed to get lecturer")
		return
	}
	if found == nil {
		jsonrpcx.WithError(r, req.ID, jsonrpcx.LecturerNotFound, "Lecturer not found")
		return
	}

	jsonrpcx.Success(w, req.ID, found)
}

// === AutoRouter Compatible Methods ===

// List handles lecturer listing (autorouter compatible)
func (h *LecturerQueryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.HandleList(w, r)
}

// Get handles lecturer lookup (autorouter compatible)
func (h *LecturerQueryHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.HandleGet(w, r)
}
