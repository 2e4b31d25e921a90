package handlers

import (
	"encoding/json"
	"net/http"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
	"github.com/danghamo/lecturer-service/internal/api/middleware"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// LecturerCommandHandler serves the lecturer methods that modify state
type LecturerCommandHandler struct {
	logger  *logger.Logger
	service LecturerService
}

// NewLecturerCommandHandler creates a new lecturer command handler
func NewLecturerCommandHandler(logger *logger.Logger, service LecturerService) *LecturerCommandHandler {
	return &LecturerCommandHandler{
		logger:  logger.WithComponent("lecturer-command-handler"),
		service: service,
	}
}

func (h *LecturerCommandHandler) requestLogger(r *http.Request) *logger.Logger {
	l := h.logger.WithRequestID(middleware.GetRequestID(r.Context()))
	if principal, ok := middleware.GetPrincipal(r.Context()); ok {
		l = l.WithField("subject", principal.Subject)
	}
	return l
}

// authorize rejects writes by a lecturer to another lecturer's record
func (h *LecturerCommandHandler) authorize(r *http.Request, id any, target string) bool {
	if err := middleware.AuthorizeTarget(r.Context(), target); err != nil {
		h.requestLogger(r).Warn("Write to foreign lecturer record rejected",
			zap.String("target", target))
		jsonrpcx.WithError(r, id, jsonrpcx.Unauthorized, "Not allowed to modify this lecturer")
		return false
	}
	return true
}

// HandleSave handles POST /api/v1/lecturer.Save
// @Summary Create or replace a lecturer
// @Description Upsert by id; a lecturer without an id gets a generated one
// @Tags lecturer
// @Accept json
// @Produce json
// @Param request body jsonrpcx.RequestT[SaveLecturerRequest] true "JSON-RPC request"
// @Success 200 {object} jsonrpcx.ResponseT[SaveLecturerResponse] "Stored lecturer"
// @Failure 400 {object} jsonrpcx.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} jsonrpcx.ErrorResponse "Authentication required, or a lecturer targeting another record"
// @Failure 500 {object} jsonrpcx.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /api/v1/lecturer.Save [post]
func (h *LecturerCommandHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var params SaveLecturerRequest
	req, ok := parseCall(r, &params)
	if !ok {
		return
	}

	if !h.authorize(r, req.ID, params.ID.String()) {
		return
	}

	saved, err := h.service.Upsert(r.Context(), &params)
	if err != nil {
		writeServiceError(r, h.requestLogger(r), req.ID, err, "Failed to save lecturer")
		return
	}

	h.requestLogger(r).WithLecturerID(saved.ID.String()).Info("Lecturer saved")
	jsonrpcx.Success(w, req.ID, saved)
}

// HandlePatch handles POST /api/v1/lecturer.Patch
// @Summary Partially update a lecturer
// @Description Apply an RFC 7386 merge patch to the stored lecturer; the id cannot be changed
// @Tags lecturer
// @Accept json
// @Produce json
// @Param request body jsonrpcx.RequestT[PatchLecturerRequest] true "JSON-RPC request"
// @Success 200 {object} jsonrpcx.ResponseT[SaveLecturerResponse] "Patched lecturer"
// @Failure 400 {object} jsonrpcx.ErrorResponse "Invalid params or lecturer not found"
// @Failure 401 {object} jsonrpcx.ErrorResponse "Authentication required, or a lecturer targeting another record"
// @Failure 500 {object} jsonrpcx.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /api/v1/lecturer.Patch [post]
func (h *LecturerCommandHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var params PatchLecturerRequest
	req, ok := parseCall(r, &params)
	if !ok {
		return
	}

	if params.ID == "" || params.Patch == nil {
		jsonrpcx.WithError(r, req.ID, jsonrpcx.InvalidParams, "id and patch are required")
		return
	}

	if !h.authorize(r, req.ID, params.ID) {
		return
	}

	current, err := h.service.Get(r.Context(), lecturer.ID(params.ID))
	if err != nil {
		writeServiceError(r, h.requestLogger(r), req.ID, err, "Failed to load lecturer")
		return
	}
	if current == nil {
		jsonrpcx.WithError(r, req.ID, jsonrpcx.LecturerNotFound, "Lecturer not found")
		return
	}

	patched, err := applyMergePatch(current, params.Patch)
	if err != nil {
		jsonrpcx.WithError(r, req.ID, jsonrpcx.InvalidParams, "Invalid patch")
		return
	}

	saved, err := h.service.Upsert(r.Context(), patched)
	if err != nil {
		writeServiceError(r, h.requestLogger(r), req.ID, err, "Failed to save lecturer")
		return
	}

	h.requestLogger(r).WithLecturerID(saved.ID.String()).Info("Lecturer patched",
		zap.Int("patched_fields", len(params.Patch)))
	jsonrpcx.Success(w, req.ID, saved)
}

// applyMergePatch merges patch into current. The id always stays current's.
func applyMergePatch(current *lecturer.Lecturer, patch map[string]interface{}) (*lecturer.Lecturer, error) {
	original, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	patchDoc, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}

	merged, err := jsonpatch.MergePatch(original, patchDoc)
	if err != nil {
		return nil, err
	}

	var patched lecturer.Lecturer
	if err := json.Unmarshal(merged, &patched); err != nil {
		return nil, err
	}
	patched.ID = current.ID

	return &patched, nil
}

// HandleDelete handles POST /api/v1/lecturer.Delete
// @Summary Delete a lecturer
// @Description Remove a lecturer by id; deleting an absent id succeeds
// @Tags lecturer
// @Accept json
// @Produce json
// @Param request body jsonrpcx.RequestT[DeleteLecturerRequest] true "JSON-RPC request"
// @Success 200 {object} jsonrpcx.ResponseT[DeleteLecturerResponse] "Deletion acknowledged"
// @Failure 400 {object} jsonrpcx.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} jsonrpcx.ErrorResponse "Authentication required, or a lecturer targeting another record"
// @Failure 500 {object} jsonrpcx.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /api/v1/lecturer.Delete [post]
func (h *LecturerCommandHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var params DeleteLecturerRequest
	req, ok := parseCall(r, &params)
	if !ok {
		return
	}

	if params.ID == "" {
		jsonrpcx.WithError(r, req.ID, jsonrpcx.InvalidParams, "id is required")
		return
	}

	if !h.authorize(r, req.ID, params.ID) {
		return
	}

	if err := h.service.Delete(r.Context(), lecturer.ID(params.ID)); err != nil {
		writeServiceError(r, h.requestLogger(r), req.ID, err, "Failed to delete lecturer")
		return
	}

	h.requestLogger(r).WithLecturerID(params.ID).Info("Lecturer deleted")
	jsonrpcx.Success(w, req.ID, DeleteLecturerResponse{ID: params.ID, Deleted: true})
}

// === AutoRouter Compatible Methods ===

// Save handles lecturer upsert (autorouter compatible)
func (h *LecturerCommandHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.HandleSave(w, r)
}

// Patch handles lecturer merge patch (autorouter compatible)
func (h *LecturerCommandHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.HandlePatch(w, r)
}

// Delete handles lecturer removal (autorouter compatible)
func (h *LecturerCommandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.HandleDelete(w, r)
}
