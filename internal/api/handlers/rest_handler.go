package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/danghamo/lecturer-service/internal/api/middleware"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/domain/shared"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

// LegacyLecturer is the document shape the LMS gateway, auth-service and
// course SPA exchange with the lecturer service
type LegacyLecturer struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	ProfilePic  string   `json:"ppic,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Courses     []string `json:"courses"`
	SocialMedia []string `json:"socialMedia"`
}

// toLegacy converts a stored lecturer; nil stays nil so absent records encode as null
func toLegacy(l *lecturer.Lecturer) *LegacyLecturer {
	if l == nil {
		return nil
	}
	out := &LegacyLecturer{
		ID:          l.ID.String(),
		Name:        l.Name,
		Email:       l.Email,
		ProfilePic:  l.ProfilePic,
		Bio:         l.Bio,
		Courses:     l.Courses,
		SocialMedia: l.SocialMedia,
	}
	if out.Courses == nil {
		out.Courses = []string{}
	}
	if out.SocialMedia == nil {
		out.SocialMedia = []string{}
	}
	return out
}

func (ll *LegacyLecturer) toDomain() *lecturer.Lecturer {
	return &lecturer.Lecturer{
		ID:          lecturer.ID(ll.ID),
		Name:        ll.Name,
		Email:       ll.Email,
		ProfilePic:  ll.ProfilePic,
		Bio:         ll.Bio,
		Courses:     ll.Courses,
		SocialMedia: ll.SocialMedia,
	}
}

// RESTError is the body of a failed REST call
type RESTError struct {
	Error string `json:"error"`
}

// RESTHandler serves the plain REST routes used by the existing LMS gateway
// and auth-service
type RESTHandler struct {
	logger  *logger.Logger
	service LecturerService
}

// NewRESTHandler creates a new REST compatibility handler
func NewRESTHandler(logger *logger.Logger, service LecturerService) *RESTHandler {
	return &RESTHandler{
		logger:  logger.WithComponent("lecturer-rest-handler"),
		service: service,
	}
}

// Register mounts the REST routes on mux. Write routes are wrapped with auth.
func (h *RESTHandler) Register(mux *http.ServeMux, auth func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/v1/lecturer/all", h.HandleGetAll)
	mux.HandleFunc("GET /api/v1/lecturer/get/{id}", h.HandleGetByID)
	mux.Handle("POST /transferlecturer", auth(http.HandlerFunc(h.HandleTransfer)))
	mux.Handle("DELETE /api/v1/lecturer/delete/{id}", auth(http.HandlerFunc(h.HandleDeleteByID)))
}

// HandleGetAll handles GET /api/v1/lecturer/all
// @Summary List lecturers (REST)
// @Tags lecturer-rest
// @Produce json
// @Success 200 {array} LegacyLecturer
// @Failure 500 {object} RESTError
// @Router /api/v1/lecturer/all [get]
func (h *RESTHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	lecturers, err := h.service.ListAll(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to list lecturers")
		return
	}

	out := make([]*LegacyLecturer, 0, len(lecturers))
	for _, l := range lecturers {
		out = append(out, toLegacy(l))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetByID handles GET /api/v1/lecturer/get/{id}
// @Summary Get a lecturer (REST)
// @Description Responds 200 with the lecturer, or 200 with null when the id is unknown
// @Tags lecturer-rest
// @Produce json
// @Param id path string true "Lecturer id"
// @Success 200 {object} LegacyLecturer
// @Failure 500 {object} RESTError
// @Router /api/v1/lecturer/get/{id} [get]
func (h *RESTHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), lecturer.ID(r.PathValue("id")))
	if err != nil {
		h.writeError(w, r, err, "Failed to get lecturer")
		return
	}
	writeJSON(w, http.StatusOK, toLegacy(found))
}

// HandleTransfer handles POST /transferlecturer
// @Summary Upsert a lecturer (REST)
// @Description Called by the auth-service when a lecturer account is created
// @Tags lecturer-rest
// @Accept json
// @Produce json
// @Param lecturer body LegacyLecturer true "Lecturer document"
// @Success 200 {object} LegacyLecturer
// @Failure 400 {object} RESTError
// @Failure 401 {object} RESTError
// @Failure 403 {object} RESTError
// @Failure 500 {object} RESTError
// @Security ApiKeyAuth
// @Router /transferlecturer [post]
func (h *RESTHandler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	var body LegacyLecturer
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, RESTError{Error: "invalid lecturer document"})
		return
	}

	if !h.authorize(w, r, body.ID) {
		return
	}

	saved, err := h.service.Upsert(r.Context(), body.toDomain())
	if err != nil {
		h.writeError(w, r, err, "Failed to save lecturer")
		return
	}
	writeJSON(w, http.StatusOK, toLegacy(saved))
}

// HandleDeleteByID handles DELETE /api/v1/lecturer/delete/{id}
// @Summary Delete a lecturer (REST)
// @Tags lecturer-rest
// @Param id path string true "Lecturer id"
// @Success 204
// @Failure 401 {object} RESTError
// @Failure 403 {object} RESTError
// @Failure 500 {object} RESTError
// @Security ApiKeyAuth
// @Router /api/v1/lecturer/delete/{id} [delete]
func (h *RESTHandler) HandleDeleteByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !h.authorize(w, r, id) {
		return
	}

	if err := h.service.Delete(r.Context(), lecturer.ID(id)); err != nil {
		h.writeError(w, r, err, "Failed to delete lecturer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorize answers 403 when a lecturer targets another lecturer's record
func (h *RESTHandler) authorize(w http.ResponseWriter, r *http.Request, target string) bool {
	if err := middleware.AuthorizeTarget(r.Context(), target); err != nil {
		h.logger.WithRequestID(middleware.GetRequestID(r.Context())).Warn("Write to foreign lecturer record rejected",
			zap.String("target", target))
		writeJSON(w, http.StatusForbidden, RESTError{Error: err.Error()})
		return false
	}
	return true
}

func (h *RESTHandler) writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if shared.ErrorCode(err) == shared.ErrCodeInvalidInput {
		writeJSON(w, http.StatusBadRequest, RESTError{Error: err.Error()})
		return
	}

	h.logger.WithRequestID(middleware.GetRequestID(r.Context())).Error(message, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, RESTError{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
