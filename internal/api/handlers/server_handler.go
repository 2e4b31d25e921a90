package handlers

import (
	"net/http"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
)

// ServerHandler handles server information requests
type ServerHandler struct {
	info ServerInfoResponse
}

// NewServerHandler creates a new server handler
func NewServerHandler(version, environment, storageDriver string, eventsEnabled bool) *ServerHandler {
	return &ServerHandler{
		info: ServerInfoResponse{
			Service:       "lecturer-service",
			Version:       version,
			Environment:   environment,
			StorageDriver: storageDriver,
			EventsEnabled: eventsEnabled,
		},
	}
}

// ServerInfoResponse represents server information
type ServerInfoResponse struct {
	Service       string `json:"service"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	StorageDriver string `json:"storage_driver"`
	EventsEnabled bool   `json:"events_enabled"`
}

// HandleServerInfo handles POST /api/v1/server.Info
// @Summary Server information
// @Tags server
// @Accept json
// @Produce json
// @Param request body jsonrpcx.RequestT[map[string]interface{}] true "JSON-RPC request"
// @Success 200 {object} jsonrpcx.ResponseT[ServerInfoResponse]
// @Router /api/v1/server.Info [post]
func (h *ServerHandler) HandleServerInfo(w http.ResponseWriter, r *http.Request) {
	req, ok := parseCall(r, nil)
	if !ok {
		return
	}

	jsonrpcx.Success(w, req.ID, h.info)
}

// === AutoRouter Compatible Methods ===

// Info handles server info retrieval (autorouter compatible)
func (h *ServerHandler) Info(w http.ResponseWriter, r *http.Request) {
	h.HandleServerInfo(w, r)
}
