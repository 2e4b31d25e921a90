package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
	"github.com/danghamo/lecturer-service/internal/api/middleware"
	"github.com/danghamo/lecturer-service/internal/app/service"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/pkg/logger"
)

type testResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *jsonrpcx.Error `json:"error"`
	ID      any             `json:"id"`
}

func newTestService() (*service.LecturerService, *lecturer.MemoryRepository) {
	repo := lecturer.NewMemoryRepository()
	return service.NewLecturerService(repo, service.WithLogger(logger.NewNop())), repo
}

func call(t *testing.T, h http.HandlerFunc, method string, params any) testResponse {
	t.Helper()
	return callAs(t, nil, h, method, params)
}

// callAs runs the call as principal; nil sends no principal
func callAs(t *testing.T, principal *middleware.Principal, h http.HandlerFunc, method string, params any) testResponse {
	t.Helper()

	body := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		body["params"] = params
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/"+method, strings.NewReader(string(raw)))
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	}
	middleware.ErrorAdapter(logger.NewNop())(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLecturerHandlers_SaveGetListDelete(t *testing.T) {
	svc, repo := newTestService()
	queries := NewLecturerQueryHandler(logger.NewNop(), svc)
	commands := NewLecturerCommandHandler(logger.NewNop(), svc)

	resp := call(t, commands.Save, "lecturer.Save", map[string]any{
		"id":      "lec-1",
		"name":    "Ada Lovelace",
		"email":   "ada@example.com",
		"courses": []string{"c-1"},
	})
	require.Nil(t, resp.Error)

	var saved lecturer.Lecturer
	require.NoError(t, json.Unmarshal(resp.Result, &saved))
	assert.Equal(t, lecturer.ID("lec-1"), saved.ID)
	assert.Equal(t, []string{"c-1"}, saved.Courses)

	resp = call(t, queries.Get, "lecturer.Get", GetLecturerRequest{ID: "lec-1"})
	require.Nil(t, resp.Error)
	var got lecturer.Lecturer
	require.NoError(t, json.Unmarshal(resp.Result, &got))
	assert.Equal(t, "Ada Lovelace", got.Name)

	resp = call(t, queries.List, "lecturer.List", nil)
	require.Nil(t, resp.Error)
	var list ListLecturerResponse
	require.NoError(t, json.Unmarshal(resp.Result, &list))
	assert.Equal(t, 1, list.Total)

	resp = call(t, commands.Delete, "lecturer.Delete", DeleteLecturerRequest{ID: "lec-1"})
	require.Nil(t, resp.Error)
	assert.Equal(t, 0, repo.Len())

	// second delete of the same id still succeeds
	resp = call(t, commands.Delete, "lecturer.Delete", DeleteLecturerRequest{ID: "lec-1"})
	assert.Nil(t, resp.Error)
}

func TestLecturerHandlers_SaveAssignsID(t *testing.T) {
	svc, _ := newTestService()
	commands := NewLecturerCommandHandler(logger.NewNop(), svc)

	resp := call(t, commands.Save, "lecturer.Save", map[string]any{"name": "Grace"})
	require.Nil(t, resp.Error)

	var saved lecturer.Lecturer
	require.NoError(t, json.Unmarshal(resp.Result, &saved))
	assert.False(t, saved.ID.IsEmpty())
}

func TestLecturerQueryHandler_GetMissing(t *testing.T) {
	svc, _ := newTestService()
	queries := NewLecturerQueryHandler(logger.NewNop(), svc)

	resp := call(t, queries.Get, "lecturer.Get", GetLecturerRequest{ID: "nobody"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.LecturerNotFound, resp.Error.Code)
}

func TestLecturerHandlers_InvalidRequests(t *testing.T) {
	svc, _ := newTestService()
	queries := NewLecturerQueryHandler(logger.NewNop(), svc)
	commands := NewLecturerCommandHandler(logger.NewNop(), svc)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		params  any
		code    int
	}{
		{"get without params", queries.Get, nil, jsonrpcx.InvalidParams},
		{"get with empty id", queries.Get, GetLecturerRequest{}, jsonrpcx.InvalidParams},
		{"save with wrong type", commands.Save, map[string]any{"courses": "not-a-list"}, jsonrpcx.InvalidParams},
		{"delete with empty id", commands.Delete, DeleteLecturerRequest{}, jsonrpcx.InvalidParams},
		{"patch without patch", commands.Patch, map[string]any{"id": "x"}, jsonrpcx.InvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, tt.handler, "lecturer.Test", tt.params)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestLecturerHandlers_RejectsNonPost(t *testing.T) {
	svc, _ := newTestService()
	queries := NewLecturerQueryHandler(logger.NewNop(), svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lecturer.List", nil)
	middleware.ErrorAdapter(logger.NewNop())(http.HandlerFunc(queries.List)).ServeHTTP(rec, req)

	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.MethodNotFound, resp.Error.Code)
}

func TestLecturerCommandHandler_Patch(t *testing.T) {
	svc, repo := newTestService()
	commands := NewLecturerCommandHandler(logger.NewNop(), svc)

	_, err := repo.Save(context.Background(), &lecturer.Lecturer{
		ID:          "lec-1",
		Name:        "Ada",
		Email:       "ada@example.com",
		Bio:         "Analyst",
		SocialMedia: []string{"https://example.com/ada"},
	})
	require.NoError(t, err)

	resp := call(t, commands.Patch, "lecturer.Patch", map[string]any{
		"id": "lec-1",
		"patch": map[string]any{
			"id":   "hijacked",
			"name": "Ada Lovelace",
			"bio":  nil,
		},
	})
	require.Nil(t, resp.Error)

	stored, err := repo.FindByID(context.Background(), "lec-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Ada Lovelace", stored.Name)
	assert.Equal(t, "ada@example.com", stored.Email)
	assert.Empty(t, stored.Bio)
	assert.Equal(t, []string{"https://example.com/ada"}, stored.SocialMedia)

	missing, err := repo.FindByID(context.Background(), "hijacked")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLecturerCommandHandler_PatchMissing(t *testing.T) {
	svc, _ := newTestService()
	commands := NewLecturerCommandHandler(logger.NewNop(), svc)

	resp := call(t, commands.Patch, "lecturer.Patch", map[string]any{
		"id":    "nobody",
		"patch": map[string]any{"name": "x"},
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.LecturerNotFound, resp.Error.Code)
}

type failingService struct {
	err error
}

func (f failingService) Upsert(context.Context, *lecturer.Lecturer) (*lecturer.Lecturer, error) {
	return nil, f.err
}
func (f failingService) ListAll(context.Context) ([]*lecturer.Lecturer, error) { return nil, f.err }
func (f failingService) Get(context.Context, lecturer.ID) (*lecturer.Lecturer, error) {
	return nil, f.err
}
func (f failingService) Delete(context.Context, lecturer.ID) error { return f.err }

func TestLecturerHandlers_StoreFailure(t *testing.T) {
	svc := failingService{err: errors.New("connection refused")}
	queries := NewLecturerQueryHandler(logger.NewNop(), svc)
	commands := NewLecturerCommandHandler(logger.NewNop(), svc)

	resp := call(t, queries.List, "lecturer.List", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.InternalError, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection refused")

	resp = call(t, commands.Save, "lecturer.Save", map[string]any{"id": "x"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.InternalError, resp.Error.Code)
}

func TestServerHandler_Info(t *testing.T) {
	h := NewServerHandler("1.0.0", "development", "memory", false)

	resp := call(t, h.Info, "server.Info", nil)
	require.Nil(t, resp.Error)

	var info ServerInfoResponse
	require.NoError(t, json.Unmarshal(resp.Result, &info))
	assert.Equal(t, "lecturer-service", info.Service)
	assert.Equal(t, "memory", info.StorageDriver)
}

func TestLecturerCommandHandler_LecturerOwnsRecord(t *testing.T) {
	svc, repo := newTestService()
	commands := NewLecturerCommandHandler(logger.NewNop(), svc)
	ctx := context.Background()

	for _, id := range []lecturer.ID{"lec-A", "lec-B"} {
		_, err := repo.Save(ctx, &lecturer.Lecturer{ID: id, Name: string(id)})
		require.NoError(t, err)
	}

	lecturerA := &middleware.Principal{Subject: "lec-A", Role: middleware.RoleLecturer, Method: "jwt"}

	rejected := []struct {
		name    string
		handler http.HandlerFunc
		params  any
	}{
		{"save foreign", commands.Save, map[string]any{"id": "lec-B", "name": "taken over"}},
		{"save without id", commands.Save, map[string]any{"name": "new"}},
		{"patch foreign", commands.Patch, map[string]any{"id": "lec-B", "patch": map[string]any{"name": "x"}}},
		{"delete foreign", commands.Delete, DeleteLecturerRequest{ID: "lec-B"}},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			resp := callAs(t, lecturerA, tt.handler, "lecturer.Test", tt.params)
			require.NotNil(t, resp.Error)
			assert.Equal(t, jsonrpcx.Unauthorized, resp.Error.Code)
		})
	}

	other, err := repo.FindByID(ctx, "lec-B")
	require.NoError(t, err)
	assert.Equal(t, "lec-B", other.Name)
	assert.Equal(t, 2, repo.Len())

	resp := callAs(t, lecturerA, commands.Patch, "lecturer.Patch", map[string]any{
		"id":    "lec-A",
		"patch": map[string]any{"bio": "mine"},
	})
	require.Nil(t, resp.Error)

	admin := &middleware.Principal{Subject: "ops", Role: middleware.RoleAdmin, Method: "jwt"}
	resp = callAs(t, admin, commands.Delete, "lecturer.Delete", DeleteLecturerRequest{ID: "lec-B"})
	require.Nil(t, resp.Error)
	assert.Equal(t, 1, repo.Len())
}
