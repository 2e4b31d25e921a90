package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danghamo/lecturer-service/internal/api/jsonrpcx"
	"github.com/danghamo/lecturer-service/internal/api/middleware"
	"github.com/danghamo/lecturer-service/internal/app/service"
	"github.com/danghamo/lecturer-service/internal/cqrs"
	cqrshandlers "github.com/danghamo/lecturer-service/internal/cqrs/handlers"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/metrics"
	"github.com/danghamo/lecturer-service/pkg/logger"
	"github.com/danghamo/lecturer-service/pkg/sse"
)

const testAPIKey = "test-gateway-key"

type testEnv struct {
	server *Server
	repo   *lecturer.MemoryRepository
	jwt    *middleware.JWTService
}

func newTestEnv(t *testing.T, store lecturer.Repository, bus *cqrs.Bus) *testEnv {
	t.Helper()
	log := logger.NewNop()

	repo := lecturer.NewMemoryRepository()
	if store == nil {
		store = repo
	}

	m := metrics.New()
	opts := []service.Option{service.WithLogger(log), service.WithMetrics(m)}
	if bus != nil {
		opts = append(opts, service.WithEventPublisher(bus))
	}

	jwtService := middleware.NewJWTService("test-secret-value", "lms-auth")
	broadcaster := sse.NewBroadcaster(log, sse.WithHeartbeat(time.Hour))
	t.Cleanup(broadcaster.Close)

	srv, err := NewServer(ServerConfig{
		Port:          8080,
		Host:          "127.0.0.1",
		StorageDriver: "memory",
		CORS:          middleware.CORSConfig{AllowedOrigins: []string{"*"}},
	}, Dependencies{
		Service:     service.NewLecturerService(store, opts...),
		Store:       store,
		Auth:        middleware.NewAuthMiddleware(testAPIKey, jwtService, log),
		Broadcaster: broadcaster,
		Metrics:     m,
		Bus:         bus,
	}, log)
	require.NoError(t, err)

	return &testEnv{server: srv, repo: repo, jwt: jwtService}
}

func (e *testEnv) rpc(t *testing.T, method string, params any, header http.Header) jsonrpcx.Response {
	t.Helper()

	body, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "method": method, "params": params, "id": 7})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/"+method, strings.NewReader(string(body)))
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp jsonrpcx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func apiKeyHeader() http.Header {
	return http.Header{http.CanonicalHeaderKey(middleware.APIKeyHeader): {testAPIKey}}
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(ServerConfig{}, Dependencies{}, logger.NewNop())
	assert.Error(t, err)
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","checks":{"store":{"status":"up","driver":"memory"}}}`, rec.Body.String())
}

type downStore struct {
	*lecturer.MemoryRepository
}

func (downStore) HealthCheck(context.Context) error {
	return errors.New("dial tcp: connection refused")
}

func TestServer_HealthReportsStoreDown(t *testing.T) {
	env := newTestEnv(t, downStore{lecturer.NewMemoryRepository()}, nil)

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unhealthy"`)
}

func TestServer_CommandsRequireAuth(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.rpc(t, "lecturer.Save", map[string]any{"id": "lec-1", "name": "Ada"}, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.Unauthorized, resp.Error.Code)
	assert.Equal(t, 0, env.repo.Len())

	resp = env.rpc(t, "lecturer.Save", map[string]any{"id": "lec-1", "name": "Ada"}, apiKeyHeader())
	require.Nil(t, resp.Error)
	assert.Equal(t, 1, env.repo.Len())

	// queries are public
	resp = env.rpc(t, "lecturer.Get", map[string]any{"id": "lec-1"}, nil)
	require.Nil(t, resp.Error)
}

func TestServer_BearerTokenRoles(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	token, err := env.jwt.GenerateToken("user-1", middleware.RoleLecturer, time.Minute)
	require.NoError(t, err)
	resp := env.rpc(t, "lecturer.Save", map[string]any{"id": "user-1", "name": "Grace"}, http.Header{"Authorization": {"Bearer " + token}})
	assert.Nil(t, resp.Error)

	token, err = env.jwt.GenerateToken("user-2", "student", time.Minute)
	require.NoError(t, err)
	resp = env.rpc(t, "lecturer.Delete", map[string]any{"id": "x"}, http.Header{"Authorization": {"Bearer " + token}})
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.Unauthorized, resp.Error.Code)
}

func TestServer_LecturerCannotDeleteAnotherLecturer(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	for _, id := range []lecturer.ID{"lec-A", "lec-B"} {
		_, err := env.repo.Save(context.Background(), &lecturer.Lecturer{ID: id, Name: string(id)})
		require.NoError(t, err)
	}

	token, err := env.jwt.GenerateToken("lec-A", middleware.RoleLecturer, time.Minute)
	require.NoError(t, err)
	bearer := http.Header{"Authorization": {"Bearer " + token}}

	resp := env.rpc(t, "lecturer.Delete", map[string]any{"id": "lec-B"}, bearer)
	require.NotNil(t, resp.Error)
	assert.Equal(t, jsonrpcx.Unauthorized, resp.Error.Code)
	assert.Equal(t, 2, env.repo.Len())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/lecturer/delete/lec-B", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 2, env.repo.Len())

	resp = env.rpc(t, "lecturer.Delete", map[string]any{"id": "lec-A"}, bearer)
	require.Nil(t, resp.Error)
	assert.Equal(t, 1, env.repo.Len())

	// the gateway key is not bound to a record
	resp = env.rpc(t, "lecturer.Delete", map[string]any{"id": "lec-B"}, apiKeyHeader())
	require.Nil(t, resp.Error)
	assert.Equal(t, 0, env.repo.Len())
}

func TestServer_RESTRoutes(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	h := env.server.Handler()

	body := `{"_id":"665f","name":"Ada","email":"ada@example.com","courses":[],"socialMedia":[]}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transferlecturer", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/transferlecturer", strings.NewReader(body))
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lecturer/get/665f", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"_id":"665f"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lecturer/get/unknown", nil))
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestServer_Metrics(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	h := env.server.Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/lecturer/all", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lecturer_http_requests_total")
	assert.Contains(t, rec.Body.String(), `lecturer_store_operations_total{operation="find_all",outcome="success"} 1`)
}

func TestServer_ServerInfo(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	resp := env.rpc(t, "server.Info", map[string]any{}, nil)
	require.Nil(t, resp.Error)

	info, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "memory", info["storage_driver"])
}

func TestServer_StreamsLecturerChanges(t *testing.T) {
	log := logger.NewNop()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, cqrs.NewWatermillLogger(log))
	t.Cleanup(func() { _ = pubSub.Close() })

	bus, err := cqrs.NewBus(pubSub, pubSub, cqrs.BusConfig{TopicPrefix: "lecturer-test"}, log)
	require.NoError(t, err)

	env := newTestEnv(t, nil, bus)
	require.NoError(t, bus.AddHandlers(cqrshandlers.NewSSEEventHandler(env.server.deps.Broadcaster, log).EventHandlers()...))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
	})
	go func() { _ = bus.Run(ctx) }()
	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("event router did not start")
	}

	ts := httptest.NewServer(env.server.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/api/v1/stream/lecturers")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	frames := make(chan string, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if data, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
				frames <- data
			}
		}
	}()

	select {
	case frame := <-frames:
		assert.Contains(t, frame, `"connected"`)
	case <-time.After(5 * time.Second):
		t.Fatal("no connected frame")
	}

	rpcResp := env.rpc(t, "lecturer.Save", map[string]any{"id": "lec-9", "name": "Ada"}, apiKeyHeader())
	require.Nil(t, rpcResp.Error)

	select {
	case frame := <-frames:
		var notification struct {
			Method string         `json:"method"`
			Params map[string]any `json:"params"`
		}
		require.NoError(t, json.Unmarshal([]byte(frame), &notification))
		assert.Equal(t, cqrshandlers.MethodLecturerSaved, notification.Method)
		assert.Equal(t, "lec-9", notification.Params["id"])
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}
