package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/danghamo/lecturer-service/docs"
	"github.com/danghamo/lecturer-service/internal/api/handlers"
	"github.com/danghamo/lecturer-service/internal/api/middleware"
	"github.com/danghamo/lecturer-service/internal/cqrs"
	"github.com/danghamo/lecturer-service/internal/domain/lecturer"
	"github.com/danghamo/lecturer-service/internal/metrics"
	"github.com/danghamo/lecturer-service/pkg/autorouter"
	"github.com/danghamo/lecturer-service/pkg/logger"
	"github.com/danghamo/lecturer-service/pkg/sse"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	logger         *logger.Logger
	mux            *http.ServeMux
	config         ServerConfig
	deps           Dependencies
	queryHandler   *handlers.LecturerQueryHandler
	commandHandler *handlers.LecturerCommandHandler
	restHandler    *handlers.RESTHandler
	serverHandler  *handlers.ServerHandler
	autoRouter     *autorouter.AutoRouter
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `json:"port"`
	Host            string        `json:"host"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HealthCheckPath string        `json:"health_check_path"`
	MetricsPath     string        `json:"metrics_path"`

	Version       string `json:"version"`
	Environment   string `json:"environment"`
	StorageDriver string `json:"storage_driver"`

	CORS      middleware.CORSConfig
	RateLimit *middleware.RateLimitConfig // nil disables rate limiting
}

// Dependencies are the collaborators the server routes requests to
type Dependencies struct {
	Service     handlers.LecturerService
	Store       lecturer.Repository // probed by the health check when it implements lecturer.HealthChecker
	Auth        *middleware.AuthMiddleware
	Broadcaster *sse.Broadcaster
	Metrics     *metrics.Metrics // nil disables /metrics
	Bus         *cqrs.Bus        // nil when change events are disabled
}

// NewServer creates a new HTTP server
func NewServer(config ServerConfig, deps Dependencies, logger *logger.Logger) (*Server, error) {
	if deps.Service == nil || deps.Auth == nil || deps.Broadcaster == nil {
		return nil, errors.New("api: service, auth and broadcaster are required")
	}
	if config.HealthCheckPath == "" {
		config.HealthCheckPath = "/health"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	mux := http.NewServeMux()
	apiLogger := logger.WithComponent("api")

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Handler:      mux,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger:         apiLogger,
		mux:            mux,
		config:         config,
		deps:           deps,
		queryHandler:   handlers.NewLecturerQueryHandler(apiLogger, deps.Service),
		commandHandler: handlers.NewLecturerCommandHandler(apiLogger, deps.Service),
		restHandler:    handlers.NewRESTHandler(apiLogger, deps.Service),
		serverHandler: handlers.NewServerHandler(
			config.Version,
			config.Environment,
			config.StorageDriver,
			deps.Bus != nil,
		),
		autoRouter: autorouter.NewAutoRouter(mux, autorouter.RegistrationOptions{
			Prefix:       "/api/v1/",
			MethodPrefix: "lecturer.",
			Logger:       apiLogger,
		}),
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	s.setupMiddleware()

	return s, nil
}

// setupRoutes configures the server routes
func (s *Server) setupRoutes() error {
	// Health check endpoint (pure REST)
	s.mux.HandleFunc("GET "+s.config.HealthCheckPath, s.healthCheckHandler)

	// Swagger documentation endpoint
	s.mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	if s.deps.Metrics != nil {
		s.mux.Handle("GET "+s.config.MetricsPath, s.deps.Metrics.Handler())
	}

	// Server info endpoint (no auth required)
	s.mux.HandleFunc("/api/v1/server.Info", s.serverHandler.Info)

	// lecturer.List, lecturer.Get
	if err := s.autoRouter.RegisterHandlers(s.queryHandler); err != nil {
		return fmt.Errorf("register query handlers: %w", err)
	}

	// lecturer.Save, lecturer.Patch, lecturer.Delete
	if err := s.autoRouter.RegisterHandlersWithAuth(s.commandHandler, s.deps.Auth.RequireAuth); err != nil {
		return fmt.Errorf("register command handlers: %w", err)
	}

	// REST routes used by the LMS gateway and auth-service
	s.restHandler.Register(s.mux, s.deps.Auth.RequireAuthREST)

	// SSE endpoint for lecturer change notifications
	s.mux.Handle("GET /api/v1/stream/lecturers", s.deps.Broadcaster)

	for _, route := range s.autoRouter.Routes() {
		s.logger.Debug("JSON-RPC method registered",
			zap.String("path", route.URLPath),
			zap.Bool("auth", route.HasAuth))
	}

	return nil
}

// setupMiddleware applies middleware to all routes
func (s *Server) setupMiddleware() {
	chain := []middleware.Middleware{
		middleware.Recovery(s.logger),
		middleware.CORS(s.config.CORS),
		middleware.Logging(s.logger),
	}
	if s.deps.Metrics != nil {
		chain = append(chain, middleware.Metrics(s.deps.Metrics))
	}
	if s.config.RateLimit != nil {
		chain = append(chain, middleware.RateLimit(*s.config.RateLimit, s.logger))
	}
	chain = append(chain, middleware.ErrorAdapter(s.logger))

	s.httpServer.Handler = middleware.Chain(chain...)(s.mux)
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server and the event router, then blocks until ctx is done
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.httpServer.Addr))

	if s.deps.Bus != nil {
		go func() {
			if err := s.deps.Bus.Run(ctx); err != nil {
				s.logger.Error("Watermill router error", zap.Error(err))
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		s.logger.Error("HTTP server error", zap.Error(err))
		_ = s.Shutdown()
		return err
	case <-ctx.Done():
	}

	return s.Shutdown()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.logger.Info("Shutting down HTTP server")

	// SSE handlers block until their client is removed
	s.deps.Broadcaster.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	if s.deps.Bus != nil {
		s.logger.Info("Closing Watermill router")
		if err := s.deps.Bus.Close(); err != nil {
			s.logger.Error("Router shutdown error", zap.Error(err))
			return err
		}
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// GetAddr returns the server address
func (s *Server) GetAddr() string {
	return s.httpServer.Addr
}

type componentHealth struct {
	Status string `json:"status"`
	Driver string `json:"driver,omitempty"`
	Error  string `json:"error,omitempty"`
}

type healthResponse struct {
	Status string                     `json:"status"`
	Checks map[string]componentHealth `json:"checks"`
}

// healthCheckHandler reports whether the configured store answers
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	store := componentHealth{Status: "up", Driver: s.config.StorageDriver}
	status := http.StatusOK

	if checker, ok := s.deps.Store.(lecturer.HealthChecker); ok {
		if err := checker.HealthCheck(r.Context()); err != nil {
			s.logger.Error("Store health check failed", zap.Error(err))
			store.Status = "down"
			store.Error = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	resp := healthResponse{
		Status: "healthy",
		Checks: map[string]componentHealth{"store": store},
	}
	if status != http.StatusOK {
		resp.Status = "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
