// Package http serves the attrition dashboard, its JSON API and the live feed.
package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hrdash/analytics"
	"hrdash/monitoring"
	"hrdash/prediction"
)

type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
	RateLimit      float64
	Burst          int
	MaxBodyBytes   int64
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"http://localhost:8080"},
		RateLimit:      20,
		Burst:          40,
		MaxBodyBytes:   1 << 20,
	}
}

// Deps are the components handlers read from. All of them are safe for
// concurrent use and none is modified after startup.
type Deps struct {
	Predictor    *prediction.Service
	Reporter     *analytics.Reporter
	History      History
	HistoryLimit int
	Feed         http.Handler
	Metrics      *monitoring.Metrics
	Logger       *zap.Logger
}

type Server struct {
	server *http.Server
	config ServerConfig
	logger *zap.Logger
}

func NewServer(config ServerConfig, deps Deps) (*Server, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h, err := newHandlers(deps)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	h.register(mux)

	middlewares := []Middleware{
		RecoveryMiddleware(deps.Logger),
		LoggerMiddleware(deps.Logger),
	}
	if deps.Metrics != nil {
		middlewares = append(middlewares, MetricsMiddleware(deps.Metrics, func(r *http.Request) string {
			_, pattern := mux.Handler(r)
			return pattern
		}))
	}
	middlewares = append(middlewares,
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
		RateLimitMiddleware(config.RateLimit, config.Burst),
		TimeoutMiddleware(config.Timeout),
		RequestSizeMiddleware(config.MaxBodyBytes),
	)

	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Port),
			Handler:           Chain(middlewares...)(mux),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       config.Timeout,
			IdleTimeout:       120 * time.Second,
		},
		config: config,
		logger: deps.Logger,
	}, nil
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured port and blocks until Stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Stop.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) Addr() string {
	return s.server.Addr
}
