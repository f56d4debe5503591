package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teemow/gdocs/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is where metrics are served unless configured.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds the drain of in-flight scrapes.
	DefaultShutdownTimeout = 30 * time.Second

	metricsHeaderTimeout = 10 * time.Second
	metricsWriteTimeout  = 10 * time.Second
	metricsIdleTimeout   = 60 * time.Second
)

// MetricsServerConfig configures a MetricsServer.
type MetricsServerConfig struct {
	// Addr defaults to DefaultMetricsAddr.
	Addr string

	// Provider must export to Prometheus.
	Provider *instrumentation.Provider

	// Health, when set, adds /healthz, /readyz and /healthz/detailed.
	Health *HealthChecker

	Logger *slog.Logger
}

// MetricsServer serves /metrics and the health probes on a port of its own,
// away from the MCP transport.
type MetricsServer struct {
	addr   string
	health *HealthChecker
	logger *slog.Logger
	srv    *http.Server
}

// NewMetricsServer checks that config.Provider exports to the Prometheus
// registry the server reads from.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	switch {
	case config.Provider == nil:
		return nil, errors.New("metrics server needs an instrumentation provider")
	case !config.Provider.Enabled():
		return nil, errors.New("instrumentation is disabled")
	case !config.Provider.PrometheusEnabled():
		return nil, errors.New("metrics server needs the prometheus exporter")
	}

	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &MetricsServer{
		addr:   config.Addr,
		health: config.Health,
		logger: config.Logger.With(slog.String("component", "metrics")),
	}
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: metricsHeaderTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}
	return s, nil
}

// Handler routes /metrics and, with a HealthChecker, the probes.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	health := s.health
	if health == nil {
		health = NewHealthChecker(nil)
	}
	health.RegisterHealthEndpoints(mux)
	return mux
}

// Addr is the configured listen address.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// Listen binds the configured address.
func (s *MetricsServer) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return ln, nil
}

// Serve serves on ln until ctx is done, then drains open connections for
// up to DefaultShutdownTimeout.
func (s *MetricsServer) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("failed to stop metrics server: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
