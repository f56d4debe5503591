package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Probe results.
const (
	healthStatusOK            = "ok"
	healthStatusNotReady      = "not ready"
	healthStatusShuttingDown  = "shutting down"
	healthStatusNoCredentials = "no credentials"
)

// HealthChecker serves the liveness and readiness probes of the server.
// It starts out ready; SetReady(false) takes the server out of rotation.
type HealthChecker struct {
	ready   atomic.Bool
	sc      *ServerContext
	started time.Time
}

// NewHealthChecker creates a HealthChecker for sc. A nil sc skips the
// shutdown and credential checks.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, started: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the readiness state.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of every probe.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Uptime string            `json:"uptime,omitempty"`
}

// check evaluates every probe input. Missing default credentials are
// reported but do not fail readiness: tools can still be called with a
// credentials argument.
func (h *HealthChecker) check() (HealthResponse, bool) {
	resp := HealthResponse{Status: healthStatusOK, Checks: map[string]string{
		"ready":       healthStatusOK,
		"shutdown":    healthStatusOK,
		"credentials": healthStatusOK,
	}}
	healthy := true

	if !h.ready.Load() {
		resp.Checks["ready"] = healthStatusNotReady
		resp.Status = healthStatusNotReady
		healthy = false
	}
	if h.sc != nil && h.sc.IsShutdown() {
		resp.Checks["shutdown"] = healthStatusShuttingDown
		resp.Status = healthStatusShuttingDown
		healthy = false
	}
	if h.sc != nil && h.sc.CheckCredentials() != nil {
		resp.Checks["credentials"] = healthStatusNoCredentials
	}
	return resp, healthy
}

func writeHealth(w http.ResponseWriter, resp HealthResponse, healthy bool) {
	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// LivenessHandler serves /healthz. It only fails when the process cannot
// answer at all.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, HealthResponse{Status: healthStatusOK}, true)
	})
}

// ReadinessHandler serves /readyz.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp, healthy := h.check()
		writeHealth(w, resp, healthy)
	})
}

// DetailedHealthHandler serves /healthz/detailed: the readiness checks
// plus uptime.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp, healthy := h.check()
		resp.Uptime = time.Since(h.started).Truncate(time.Second).String()
		writeHealth(w, resp, healthy)
	})
}

// RegisterHealthEndpoints mounts the probes on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
