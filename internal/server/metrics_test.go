package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/gdocs/internal/instrumentation"
)

func newProvider(t *testing.T, mutate func(*instrumentation.Config)) *instrumentation.Provider {
	t.Helper()

	config := instrumentation.DefaultConfig()
	config.ServiceName = "gdocs-test"
	if mutate != nil {
		mutate(&config)
	}
	p, err := instrumentation.NewProvider(context.Background(), config, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestNewMetricsServer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := NewMetricsServer(MetricsServerConfig{Provider: newProvider(t, nil)})
		require.NoError(t, err)
		assert.Equal(t, DefaultMetricsAddr, s.Addr())
	})

	t.Run("custom address", func(t *testing.T) {
		s, err := NewMetricsServer(MetricsServerConfig{Addr: "127.0.0.1:9464", Provider: newProvider(t, nil)})
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:9464", s.Addr())
	})

	tests := map[string]struct {
		provider func(t *testing.T) *instrumentation.Provider
		wantErr  string
	}{
		"no provider": {
			provider: func(*testing.T) *instrumentation.Provider { return nil },
			wantErr:  "needs an instrumentation provider",
		},
		"disabled": {
			provider: func(t *testing.T) *instrumentation.Provider {
				return newProvider(t, func(c *instrumentation.Config) { c.Enabled = false })
			},
			wantErr: "disabled",
		},
		"stdout exporter": {
			provider: func(t *testing.T) *instrumentation.Provider {
				return newProvider(t, func(c *instrumentation.Config) { c.Metrics = instrumentation.ExporterStdout })
			},
			wantErr: "prometheus exporter",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewMetricsServer(MetricsServerConfig{Provider: tt.provider(t)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMetricsServer_Handler(t *testing.T) {
	provider := newProvider(t, nil)
	provider.Metrics().ObserveCall(context.Background(),
		instrumentation.Call{Service: instrumentation.ServiceSheets, Operation: instrumentation.OperationValuesGet},
		nil, 10*time.Millisecond)

	s, err := NewMetricsServer(MetricsServerConfig{Provider: provider})
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	for _, path := range []string{"/metrics", "/healthz", "/readyz", "/healthz/detailed"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err, path)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		if path == "/metrics" {
			assert.Contains(t, string(body), instrumentation.MetricAPICalls)
		}
	}
}

func TestMetricsServer_ServeUntilCancelled(t *testing.T) {
	health := NewHealthChecker(nil)
	s, err := NewMetricsServer(MetricsServerConfig{
		Addr:     "127.0.0.1:0",
		Provider: newProvider(t, nil),
		Health:   health,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	ln, err := s.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/readyz"
	resp, err := http.Get(url)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	health.SetReady(false)
	resp, err = http.Get(url)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestMetricsServer_ListenError(t *testing.T) {
	s, err := NewMetricsServer(MetricsServerConfig{Addr: "256.0.0.1:bad", Provider: newProvider(t, nil)})
	require.NoError(t, err)

	_, err = s.Listen()
	assert.Error(t, err)
}
