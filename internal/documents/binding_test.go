package documents

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/gdocs/internal/documents/documentstest"
	"github.com/teemow/gdocs/internal/google"
	"github.com/teemow/gdocs/internal/instrumentation"
	"github.com/teemow/gdocs/internal/logging"
)

func noEnv(string) string { return "" }

func TestBinding_NoCredentials(t *testing.T) {
	b := NewBinding(WithCredentialSource(google.CredentialSource{Getenv: noEnv}))

	_, err := b.Documents().Get(context.Background(), "d1")
	assert.ErrorIs(t, err, google.ErrNoCredentials)
}

func TestBinding_EnvCredentialsUnreadable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	b := NewBinding(WithCredentialSource(google.CredentialSource{
		Getenv: func(key string) string {
			if key == google.EnvServiceAccountFile {
				return missing
			}
			return ""
		},
	}))

	_, err := b.Files().Get(context.Background(), "f1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, google.ErrNoCredentials)
}

func TestBinding_InvalidKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"authorized_user"}`), 0o600))

	m, err := NewManager(KindFile, WithCredentialSource(google.CredentialSource{Getenv: noEnv})).Using(path)
	require.NoError(t, err)

	_, err = m.Get(context.Background(), "f1")
	assert.Error(t, err)
}

func TestBinding_ServicesReused(t *testing.T) {
	srv, b := newTestBinding(t)
	srv.AddFile("f1", "a", "text/plain")
	ctx := context.Background()

	first, err := b.driveService(ctx)
	require.NoError(t, err)
	second, err := b.driveService(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	sheetsFirst, err := b.sheetsService(ctx)
	require.NoError(t, err)
	sheetsSecond, err := b.sheetsService(ctx)
	require.NoError(t, err)
	assert.Same(t, sheetsFirst, sheetsSecond)
}

func TestBinding_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), false)
	require.NoError(t, err)

	srv := documentstest.NewServer(t)
	srv.AddSpreadsheet("ss1", "Budget")
	b := NewBinding(
		WithLocator(srv.Locator()),
		WithLogger(logging.Discard()),
		WithMetrics(metrics),
	)
	ctx := context.Background()

	s := b.Spreadsheets().Spreadsheet("ss1")
	_, err = s.Sheets(ctx)
	require.NoError(t, err)
	_, err = s.Sheets(ctx)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(1), sums[instrumentation.MetricAPICalls])
	assert.Equal(t, int64(2), sums[instrumentation.MetricSheetCacheLookup])
}
