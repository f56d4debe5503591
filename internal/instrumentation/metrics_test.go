package instrumentation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newRecordedMetrics(t *testing.T, mimeTypeLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), mimeTypeLabels)
	require.NoError(t, err)
	return m, reader
}

// sums collects the data points of the named Int64 counter.
func sums(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			return sum.DataPoints
		}
	}
	return nil
}

func label(dp metricdata.DataPoint[int64], key string) string {
	v, _ := dp.Attributes.Value(attribute.Key(key))
	return v.AsString()
}

func TestMetrics_ObserveCall(t *testing.T) {
	m, reader := newRecordedMetrics(t, false)
	ctx := context.Background()

	m.ObserveCall(ctx, Call{Service: ServiceDrive, Operation: OperationGet}, nil, 40*time.Millisecond)
	m.ObserveCall(ctx, Call{Service: ServiceDrive, Operation: OperationGet}, nil, 10*time.Millisecond)
	m.ObserveCall(ctx, Call{Service: ServiceDrive, Operation: OperationGet}, errors.New("403"), time.Millisecond)

	byStatus := map[string]int64{}
	for _, dp := range sums(t, reader, MetricAPICalls) {
		assert.Equal(t, "drive", label(dp, "service"))
		assert.Equal(t, "get", label(dp, "operation"))
		byStatus[label(dp, "status")] = dp.Value
	}
	assert.Equal(t, map[string]int64{StatusSuccess: 2, StatusError: 1}, byStatus)
}

func TestMetrics_ObserveTool(t *testing.T) {
	m, reader := newRecordedMetrics(t, false)

	m.ObserveTool(context.Background(), "sheets_write", true, time.Second)

	points := sums(t, reader, MetricToolCalls)
	require.Len(t, points, 1)
	assert.Equal(t, "sheets_write", label(points[0], "tool"))
	assert.Equal(t, StatusError, label(points[0], "status"))
}

func TestMetrics_ObserveSheetCache(t *testing.T) {
	m, reader := newRecordedMetrics(t, false)
	ctx := context.Background()

	m.ObserveSheetCache(ctx, false)
	m.ObserveSheetCache(ctx, true)
	m.ObserveSheetCache(ctx, true)

	got := map[string]int64{}
	for _, dp := range sums(t, reader, MetricSheetCacheLookup) {
		got[label(dp, "result")] = dp.Value
	}
	assert.Equal(t, map[string]int64{CacheHit: 2, CacheMiss: 1}, got)
}

func TestMetrics_ObserveExport(t *testing.T) {
	t.Run("without mime labels", func(t *testing.T) {
		m, reader := newRecordedMetrics(t, false)
		m.ObserveExport(context.Background(), "application/pdf", 100)
		m.ObserveExport(context.Background(), "text/plain", 0)

		points := sums(t, reader, MetricExportBytes)
		require.Len(t, points, 1)
		assert.EqualValues(t, 100, points[0].Value)
		assert.Equal(t, 0, points[0].Attributes.Len())
	})

	t.Run("with mime labels", func(t *testing.T) {
		m, reader := newRecordedMetrics(t, true)
		m.ObserveExport(context.Background(), "text/csv; charset=utf-8", 7)
		m.ObserveExport(context.Background(), "video/mp4", 3)

		got := map[string]int64{}
		for _, dp := range sums(t, reader, MetricExportBytes) {
			got[label(dp, "mime_type")] = dp.Value
		}
		assert.Equal(t, map[string]int64{"text/csv": 7, "other": 3}, got)
	})
}

func TestMetrics_ZeroAndNil(t *testing.T) {
	ctx := context.Background()
	for _, m := range []*Metrics{nil, {}} {
		assert.NotPanics(t, func() {
			m.ObserveCall(ctx, Call{}, nil, time.Second)
			m.ObserveTool(ctx, "t", false, time.Second)
			m.ObserveSheetCache(ctx, true)
			m.ObserveExport(ctx, "text/plain", 1)
		})
	}
}
