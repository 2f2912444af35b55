package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	metrics, err := NewMetrics()
	require.NoError(t, err)

	assert.NotNil(t, metrics.FetchCount)
	assert.NotNil(t, metrics.FetchDuration)
	assert.NotNil(t, metrics.SampleStage)
	assert.NotNil(t, metrics.LastRunTimestamp)

	// Registries are private, so two instances never collide.
	_, err = NewMetrics()
	assert.NoError(t, err)
}

func TestMetrics_RecordFetch(t *testing.T) {
	metrics, err := NewMetrics()
	require.NoError(t, err)

	metrics.RecordFetch(200, 120*time.Millisecond)
	metrics.RecordFetch(404, 80*time.Millisecond)
	metrics.RecordFetch(0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchCount.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchCount.WithLabelValues("404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchCount.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.FetchDuration))
}

func TestMetrics_StageAndRun(t *testing.T) {
	metrics, err := NewMetrics()
	require.NoError(t, err)

	metrics.SetSampleStage(2)
	metrics.MarkRun(time.Unix(1609524000, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.SampleStage))
	assert.Equal(t, 1609524000.0, testutil.ToFloat64(metrics.LastRunTimestamp))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	metrics, err := NewMetrics()
	require.NoError(t, err)
	metrics.RecordFetch(200, 50*time.Millisecond)
	metrics.SetSampleStage(3)

	path := filepath.Join(t.TempDir(), "lab_status.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `lab_status_fetch_total{status_code="200"} 1`), text)
	assert.Contains(t, text, "lab_status_sample_stage 3")
	assert.Contains(t, text, "lab_status_fetch_duration_seconds_count 1")
}

func TestMetrics_WriteTextfile_BadPath(t *testing.T) {
	metrics, err := NewMetrics()
	require.NoError(t, err)

	err = metrics.WriteTextfile(filepath.Join(t.TempDir(), "missing", "lab_status.prom"))
	assert.Error(t, err)
}
