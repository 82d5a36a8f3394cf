package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveTranscription("success", time.Second)
	m.ObserveTranscription("no_json", time.Second)
	m.ObserveTranscription("success", time.Second)
	m.NoteCreated("transcription")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TranscriptionsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotesCreatedTotal.WithLabelValues("transcription")))

	_, err = New(reg)
	assert.Error(t, err)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTranscription("success", time.Second)
	m.NoteCreated("manual")
	m.ObserveRequest("GET", "/health", 200, time.Millisecond)
}
