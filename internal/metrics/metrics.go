// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collectors for transcription and note creation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	TranscriptionsTotal   *prometheus.CounterVec   // by outcome
	TranscriptionDuration prometheus.Histogram     // model round trip including context build
	NotesCreatedTotal     *prometheus.CounterVec   // by source: manual, transcription
	HTTPRequestDuration   *prometheus.HistogramVec // by method, route, status
}

// New creates and registers the collectors.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		TranscriptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamhub_transcriptions_total",
				Help: "Handwritten note transcription requests by outcome",
			},
			[]string{"outcome"},
		),
		TranscriptionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "teamhub_transcription_duration_seconds",
				Help:    "Time spent building context and waiting for the model",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
		),
		NotesCreatedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamhub_notes_created_total",
				Help: "Notes persisted by source",
			},
			[]string{"source"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "teamhub_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.TranscriptionsTotal,
		m.TranscriptionDuration,
		m.NotesCreatedTotal,
		m.HTTPRequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveTranscription records one transcription attempt.
func (m *Metrics) ObserveTranscription(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TranscriptionsTotal.WithLabelValues(outcome).Inc()
	m.TranscriptionDuration.Observe(elapsed.Seconds())
}

// NoteCreated counts a persisted note.
func (m *Metrics) NoteCreated(source string) {
	if m == nil {
		return
	}
	m.NotesCreatedTotal.WithLabelValues(source).Inc()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, fmt.Sprint(status)).Observe(elapsed.Seconds())
}
