package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PipelineRunsTotal tracks reconciliation pipeline runs by outcome.
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatledger_pipeline_runs_total",
			Help: "Total number of candidate pipeline runs",
		},
		[]string{"source", "outcome"},
	)

	// StageDuration tracks how long each pipeline stage takes.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatledger_pipeline_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// EntriesCommitted counts ledger entries created by the committer.
	EntriesCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatledger_entries_committed_total",
			Help: "Total number of ledger entries committed",
		},
	)

	// CompensatingDeletes counts rollback deletions after a failed batch.
	CompensatingDeletes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatledger_compensating_deletes_total",
			Help: "Total number of compensating deletes after commit failures",
		},
	)

	// MassEditMatches tracks how many entries mass-edit filters selected.
	MassEditMatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatledger_massedit_matches",
			Help:    "Number of entries matched per mass-edit instruction",
			Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 500},
		},
	)
)
