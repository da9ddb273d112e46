// Package metrics holds the prometheus collectors of the assessment flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeValid       = "valid"
	OutcomeCompleted   = "completed"
	OutcomeNotFound    = "not_found"
	OutcomeExpired     = "expired"
	OutcomeMaxAttempts = "max_attempts"
	OutcomeError       = "error"

	SchemeProcess = "process"
	SchemeLegacy  = "legacy"
)

var (
	InviteValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invite_validations_total",
			Help: "Invite validation attempts by outcome",
		},
		[]string{"outcome"},
	)

	ResponsesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "responses_recorded_total",
			Help: "Responses persisted (inserted or updated)",
		},
	)

	ResponsesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "responses_skipped_total",
			Help: "Submitted items skipped because the question or option was not found",
		},
	)

	StageCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stage_completions_total",
			Help: "Stage completions recorded, by stage scheme",
		},
		[]string{"scheme"},
	)

	ReconcileWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "progress_reconcile_warnings_total",
			Help: "Reconciliations that fell back to the legacy completion signal",
		},
	)
)
