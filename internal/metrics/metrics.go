// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Generation outcomes passed to IncGeneration.
const (
	OutcomeSuccess           = "success"
	OutcomeEmptyDraft        = "empty_draft"
	OutcomeCredentialMissing = "credential_missing"
	OutcomeProviderAuth      = "provider_auth"
	OutcomeProviderQuota     = "provider_quota"
	OutcomeUnavailable       = "unavailable"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Generation metrics
	IncGeneration(outcome string)
	ObserveGenerationDuration(duration time.Duration)

	// Recipe management metrics
	IncRecipeSaved()
	IncRecipeDeleted()

	// Session metrics
	IncSessionIssued()
	IncSessionRevoked()
	IncAuthDenied()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
