package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncGeneration is a no-op.
func (n *NoopRecorder) IncGeneration(outcome string) {}

// ObserveGenerationDuration is a no-op.
func (n *NoopRecorder) ObserveGenerationDuration(duration time.Duration) {}

// IncRecipeSaved is a no-op.
func (n *NoopRecorder) IncRecipeSaved() {}

// IncRecipeDeleted is a no-op.
func (n *NoopRecorder) IncRecipeDeleted() {}

// IncSessionIssued is a no-op.
func (n *NoopRecorder) IncSessionIssued() {}

// IncSessionRevoked is a no-op.
func (n *NoopRecorder) IncSessionRevoked() {}

// IncAuthDenied is a no-op.
func (n *NoopRecorder) IncAuthDenied() {}
