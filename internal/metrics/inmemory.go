package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	GenerationOutcomes        map[string]uint64
	GenerationDurationCount   uint64
	GenerationDurationTotalNs int64
	RecipesSaved              uint64
	RecipesDeleted            uint64
	SessionsIssued            uint64
	SessionsRevoked           uint64
	AuthDenied                uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                 sync.Mutex
	generationOutcomes map[string]uint64

	generationDurationCount   uint64
	generationDurationTotalNs int64
	recipesSaved              uint64
	recipesDeleted            uint64
	sessionsIssued            uint64
	sessionsRevoked           uint64
	authDenied                uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		generationOutcomes: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	outcomes := make(map[string]uint64, len(m.generationOutcomes))
	for k, v := range m.generationOutcomes {
		outcomes[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		GenerationOutcomes:        outcomes,
		GenerationDurationCount:   atomic.LoadUint64(&m.generationDurationCount),
		GenerationDurationTotalNs: atomic.LoadInt64(&m.generationDurationTotalNs),
		RecipesSaved:              atomic.LoadUint64(&m.recipesSaved),
		RecipesDeleted:            atomic.LoadUint64(&m.recipesDeleted),
		SessionsIssued:            atomic.LoadUint64(&m.sessionsIssued),
		SessionsRevoked:           atomic.LoadUint64(&m.sessionsRevoked),
		AuthDenied:                atomic.LoadUint64(&m.authDenied),
	}
}

// IncGeneration increments the counter for a generation outcome.
func (m *InMemoryRecorder) IncGeneration(outcome string) {
	m.mu.Lock()
	m.generationOutcomes[outcome]++
	m.mu.Unlock()
}

// ObserveGenerationDuration records one generation round trip.
func (m *InMemoryRecorder) ObserveGenerationDuration(duration time.Duration) {
	atomic.AddUint64(&m.generationDurationCount, 1)
	atomic.AddInt64(&m.generationDurationTotalNs, duration.Nanoseconds())
}

// IncRecipeSaved increments the recipe saved counter.
func (m *InMemoryRecorder) IncRecipeSaved() {
	atomic.AddUint64(&m.recipesSaved, 1)
}

// IncRecipeDeleted increments the recipe deleted counter.
func (m *InMemoryRecorder) IncRecipeDeleted() {
	atomic.AddUint64(&m.recipesDeleted, 1)
}

// IncSessionIssued increments the session issued counter.
func (m *InMemoryRecorder) IncSessionIssued() {
	atomic.AddUint64(&m.sessionsIssued, 1)
}

// IncSessionRevoked increments the session revoked counter.
func (m *InMemoryRecorder) IncSessionRevoked() {
	atomic.AddUint64(&m.sessionsRevoked, 1)
}

// IncAuthDenied increments the rejected-request counter.
func (m *InMemoryRecorder) IncAuthDenied() {
	atomic.AddUint64(&m.authDenied, 1)
}
