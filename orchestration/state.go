package orchestration

import (
	"maps"
	"sync"

	"github.com/finsight/advisor/core"
)

// RunState is the shared accumulator for one orchestration run.
// Contributions are append-only; metrics are replace-on-write. All
// methods are safe for concurrent use, and each run owns its own state,
// so concurrent runs never interfere.
type RunState struct {
	runID      string
	customerID string
	query      string

	mu            sync.RWMutex
	contributions []core.AgentContribution
	evidence      map[string][]*core.RetrievedChunk
	metrics       map[string]float64
}

// NewRunState creates the state for one run.
func NewRunState(runID, customerID, query string) *RunState {
	return &RunState{
		runID:      runID,
		customerID: customerID,
		query:      query,
		evidence:   make(map[string][]*core.RetrievedChunk),
		metrics:    make(map[string]float64),
	}
}

// RunID returns the run identifier.
func (s *RunState) RunID() string { return s.runID }

// CustomerID returns the customer under analysis.
func (s *RunState) CustomerID() string { return s.customerID }

// Query returns the customer query driving the run.
func (s *RunState) Query() string { return s.query }

// AppendContribution validates and appends a stage contribution.
// Contributions are never mutated or removed once appended.
func (s *RunState) AppendContribution(c core.AgentContribution) error {
	if err := core.ValidateContribution(&c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contributions = append(s.contributions, c)
	return nil
}

// Contributions returns a copy of the contribution sequence in append order.
func (s *RunState) Contributions() []core.AgentContribution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.AgentContribution, len(s.contributions))
	copy(out, s.contributions)
	return out
}

// StageCount returns the number of contributions appended so far.
func (s *RunState) StageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contributions)
}

// SetEvidence records the chunks retrieved for a stage.
func (s *RunState) SetEvidence(agent string, chunks []*core.RetrievedChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evidence[agent] = chunks
}

// Evidence returns the chunks retrieved for a stage.
func (s *RunState) Evidence(agent string) []*core.RetrievedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evidence[agent]
}

// AllEvidence returns every retrieved chunk across stages, in no
// particular order.
func (s *RunState) AllEvidence() []*core.RetrievedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*core.RetrievedChunk
	for _, chunks := range s.evidence {
		out = append(out, chunks...)
	}
	return out
}

// SetMetric records a named metric, replacing any previous value.
func (s *RunState) SetMetric(name string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[name] = value
}

// Metrics returns a copy of the metrics map.
func (s *RunState) Metrics() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.metrics)
}
