package mock

import (
	"context"
	"fmt"

	"github.com/finsight/advisor/ai"
)

// MockAnalyst is a test double for ai.Analyst.
// It allows custom behavior injection via function fields.
type MockAnalyst struct {
	// AnalyzeFunc is called by Analyze if set.
	// If nil, uses default deterministic behavior.
	AnalyzeFunc func(ctx context.Context, req ai.StageRequest) (*ai.StageResponse, error)

	callCount int
	requests  []ai.StageRequest
}

// NewMockAnalyst creates a mock analyst with default deterministic behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnalyst().
func NewMockAnalyst() *MockAnalyst {
	return &MockAnalyst{}
}

// Analyze returns a deterministic response derived from the request.
// Default behavior: one finding and one recommendation naming the agent,
// and a summary the next stage can chain on.
func (m *MockAnalyst) Analyze(ctx context.Context, req ai.StageRequest) (*ai.StageResponse, error) {
	m.callCount++
	m.requests = append(m.requests, req)

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &ai.StageResponse{
		Findings:        []string{fmt.Sprintf("%s reviewed %d evidence excerpts", req.Agent, len(req.Evidence))},
		Recommendations: []string{fmt.Sprintf("%s recommends standard handling", req.Agent)},
		PolicyRefs:      []string{},
		Summary:         fmt.Sprintf("%s analysis complete.", req.Agent),
	}, nil
}

// CallCount returns the number of times Analyze was called.
func (m *MockAnalyst) CallCount() int {
	return m.callCount
}

// Requests returns the stage requests received, in call order.
func (m *MockAnalyst) Requests() []ai.StageRequest {
	return m.requests
}

// Reset clears the call count, recorded requests, and injected behavior.
func (m *MockAnalyst) Reset() {
	m.callCount = 0
	m.requests = nil
	m.AnalyzeFunc = nil
}
