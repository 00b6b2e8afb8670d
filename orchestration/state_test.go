package orchestration

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor/core"
)

func TestRunState(t *testing.T) {
	t.Run("contributions are append only", func(t *testing.T) {
		state := NewRunState("run_1", "12345", "query")

		require.NoError(t, state.AppendContribution(core.AgentContribution{
			Agent:    AgentDataGatherer,
			Findings: []string{"finding"},
		}))
		require.NoError(t, state.AppendContribution(core.AgentContribution{
			Agent:    AgentFraudAnalyst,
			Findings: []string{"other"},
		}))

		contributions := state.Contributions()
		require.Len(t, contributions, 2)
		assert.Equal(t, AgentDataGatherer, contributions[0].Agent)
		assert.Equal(t, AgentFraudAnalyst, contributions[1].Agent)
		assert.Equal(t, 2, state.StageCount())
	})

	t.Run("rejects invalid contributions", func(t *testing.T) {
		state := NewRunState("run_1", "12345", "query")

		err := state.AppendContribution(core.AgentContribution{})
		assert.Error(t, err)

		// Degraded contributions need a note
		err = state.AppendContribution(core.AgentContribution{Agent: "x", Degraded: true})
		assert.Error(t, err)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		state := NewRunState("run_1", "12345", "query")
		require.NoError(t, state.AppendContribution(core.AgentContribution{Agent: "a", Summary: "s"}))

		snapshot := state.Contributions()
		snapshot[0].Agent = "mutated"

		assert.Equal(t, "a", state.Contributions()[0].Agent)
	})

	t.Run("metrics replace on write", func(t *testing.T) {
		state := NewRunState("run_1", "12345", "query")
		state.SetMetric("stages_executed", 3)
		state.SetMetric("stages_executed", 6)

		assert.Equal(t, 6.0, state.Metrics()["stages_executed"])
	})

	t.Run("evidence per stage", func(t *testing.T) {
		state := NewRunState("run_1", "12345", "query")
		chunk := &core.RetrievedChunk{Chunk: &core.PolicyChunk{DocumentID: "doc"}}
		state.SetEvidence(AgentFraudAnalyst, []*core.RetrievedChunk{chunk})

		assert.Len(t, state.Evidence(AgentFraudAnalyst), 1)
		assert.Empty(t, state.Evidence(AgentLoanAnalyst))
		assert.Len(t, state.AllEvidence(), 1)
	})

	t.Run("concurrent appends are safe", func(t *testing.T) {
		state := NewRunState("run_1", "12345", "query")

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				state.AppendContribution(core.AgentContribution{Agent: fmt.Sprintf("agent_%d", n)})
				state.SetMetric("n", float64(n))
				state.Contributions()
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 20, state.StageCount())
	})
}
