package ai

// StageRequest carries everything one reasoning call needs: the stage's role
// instructions, the narrative context accumulated by earlier stages, and the
// policy evidence retrieved for this stage.
type StageRequest struct {
	// Agent is the name of the domain-expert role performing the analysis.
	Agent string

	// Instructions describe the agent's responsibilities and expected output.
	Instructions string

	// Context is the accumulated narrative from prior stages plus the
	// customer facts the run was seeded with.
	Context string

	// Evidence holds retrieved policy excerpts, one entry per chunk,
	// already formatted with their source references.
	Evidence []string
}

// StageResponse is the parsed structured output of one reasoning call.
type StageResponse struct {
	// Findings are the agent's observations, in the order produced.
	Findings []string `json:"findings"`

	// Recommendations are the agent's suggested actions, in the order produced.
	Recommendations []string `json:"recommendations"`

	// PolicyRefs are identifiers of the policy documents the agent relied on.
	PolicyRefs []string `json:"policy_references"`

	// Summary is a short narrative the next stage can build on.
	Summary string `json:"summary"`
}
