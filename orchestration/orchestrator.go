// Copyright 2025 Finsight Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestration

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/finsight/advisor/ai"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/customer"
	"github.com/finsight/advisor/risk"
	"github.com/finsight/advisor/search"
)

const (
	// DefaultTimeout bounds one full run.
	DefaultTimeout = 180 * time.Second

	// DefaultEvidenceLimit is the number of chunks retrieved per stage.
	// Small and fixed to bound prompt size.
	DefaultEvidenceLimit = 4

	defaultRetryAttempts = 2
	defaultRetryDelay    = 500 * time.Millisecond
)

// Orchestrator drives the six-stage analysis pipeline for one customer
// query at a time. Safe for concurrent use; each run gets its own state.
type Orchestrator struct {
	stages        []Stage
	searcher      *search.Searcher
	analyst       ai.Analyst
	connector     *customer.Connector
	logger        *slog.Logger
	timeout       time.Duration
	evidenceLimit int
	retryAttempts int
	retryDelay    time.Duration
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator) error

// WithTimeout sets the overall run deadline.
// Default is DefaultTimeout. Zero disables the deadline.
func WithTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) error {
		if timeout < 0 {
			return fmt.Errorf("timeout must be non-negative, got %v", timeout)
		}
		o.timeout = timeout
		return nil
	}
}

// WithEvidenceLimit sets the number of chunks retrieved per stage.
func WithEvidenceLimit(k int) OrchestratorOption {
	return func(o *Orchestrator) error {
		if k < 1 {
			return fmt.Errorf("evidence limit must be positive, got %d", k)
		}
		o.evidenceLimit = k
		return nil
	}
}

// WithRetry configures retry behavior for transient model failures.
func WithRetry(attempts int, baseDelay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) error {
		if attempts < 1 {
			return ErrInvalidMaxAttempts
		}
		o.retryAttempts = attempts
		o.retryDelay = baseDelay
		return nil
	}
}

// WithOrchestratorLogger sets a custom logger.
// Default is slog.Default().
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a pipeline orchestrator.
func NewOrchestrator(searcher *search.Searcher, provider ai.AIProvider, connector *customer.Connector, opts ...OrchestratorOption) (*Orchestrator, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if connector == nil {
		return nil, ErrConnectorRequired
	}

	o := &Orchestrator{
		stages:        PipelineStages(),
		searcher:      searcher,
		analyst:       provider.Analyst(),
		connector:     connector,
		logger:        slog.Default(),
		timeout:       DefaultTimeout,
		evidenceLimit: DefaultEvidenceLimit,
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Run executes the full pipeline for one customer query.
//
// On success the report covers all stages. If the overall deadline
// expires mid-run, the partial report built from completed stages is
// returned together with ErrPipelineTimeout. A total failure of the
// opening stage returns a StageFailureError and no report.
func (o *Orchestrator) Run(ctx context.Context, customerID, query string) (*core.Report, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	runID := newRunID()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	logger := o.logger.With("run_id", runID, "customer_id", customerID)
	logger.Info("starting analysis run", "query", query)

	profile := o.connector.Resolve(ctx, customerID)
	assessment := risk.Score(profile)
	state := NewRunState(runID, customerID, query)

	for i, stage := range o.stages {
		if ctx.Err() != nil {
			logger.Warn("run deadline expired", "completed_stages", state.StageCount())
			return o.finishRun(state, profile, assessment, start, true), fmt.Errorf("%w: %d of %d stages completed", ErrPipelineTimeout, state.StageCount(), len(o.stages))
		}

		contribution, err := o.runStage(ctx, stage, profile, assessment, state)
		if err != nil {
			if ctx.Err() != nil {
				logger.Warn("run deadline expired during stage", "stage", stage.Agent, "completed_stages", state.StageCount())
				return o.finishRun(state, profile, assessment, start, true), fmt.Errorf("%w: %d of %d stages completed", ErrPipelineTimeout, state.StageCount(), len(o.stages))
			}
			if i == 0 {
				// Nothing for later stages to build on.
				return nil, &StageFailureError{Stage: stage.Agent, Completed: state.StageCount(), Err: err}
			}
			logger.Error("stage failed, degrading", "stage", stage.Agent, "err", err)
			contribution = degradedContribution(stage.Agent, err)
		}

		if err := state.AppendContribution(*contribution); err != nil {
			return nil, fmt.Errorf("recording %s contribution: %w", stage.Agent, err)
		}
		state.SetMetric(stage.Agent+"_seconds", contribution.Elapsed.Seconds())
		logger.Info("stage completed",
			"stage", stage.Agent,
			"degraded", contribution.Degraded,
			"elapsed", contribution.Elapsed)
	}

	report := o.finishRun(state, profile, assessment, start, false)
	logger.Info("analysis run completed",
		"risk_tier", report.Risk.Tier,
		"risk_score", report.Risk.Score,
		"elapsed_seconds", report.ElapsedSeconds)
	return report, nil
}

// runStage retrieves evidence, invokes the reasoning model, and builds
// the stage's contribution. Malformed model output degrades the stage
// rather than failing it.
func (o *Orchestrator) runStage(ctx context.Context, stage Stage, profile *core.CustomerProfile, assessment core.RiskAssessment, state *RunState) (*core.AgentContribution, error) {
	stageStart := time.Now()

	evidence, err := o.searcher.Query(ctx, stage.Topic, stage.BuildQuery(profile, state.Query()), o.evidenceLimit)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// A stage can still reason without evidence.
		o.logger.Warn("evidence retrieval failed, proceeding without", "stage", stage.Agent, "topic", stage.Topic, "err", err)
		evidence = nil
	}
	state.SetEvidence(stage.Agent, evidence)

	evidenceTexts := make([]string, len(evidence))
	for i, chunk := range evidence {
		evidenceTexts[i] = fmt.Sprintf("[%s #%d] %s", chunk.Chunk.DocumentID, chunk.Chunk.Ordinal, chunk.Chunk.Text)
	}

	request := ai.StageRequest{
		Agent:        stage.Agent,
		Instructions: stage.Instructions,
		Context:      buildStageContext(profile, assessment, state),
		Evidence:     evidenceTexts,
	}

	var response *ai.StageResponse
	err = retryTransient(ctx, func() error {
		var analyzeErr error
		response, analyzeErr = o.analyst.Analyze(ctx, request)
		return analyzeErr
	}, o.retryAttempts, o.retryDelay)
	if err != nil {
		if errors.Is(err, ai.ErrMalformedResponse) {
			contribution := degradedContribution(stage.Agent, err)
			contribution.PolicyRefs = evidenceRefs(evidence)
			contribution.Elapsed = time.Since(stageStart)
			return contribution, nil
		}
		return nil, err
	}

	refs := evidenceRefs(evidence)
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		seen[ref] = true
	}
	for _, ref := range response.PolicyRefs {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	return &core.AgentContribution{
		Agent:           stage.Agent,
		Findings:        response.Findings,
		Recommendations: response.Recommendations,
		PolicyRefs:      refs,
		Summary:         response.Summary,
		Elapsed:         time.Since(stageStart),
	}, nil
}

// finishRun assembles the report from whatever stages completed.
func (o *Orchestrator) finishRun(state *RunState, profile *core.CustomerProfile, assessment core.RiskAssessment, start time.Time, partial bool) *core.Report {
	return buildReport(state, profile, assessment, time.Since(start).Seconds(), partial)
}

// buildStageContext formats the profile facts and prior contribution
// summaries for the reasoning prompt.
func buildStageContext(profile *core.CustomerProfile, assessment core.RiskAssessment, state *RunState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CUSTOMER PROFILE:\n")
	fmt.Fprintf(&b, "- Customer ID: %s\n", profile.CustomerID)
	fmt.Fprintf(&b, "- Annual Income: $%.2f\n", profile.Income)
	fmt.Fprintf(&b, "- Credit Score: %d\n", profile.CreditScore)
	fmt.Fprintf(&b, "- Tenure: %.1f years\n", profile.TenureYears)
	fmt.Fprintf(&b, "- Segment: %s\n", profile.Segment)
	fmt.Fprintf(&b, "- Products: %s\n", strings.Join(profile.Products, ", "))
	fmt.Fprintf(&b, "- Data Source: %s\n", profile.Provenance)
	fmt.Fprintf(&b, "- Risk Assessment: %.2f (%s)\n", assessment.Score, assessment.Tier)

	if len(profile.Transactions) > 0 {
		fmt.Fprintf(&b, "\nRECENT TRANSACTIONS:\n")
		for _, txn := range profile.Transactions {
			flag := ""
			if txn.NewCounterparty {
				flag = " (new counterparty)"
			}
			fmt.Fprintf(&b, "- $%.2f %s on %s%s\n", txn.Amount, txn.Type, txn.Timestamp.Format("2006-01-02"), flag)
		}
	}

	fmt.Fprintf(&b, "\nCUSTOMER QUERY: %s\n", state.Query())

	contributions := state.Contributions()
	if len(contributions) > 0 {
		fmt.Fprintf(&b, "\nPRIOR ANALYSES:\n")
		for _, c := range contributions {
			if c.Degraded {
				fmt.Fprintf(&b, "- %s: analysis unavailable\n", c.Agent)
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", c.Agent, c.Summary)
		}
	}

	return b.String()
}

// degradedContribution builds the placeholder contribution for a stage
// that could not produce usable output. The pipeline continues; the
// report records the gap.
func degradedContribution(agent string, err error) *core.AgentContribution {
	return &core.AgentContribution{
		Agent:    agent,
		Degraded: true,
		Note:     fmt.Sprintf("analysis unavailable: %v", err),
	}
}

func evidenceRefs(evidence []*core.RetrievedChunk) []string {
	var refs []string
	seen := make(map[string]bool)
	for _, chunk := range evidence {
		if !seen[chunk.Chunk.DocumentID] {
			seen[chunk.Chunk.DocumentID] = true
			refs = append(refs, chunk.Chunk.DocumentID)
		}
	}
	return refs
}

func newRunID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	return "run_" + hex.EncodeToString(buf)
}
