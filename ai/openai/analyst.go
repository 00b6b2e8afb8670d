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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finsight/advisor/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Analyst implements ai.Analyst using OpenAI-compatible chat APIs.
type Analyst struct {
	client llms.Model
	logger *slog.Logger
}

// newAnalyst is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyst(config *ai.Config) (*Analyst, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ReasoningHost),
		openai.WithToken("none"),
		openai.WithModel(config.ReasoningModel),
	)
	if err != nil {
		return nil, err
	}

	return &Analyst{
		client: client,
		logger: slog.Default().With("component", "openai-analyst"),
	}, nil
}

// NewAnalyst creates a new analyst using the provided configuration.
//
// Returns ai.Analyst interface to enforce abstraction.
func NewAnalyst(config *ai.Config) (ai.Analyst, error) {
	return newAnalyst(config)
}

// Analyze performs one domain-expert reasoning call and parses the structured
// JSON response. Markdown code fences and common JSON defects are repaired
// before parsing; parsing is attempted up to 3 times with fresh completions.
func (a *Analyst) Analyze(ctx context.Context, req ai.StageRequest) (*ai.StageResponse, error) {
	systemPrompt := buildStagePrompt(req)

	var evidence strings.Builder
	for i, excerpt := range req.Evidence {
		fmt.Fprintf(&evidence, "--- Policy Evidence %d ---\n%s\n\n", i+1, excerpt)
	}

	userPrompt := req.Context
	if evidence.Len() > 0 {
		userPrompt = userPrompt + "\n\n" + evidence.String()
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "agent", req.Agent, "attempt", attempt+1, "err", err)
			if errors.Is(err, context.Canceled) {
				return nil, err
			}
			return nil, ai.Transient(err)
		}

		if len(response.Choices) < 1 {
			a.logger.Debug("no choices returned from model", "agent", req.Agent)
			return nil, ai.ErrEmptyResponse
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		var result ai.StageResponse
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			a.logger.Warn("failed to parse stage response", "agent", req.Agent, "attempt", attempt+1, "err", err)
			lastErr = err
			continue
		}

		return &result, nil
	}

	return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
}
