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
	"errors"
	"fmt"
)

var (
	// ErrPipelineTimeout indicates the overall run deadline expired.
	// A partial report is still returned alongside this error.
	ErrPipelineTimeout = errors.New("pipeline timed out")

	// ErrSearcherRequired indicates a nil searcher was provided.
	ErrSearcherRequired = errors.New("searcher is required")

	// ErrAIProviderRequired indicates a nil AI provider was provided.
	ErrAIProviderRequired = errors.New("AI provider is required")

	// ErrConnectorRequired indicates a nil customer connector was provided.
	ErrConnectorRequired = errors.New("customer connector is required")

	// ErrEmptyQuery indicates an empty customer query.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidMaxAttempts indicates a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)

// StageFailureError indicates the opening stage failed outright, leaving
// nothing for later stages to build on.
type StageFailureError struct {
	Stage     string
	Completed int // stages that finished before the failure
	Err       error
}

func (e *StageFailureError) Error() string {
	return fmt.Sprintf("stage %s failed after %d completed stages: %v", e.Stage, e.Completed, e.Err)
}

func (e *StageFailureError) Unwrap() error {
	return e.Err
}
