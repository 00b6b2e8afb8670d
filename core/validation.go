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


package core

import "fmt"

// ValidatePolicyChunk validates a PolicyChunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Topic must not be empty
//   - DocumentID must not be empty
//   - Ordinal must not be negative
//
// NOT validated:
//   - Vector (may be empty until the embedding step runs)
//   - Id (derived from DocumentID and Ordinal by the ingestion pipeline)
func ValidatePolicyChunk(chunk *PolicyChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	if chunk.Topic == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyTopic)
	}

	if chunk.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyDocumentID)
	}

	if chunk.Ordinal < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeOrdinal)
	}

	return nil
}

// ValidateCustomerProfile validates a CustomerProfile according to domain rules.
//
// Validation rules:
//   - CustomerID must not be empty
//   - Provenance must be live or sample
func ValidateCustomerProfile(profile *CustomerProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	if profile.CustomerID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrEmptyCustomerID)
	}

	if err := ValidateProvenance(profile.Provenance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	return nil
}

// ValidateContribution validates an AgentContribution according to domain rules.
//
// Validation rules:
//   - Agent must not be empty
//   - a degraded contribution must carry a failure note
func ValidateContribution(contribution *AgentContribution) error {
	if contribution == nil {
		return fmt.Errorf("%w: contribution is nil", ErrInvalidContribution)
	}

	if contribution.Agent == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContribution, ErrEmptyAgent)
	}

	if contribution.Degraded && contribution.Note == "" {
		return fmt.Errorf("%w: degraded contribution requires a note", ErrInvalidContribution)
	}

	return nil
}

// ValidateProvenance validates that a Provenance has a known value.
func ValidateProvenance(p Provenance) error {
	if p != ProvenanceLive && p != ProvenanceSample {
		return fmt.Errorf("%w: value %q", ErrInvalidProvenance, p)
	}
	return nil
}
