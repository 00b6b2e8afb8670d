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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a PolicyChunk failed validation.
	ErrInvalidChunk = errors.New("invalid policy chunk")

	// ErrInvalidProfile indicates a CustomerProfile failed validation.
	ErrInvalidProfile = errors.New("invalid customer profile")

	// ErrInvalidContribution indicates an AgentContribution failed validation.
	ErrInvalidContribution = errors.New("invalid agent contribution")

	// ErrEmptyText indicates a required text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyTopic indicates the chunk Topic field is empty.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrEmptyDocumentID indicates the chunk DocumentID field is empty.
	ErrEmptyDocumentID = errors.New("document id cannot be empty")

	// ErrNegativeOrdinal indicates a chunk ordinal below zero.
	ErrNegativeOrdinal = errors.New("ordinal cannot be negative")

	// ErrEmptyCustomerID indicates the CustomerID field is empty.
	ErrEmptyCustomerID = errors.New("customer id cannot be empty")

	// ErrEmptyAgent indicates the contribution Agent field is empty.
	ErrEmptyAgent = errors.New("agent name cannot be empty")

	// ErrInvalidProvenance indicates an unknown Provenance value.
	ErrInvalidProvenance = errors.New("invalid provenance")
)
