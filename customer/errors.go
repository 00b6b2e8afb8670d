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

package customer

import "errors"

var (
	// ErrProfileNotFound indicates that no profile exists for the customer ID.
	ErrProfileNotFound = errors.New("customer profile not found")

	// ErrStoreUnavailable indicates that the live store cannot be reached.
	ErrStoreUnavailable = errors.New("customer store unavailable")
)
