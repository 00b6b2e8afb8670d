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


package ai

import "errors"

var (
	// ErrMalformedResponse is returned when the reasoning service answered but
	// its output could not be parsed into a StageResponse after repair attempts.
	ErrMalformedResponse = errors.New("malformed reasoning response")

	// ErrEmptyResponse is returned when the reasoning service returned no choices.
	ErrEmptyResponse = errors.New("empty reasoning response")
)

// TransientError wraps a service failure that is eligible for bounded retry,
// such as a timeout or rate limit.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient service error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError. Returns nil for a nil err.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
