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


// Package openai provides AI service implementations using OpenAI-compatible
// APIs. It works with any service exposing the OpenAI wire format, including
// Ollama, LocalAI, vLLM, and OpenAI itself.
//
// The Analyst requests JSON-mode completions and repairs common formatting
// defects in model output before parsing; a response that still fails to
// parse after repeated attempts surfaces as ai.ErrMalformedResponse so the
// caller can degrade gracefully instead of aborting a run.
package openai
