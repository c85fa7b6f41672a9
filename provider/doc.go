// Copyright 2026 Mynk Labs
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


// Package provider defines abstractions over the external AI services the
// pipeline depends on.
//
// The pipeline must work against any vendor exposing a "text -> vector" and
// a "prompt -> text" contract, so the core depends on these interfaces, not
// on concrete implementations:
//
//   - Embedder: generates vector embeddings from text
//   - Completer: turns a grounded prompt into answer text
//   - Provider: aggregates both for initialization and lifecycle management
//
// # Implementation packages
//
//   - provider/openai: OpenAI-compatible services via langchaingo
//   - provider/gemini: Google Gemini generateContent completions
//   - provider/huggingface: Hugging Face inference API embeddings
//   - provider/mock: test doubles for unit testing without external services
//
// All implementations route outbound calls through the fetch package, so
// they share one timeout/retry/backoff contract.
//
// # Dimension invariant and fallback
//
// ValidatingEmbedder wraps any Embedder with the deployment's pinned
// dimensionality and its fallback policy. The policy is configured once per
// deployment and never mixed: either failures abort the operation
// (FallbackStrict, the default) or they are replaced by deterministic
// synthetic unit vectors (FallbackSynthetic) and logged.
package provider
