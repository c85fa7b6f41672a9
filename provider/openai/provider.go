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


// Package openai implements the provider interfaces against any
// OpenAI-compatible API (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
package openai

import (
	"log/slog"
	"net/http"

	"github.com/mynk/notebook/provider"
)

// Provider implements provider.Provider using OpenAI-compatible services.
// It manages embedder and completer instances sharing one HTTP client.
type Provider struct {
	config    *provider.Config
	embedder  *Embedder
	completer *Completer
	logger    *slog.Logger
}

// NewProvider creates an AI provider backed by OpenAI-compatible services.
// The config is validated and normalized before use. The httpClient should
// come from fetch.NewHTTPClient so every outbound call shares the
// retry/backoff contract.
//
// Returns provider.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *provider.Config, httpClient *http.Client) (provider.Provider, error) {
	config.Normalize()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(config, httpClient)
	if err != nil {
		return nil, err
	}

	completer, err := newCompleter(config, httpClient)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:    config,
		embedder:  embedder,
		completer: completer,
		logger:    slog.Default().With("component", "openai-provider"),
	}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() provider.Embedder {
	return p.embedder
}

// Completer returns the completion service.
func (p *Provider) Completer() provider.Completer {
	return p.completer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
