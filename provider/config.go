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


package provider

import (
	"errors"
	"fmt"
	"strings"
)

// FallbackPolicy selects what happens when embedding generation fails after
// the retry budget is spent.
type FallbackPolicy int

const (
	// FallbackStrict propagates the embedding failure to the caller,
	// aborting the ingestion or query. This is the default: a collection
	// mixing real and synthetic vectors degrades retrieval unpredictably.
	FallbackStrict FallbackPolicy = iota

	// FallbackSynthetic substitutes a deterministic pseudo-random unit
	// vector so the pipeline keeps functioning in a degraded, logged way.
	FallbackSynthetic
)

func (p FallbackPolicy) String() string {
	switch p {
	case FallbackStrict:
		return "strict"
	case FallbackSynthetic:
		return "synthetic"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseFallbackPolicy parses a policy name.
func ParseFallbackPolicy(name string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "strict":
		return FallbackStrict, nil
	case "synthetic", "degraded":
		return FallbackSynthetic, nil
	default:
		return FallbackStrict, fmt.Errorf("%w: fallback policy %q", ErrInvalidConfig, name)
	}
}

// Config holds configuration for embedding and completion providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for a local OpenAI-compatible server
	EmbeddingHost string

	// CompletionHost is the base URL for the completion service API.
	CompletionHost string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "all-MiniLM-L6-v2", "text-embedding-3-small"
	EmbeddingModel string

	// CompletionModel is the model identifier for answer generation.
	// Example: "gemini-2.0-flash", "gpt-4o-mini"
	CompletionModel string

	// EmbeddingAPIKey authenticates embedding calls. May be empty for local
	// services that don't require authentication.
	EmbeddingAPIKey string

	// CompletionAPIKey authenticates completion calls.
	CompletionAPIKey string

	// Dimension is the embedding dimensionality the deployment is pinned
	// to. Every stored or queried vector must have this length.
	Dimension int

	// Fallback selects the behavior on embedding failure.
	Fallback FallbackPolicy
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithCompletionHost sets the completion service host URL.
func WithCompletionHost(host string) ConfigOption {
	return func(c *Config) {
		c.CompletionHost = host
	}
}

// WithHost sets both hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.CompletionHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// WithEmbeddingAPIKey sets the embedding service credential.
func WithEmbeddingAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingAPIKey = key
	}
}

// WithCompletionAPIKey sets the completion service credential.
func WithCompletionAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.CompletionAPIKey = key
	}
}

// WithDimension sets the embedding dimensionality.
func WithDimension(dimension int) ConfigOption {
	return func(c *Config) {
		c.Dimension = dimension
	}
}

// WithFallback sets the embedding fallback policy.
func WithFallback(policy FallbackPolicy) ConfigOption {
	return func(c *Config) {
		c.Fallback = policy
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:   defaultHost,
		CompletionHost:  defaultHost,
		EmbeddingModel:  "embeddinggemma",
		CompletionModel: "qwen2.5:3b",
		Dimension:       384,
		Fallback:        FallbackStrict,
	}
}

// NewConfig creates a Config with defaults and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures hosts are in canonical form, adding the /v1 suffix most
// OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc) require.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
	if c.CompletionHost != "" && !strings.HasSuffix(c.CompletionHost, "/v1") {
		c.CompletionHost = strings.TrimSuffix(c.CompletionHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.EmbeddingHost == "" {
		return errors.New("provider config: EmbeddingHost is required")
	}
	if c.CompletionHost == "" {
		return errors.New("provider config: CompletionHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("provider config: EmbeddingModel is required")
	}
	if c.CompletionModel == "" {
		return errors.New("provider config: CompletionModel is required")
	}
	if c.Dimension <= 0 {
		return errors.New("provider config: Dimension must be positive")
	}
	if c.Fallback != FallbackStrict && c.Fallback != FallbackSynthetic {
		return errors.New("provider config: unknown fallback policy")
	}
	return nil
}
