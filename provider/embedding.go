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
	"context"
	"fmt"
	"log/slog"

	"github.com/mynk/notebook/core"
)

// ValidatingEmbedder wraps an Embedder with the deployment's dimension
// invariant and fallback policy. Every vector entering the pipeline passes
// through here, so a provider returning the wrong dimensionality is caught
// before it can corrupt the index.
type ValidatingEmbedder struct {
	inner     Embedder
	dimension int
	policy    FallbackPolicy
	logger    *slog.Logger
}

var _ Embedder = (*ValidatingEmbedder)(nil)

// NewValidatingEmbedder wraps inner with dimension validation and the given
// fallback policy.
func NewValidatingEmbedder(inner Embedder, dimension int, policy FallbackPolicy) (*ValidatingEmbedder, error) {
	if inner == nil {
		return nil, ErrEmbedderRequired
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidConfig, dimension)
	}
	return &ValidatingEmbedder{
		inner:     inner,
		dimension: dimension,
		policy:    policy,
		logger:    slog.Default().With("component", "embedder"),
	}, nil
}

// Dimension returns the pinned embedding dimensionality.
func (e *ValidatingEmbedder) Dimension() int {
	return e.dimension
}

// EmbedText generates an embedding, enforcing the dimension invariant.
// Under FallbackSynthetic a provider failure yields a deterministic
// pseudo-random unit vector instead of an error.
func (e *ValidatingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.inner.EmbedText(ctx, text)
	if err != nil {
		return e.fallback(ctx, text, err)
	}
	if len(vector) != e.dimension {
		return nil, fmt.Errorf("%w: provider returned %d, want %d",
			core.ErrDimensionMismatch, len(vector), e.dimension)
	}
	return vector, nil
}

// EmbedTexts generates embeddings for a batch, enforcing the dimension
// invariant on every element.
func (e *ValidatingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.inner.EmbedTexts(ctx, texts)
	if err != nil {
		if e.policy != FallbackSynthetic {
			return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
		}
		// Don't mask the caller giving up as a degraded success.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("embedding provider failed, synthesizing fallback vectors",
			"count", len(texts), "err", err)
		vectors = make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = SyntheticVector(text, e.dimension)
		}
		return vectors, nil
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: result mismatch, expected %d, received %d",
			ErrEmbedding, len(texts), len(vectors))
	}
	for i, vector := range vectors {
		if len(vector) != e.dimension {
			return nil, fmt.Errorf("%w: provider returned %d for text %d, want %d",
				core.ErrDimensionMismatch, len(vector), i, e.dimension)
		}
	}
	return vectors, nil
}

func (e *ValidatingEmbedder) fallback(ctx context.Context, text string, cause error) ([]float32, error) {
	if e.policy != FallbackSynthetic {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, cause)
	}
	// Don't mask the caller giving up as a degraded success.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	e.logger.Warn("embedding provider failed, synthesizing fallback vector",
		"textLength", len(text), "err", cause)
	return SyntheticVector(text, e.dimension), nil
}

// SyntheticVector creates a deterministic pseudo-random unit vector for a
// text. Seeding from the content fingerprint keeps degraded mode
// reproducible: re-embedding the same chunk yields the same vector.
func SyntheticVector(text string, dimension int) []float32 {
	seed := core.Fingerprint(text)

	vector := make([]float32, dimension)
	for i := range vector {
		seed = seed*6364136223846793005 + 1442695040888963407 // LCG constants
		vector[i] = float32(seed%1000)/1000.0 - 0.5
	}

	return core.NormalizeVector(vector)
}
