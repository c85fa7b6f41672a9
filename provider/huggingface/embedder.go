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


// Package huggingface implements provider.Embedder against the Hugging Face
// Inference API feature-extraction endpoint.
package huggingface

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mynk/notebook/fetch"
	"github.com/mynk/notebook/provider"
)

// Embedder implements provider.Embedder using the Inference API. The
// endpoint URL is the full model pipeline URL, e.g.
// https://router.huggingface.co/hf-inference/models/<model>/pipeline/feature-extraction.
type Embedder struct {
	client   *fetch.Client
	endpoint string
	apiKey   string
	logger   *slog.Logger
}

var _ provider.Embedder = (*Embedder)(nil)

// NewEmbedder creates a Hugging Face embedder. Requests go through the fetch
// client so rate limits and timeouts are retried.
func NewEmbedder(client *fetch.Client, endpoint, apiKey string) (*Embedder, error) {
	if client == nil {
		return nil, errors.New("fetch client required")
	}
	if endpoint == "" {
		return nil, errors.New("embedding endpoint required")
	}
	return &Embedder{
		client:   client,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		logger:   slog.Default().With("component", "hf-embedder"),
	}, nil
}

// EmbedText embeds a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	resp, err := e.post(ctx, body)
	if err != nil {
		return nil, err
	}
	return decodeVector(resp.Body)
}

// EmbedTexts embeds each text in order. The Inference API accepts batched
// inputs but truncates long batches on some deployments, so each text is
// sent on its own request.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func (e *Embedder) post(ctx context.Context, body []byte) (*fetch.Response, error) {
	header := http.Header{"Content-Type": {"application/json"}}
	if e.apiKey != "" {
		header.Set("Authorization", "Bearer "+e.apiKey)
	}
	return e.client.Do(ctx, &fetch.Request{
		Method: http.MethodPost,
		URL:    e.endpoint,
		Header: header,
		Body:   body,
	})
}

// decodeVector accepts both response shapes the API returns: a flat vector
// for a single input and a one-row matrix for batched input.
func decodeVector(data []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(data, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(data, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	return nil, fmt.Errorf("%w: unexpected embedding response shape", provider.ErrEmbedding)
}
