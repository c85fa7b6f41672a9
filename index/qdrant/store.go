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


// Package qdrant implements index.Index against the Qdrant REST API.
package qdrant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mynk/notebook/core"
	"github.com/mynk/notebook/fetch"
	"github.com/mynk/notebook/index"
)

// Store implements index.Index for one Qdrant collection. All requests go
// through the fetch client so rate limits and timeouts are retried.
type Store struct {
	client     *fetch.Client
	baseURL    string
	apiKey     string
	collection string
	dimension  int
	logger     *slog.Logger
}

var _ index.Index = (*Store)(nil)

// NewStore creates a store for the named collection on a Qdrant server.
func NewStore(client *fetch.Client, baseURL, apiKey, collection string) (*Store, error) {
	if client == nil {
		return nil, errors.New("fetch client required")
	}
	if baseURL == "" {
		return nil, errors.New("qdrant url required")
	}
	if collection == "" {
		return nil, errors.New("collection name required")
	}
	return &Store{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		collection: collection,
		logger:     slog.Default().With("component", "qdrant-index", "collection", collection),
	}, nil
}

// EnsureCollection creates the collection if a GET does not find it. The
// dimension is remembered so later writes and searches are validated
// client-side before any request leaves the process.
func (s *Store) EnsureCollection(ctx context.Context, dimension int, metric index.Metric) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	if metric == "" {
		metric = index.MetricCosine
	}

	data, err := s.doRequest(ctx, http.MethodGet, "/collections/"+s.collection, nil)
	if err == nil {
		var parsed struct {
			Result struct {
				Config struct {
					Params struct {
						Vectors struct {
							Size int `json:"size"`
						} `json:"vectors"`
					} `json:"params"`
				} `json:"config"`
			} `json:"result"`
		}
		if jsonErr := json.Unmarshal(data, &parsed); jsonErr == nil {
			if size := parsed.Result.Config.Params.Vectors.Size; size > 0 && size != dimension {
				return fmt.Errorf("%w: collection has %d, want %d",
					core.ErrDimensionMismatch, size, dimension)
			}
		}
		s.dimension = dimension
		return nil
	}
	var statusErr *fetch.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		return err
	}

	req := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": string(metric),
		},
	}
	if _, err := s.doRequest(ctx, http.MethodPut, "/collections/"+s.collection, req); err != nil {
		return err
	}
	s.dimension = dimension

	s.logger.Info("collection created", "dimension", dimension, "metric", metric)
	return nil
}

// Upsert writes the points in one request with wait=true, so the write is
// visible to the next search.
func (s *Store) Upsert(ctx context.Context, points []*core.StoredPoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	payload := make([]map[string]any, 0, len(points))
	for _, point := range points {
		if err := core.ValidatePoint(point, s.dimension); err != nil {
			return 0, err
		}
		if point.ID == uuid.Nil {
			point.ID = uuid.New()
		}
		payload = append(payload, map[string]any{
			"id":      point.ID.String(),
			"vector":  point.Vector,
			"payload": encodePayload(point.Payload),
		})
	}

	req := map[string]any{"points": payload}
	_, err := s.doRequest(ctx, http.MethodPut, "/collections/"+s.collection+"/points?wait=true", req)
	if err != nil {
		return 0, s.mapNotFound(err)
	}

	s.logger.Debug("points upserted", "count", len(points))
	return len(points), nil
}

// Search queries the collection and decodes score and payload per hit.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error) {
	if limit <= 0 {
		limit = index.DefaultSearchLimit
	}
	if s.dimension > 0 && len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d, want %d",
			core.ErrDimensionMismatch, len(vector), s.dimension)
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	data, err := s.doRequest(ctx, http.MethodPost, "/collections/"+s.collection+"/points/search", req)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	var parsed struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	hits := make([]core.SearchHit, 0, len(parsed.Result))
	for _, item := range parsed.Result {
		hitPayload := decodePayload(item.Payload)
		hits = append(hits, core.SearchHit{
			Text:    hitPayload.Text,
			Score:   item.Score,
			Payload: hitPayload,
		})
	}
	return hits, nil
}

// Close is a no-op; the store holds no connection state.
func (s *Store) Close() error {
	return nil
}

func (s *Store) mapNotFound(err error) error {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return index.ErrCollectionNotFound
	}
	return err
}

func (s *Store) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var encoded []byte
	header := http.Header{}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		encoded = data
		header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(ctx, &fetch.Request{
		Method: method,
		URL:    s.baseURL + path,
		Header: header,
		Body:   encoded,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// encodePayload maps a point payload to the JSON object stored in Qdrant.
func encodePayload(p core.Payload) map[string]any {
	payload := map[string]any{
		"text":     p.Text,
		"filename": p.Filename,
	}
	if !p.UploadDate.IsZero() {
		payload["upload_date"] = p.UploadDate.UTC().Format(time.RFC3339)
	}
	for k, v := range p.Extra {
		payload[k] = v
	}
	return payload
}

// decodePayload is the inverse of encodePayload. Unknown keys land in Extra.
func decodePayload(raw map[string]any) core.Payload {
	var p core.Payload
	for k, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		switch k {
		case "text":
			p.Text = str
		case "filename":
			p.Filename = str
		case "upload_date":
			if t, err := time.Parse(time.RFC3339, str); err == nil {
				p.UploadDate = t
			}
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]string)
			}
			p.Extra[k] = str
		}
	}
	return p
}
