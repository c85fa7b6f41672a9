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


// Package gemini implements provider.Completer against the Google Gemini
// generateContent REST API.
package gemini

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

// DefaultHost is the public Gemini API endpoint.
const DefaultHost = "https://generativelanguage.googleapis.com"

// Completer implements provider.Completer using the Gemini REST API.
type Completer struct {
	client *fetch.Client
	host   string
	model  string
	apiKey string
	logger *slog.Logger
}

var _ provider.Completer = (*Completer)(nil)

// NewCompleter creates a Gemini completer. All calls go through the fetch
// client's retry/backoff contract.
func NewCompleter(client *fetch.Client, host, model, apiKey string) (*Completer, error) {
	if client == nil {
		return nil, errors.New("fetch client required")
	}
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		return nil, errors.New("completion model required")
	}
	return &Completer{
		client: client,
		host:   strings.TrimSuffix(host, "/"),
		model:  model,
		apiKey: apiKey,
		logger: slog.Default().With("component", "gemini-completer"),
	}, nil
}

// generateRequest mirrors the generateContent request body.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the documented generateContent response shape. Any
// deviation is treated as a decode failure, not guessed around.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt to Gemini and decodes the first candidate.
// Provider-side failures delivered as HTTP errors are reported through
// Completion.OK so the caller can fall back to a degraded answer.
func (c *Completer) Complete(ctx context.Context, prompt string) (provider.Completion, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return provider.Completion{}, err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.host, c.model)
	header := http.Header{"Content-Type": {"application/json"}}
	if c.apiKey != "" {
		header.Set("X-goog-api-key", c.apiKey)
	}

	resp, err := c.client.Do(ctx, &fetch.Request{
		Method: http.MethodPost,
		URL:    url,
		Header: header,
		Body:   body,
	})
	if err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			// The provider answered; surface its complaint instead of failing
			// the whole query.
			c.logger.Error("gemini api error", "status", statusErr.StatusCode, "detail", statusErr.Excerpt)
			return provider.Completion{ErrorDetail: statusErr.Error()}, nil
		}
		return provider.Completion{}, err
	}

	var decoded generateResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		c.logger.Error("failed to decode gemini response", "err", err)
		return provider.Completion{ErrorDetail: fmt.Sprintf("malformed response: %v", err)}, nil
	}

	if decoded.Error != nil {
		c.logger.Error("gemini api error", "detail", decoded.Error.Message)
		return provider.Completion{ErrorDetail: decoded.Error.Message}, nil
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		c.logger.Warn("gemini response has no candidates")
		return provider.Completion{ErrorDetail: "response has no candidates"}, nil
	}

	var sb strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return provider.Completion{ErrorDetail: "empty candidate text"}, nil
	}

	return provider.Completion{OK: true, Text: text}, nil
}
