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


// Package answer turns retrieved context into a grounded answer.
//
// A model failure never fails the query: when the completer cannot produce
// text, Generate falls back to a degraded answer built from the best
// retrieved chunk, so the caller always gets something to show.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mynk/notebook/core"
	"github.com/mynk/notebook/provider"
)

const noContextAnswer = "No relevant context found in your uploaded documents."

// Generator produces answers from retrieved context.
type Generator struct {
	completer provider.Completer
	logger    *slog.Logger
}

// NewGenerator creates a generator on the given completer.
func NewGenerator(completer provider.Completer) *Generator {
	return &Generator{
		completer: completer,
		logger:    slog.Default().With("component", "answer"),
	}
}

// Generate answers the question from the retrieved hits. The second return
// reports whether the answer is degraded: built locally instead of by the
// model. Provider failures are absorbed into a degraded answer and logged;
// Generate never returns an error to the caller.
func (g *Generator) Generate(ctx context.Context, question string, hits []core.SearchHit) (string, bool) {
	if len(hits) == 0 {
		return noContextAnswer, true
	}

	prompt := buildPrompt(question, hits)

	completion, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		g.logger.Error("completion failed", "err", err)
		return degradedAnswer(hits), true
	}
	if !completion.OK || completion.Text == "" {
		g.logger.Warn("completion unusable, serving degraded answer", "detail", completion.ErrorDetail)
		return degradedAnswer(hits), true
	}

	g.logger.Debug("grounded answer generated", "sources", len(hits))
	return completion.Text, false
}

// buildPrompt assembles the grounding prompt: context chunks separated by
// blank lines, then the question, then the instruction to stay within the
// provided context.
func buildPrompt(question string, hits []core.SearchHit) string {
	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Text
	}
	contextText := strings.Join(texts, "\n\n")

	return fmt.Sprintf(`Based on the following context from uploaded documents, please answer the question concisely and accurately.

Context:
%s

Question: %s

Answer based only on the context provided:`, contextText, question)
}

// degradedAnswer builds an answer from the best hit when the model is
// unavailable.
func degradedAnswer(hits []core.SearchHit) string {
	return fmt.Sprintf("Based on your uploaded document: %s. (API temporarily unavailable)", hits[0].Text)
}
