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


// Package pipeline orchestrates document ingestion and question answering.
//
// Ingestion runs extract, chunk, embed, upsert; embedding calls run
// concurrently on a worker pool and the whole batch is stored in one upsert,
// so a document is either fully indexed or not indexed at all. Querying runs
// embed, search, generate, and degrades to a locally built answer when the
// completion model is unavailable.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/mynk/notebook/answer"
	"github.com/mynk/notebook/chunker"
	"github.com/mynk/notebook/core"
	"github.com/mynk/notebook/extract"
	"github.com/mynk/notebook/index"
	"github.com/mynk/notebook/provider"
)

// Metadata describes the document being ingested.
type Metadata struct {
	Filename   string
	UploadDate time.Time
}

// IngestResult reports what an ingestion stored.
type IngestResult struct {
	ChunksStored int
}

// Source identifies a document that contributed to an answer.
type Source struct {
	Filename string
	Score    float32
}

// QueryResult is the outcome of answering one question.
type QueryResult struct {
	Answer      string
	SourceCount int
	Sources     []Source
	Degraded    bool
}

// Pipeline orchestrates ingestion and retrieval against one collection.
type Pipeline struct {
	index       index.Index
	embedder    provider.Embedder
	generator   *answer.Generator
	chunker     *chunker.Chunker
	pool        *ants.Pool
	searchLimit int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunker overrides the default chunker.
func WithChunker(c *chunker.Chunker) Option {
	return func(p *Pipeline) error {
		if c == nil {
			return chunker.ErrInvalidChunking
		}
		p.chunker = c
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithSearchLimit sets how many hits a query retrieves.
// Default is index.DefaultSearchLimit.
func WithSearchLimit(limit int) Option {
	return func(p *Pipeline) error {
		if limit > 0 {
			p.searchLimit = limit
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a pipeline on the given index and model services.
func New(idx index.Index, embedder provider.Embedder, completer provider.Completer, opts ...Option) (*Pipeline, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	defaultChunker, err := chunker.New()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		index:       idx,
		embedder:    embedder,
		generator:   answer.NewGenerator(completer),
		chunker:     defaultChunker,
		pool:        pool,
		searchLimit: index.DefaultSearchLimit,
		logger:      slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest extracts text from the document, chunks it, embeds every chunk, and
// stores the batch in one upsert. The first embedding failure cancels the
// remaining work and nothing is stored.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, kind extract.Kind, meta Metadata) (IngestResult, error) {
	text, err := extract.ExtractText(kind, data)
	if err != nil {
		return IngestResult{}, err
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		p.logger.Warn("document produced no chunks", "filename", meta.Filename)
		return IngestResult{}, nil
	}

	p.logger.Info("ingesting document",
		"filename", meta.Filename, "kind", kind.String(), "chunks", len(chunks))

	vectors, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return IngestResult{}, fmt.Errorf("embedding chunks: %w", err)
	}

	uploadDate := meta.UploadDate
	if uploadDate.IsZero() {
		uploadDate = time.Now().UTC()
	}

	points := make([]*core.StoredPoint, len(chunks))
	for i, chunk := range chunks {
		points[i] = &core.StoredPoint{
			Vector: vectors[i],
			Payload: core.Payload{
				Text:       chunk.Text,
				Filename:   meta.Filename,
				UploadDate: uploadDate,
			},
		}
	}

	written, err := p.index.Upsert(ctx, points)
	if err != nil {
		return IngestResult{}, fmt.Errorf("storing chunks: %w", err)
	}

	return IngestResult{ChunksStored: written}, nil
}

// embedChunks embeds each chunk on the worker pool. Results keep chunk order.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []core.Chunk) ([][]float32, error) {
	embedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	vectors := make([][]float32, len(chunks))

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for i, chunk := range chunks {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			vector, err := p.embedder.EmbedText(embedCtx, chunk.Text)
			if err != nil {
				fail(err)
				return
			}
			vectors[i] = vector
		})
		if err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Query answers a question from the indexed documents. An embedding failure
// aborts the query; a completion failure does not, the answer degrades
// instead. fileScope, when non-empty, restricts hits to the named files.
func (p *Pipeline) Query(ctx context.Context, question string, fileScope []string) (QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return QueryResult{}, ErrEmptyQuestion
	}

	vector, err := p.embedder.EmbedText(ctx, question)
	if err != nil {
		return QueryResult{}, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := p.index.Search(ctx, vector, p.searchLimit)
	if err != nil {
		return QueryResult{}, fmt.Errorf("searching index: %w", err)
	}

	if len(fileScope) > 0 {
		hits = filterByFilename(hits, fileScope)
	}

	text, degraded := p.generator.Generate(ctx, question, hits)

	sources := make([]Source, len(hits))
	for i, hit := range hits {
		sources[i] = Source{Filename: hit.Payload.Filename, Score: hit.Score}
	}

	p.logger.Info("question answered",
		"sources", len(hits), "degraded", degraded)

	return QueryResult{
		Answer:      text,
		SourceCount: len(hits),
		Sources:     sources,
		Degraded:    degraded,
	}, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// filterByFilename keeps hits whose filename is in the scope list.
func filterByFilename(hits []core.SearchHit, scope []string) []core.SearchHit {
	allowed := make(map[string]struct{}, len(scope))
	for _, name := range scope {
		allowed[name] = struct{}{}
	}

	filtered := hits[:0]
	for _, hit := range hits {
		if _, ok := allowed[hit.Payload.Filename]; ok {
			filtered = append(filtered, hit)
		}
	}
	return filtered
}
