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


// Package notebook assembles the document question answering stack: config,
// resilient HTTP client, model provider, vector index, and the
// ingest/query pipeline behind one handle.
package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mynk/notebook/chunker"
	"github.com/mynk/notebook/config"
	"github.com/mynk/notebook/extract"
	"github.com/mynk/notebook/fetch"
	"github.com/mynk/notebook/index"
	badgerindex "github.com/mynk/notebook/index/badger"
	"github.com/mynk/notebook/index/qdrant"
	"github.com/mynk/notebook/pipeline"
	"github.com/mynk/notebook/provider"
	"github.com/mynk/notebook/provider/gemini"
	"github.com/mynk/notebook/provider/huggingface"
	"github.com/mynk/notebook/provider/openai"
)

// Notebook is the assembled system. One Notebook serves one collection.
type Notebook struct {
	cfg      *config.AppConfig
	backend  *badgerindex.Backend
	index    index.Index
	provider provider.Provider
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// Open wires a Notebook from configuration and ensures the collection
// exists. Extra pipeline options are applied after the configured defaults.
// The caller owns the returned handle and must Close it.
func Open(ctx context.Context, cfg *config.AppConfig, pipelineOpts ...pipeline.Option) (*Notebook, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fetchClient, err := newFetchClient(cfg)
	if err != nil {
		return nil, err
	}

	nb := &Notebook{
		cfg:    cfg,
		logger: slog.Default().With("component", "notebook"),
	}

	nb.provider, err = newProvider(cfg, fetchClient)
	if err != nil {
		return nil, err
	}

	nb.index, nb.backend, err = newIndex(cfg, fetchClient)
	if err != nil {
		nb.provider.Close()
		return nil, err
	}

	if err := nb.index.EnsureCollection(ctx, cfg.Provider.Dimension, index.MetricCosine); err != nil {
		nb.teardown()
		return nil, fmt.Errorf("ensuring collection: %w", err)
	}

	chunk, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunker.ChunkSize),
		chunker.WithOverlap(*cfg.Chunker.Overlap),
	)
	if err != nil {
		nb.teardown()
		return nil, err
	}

	opts := append([]pipeline.Option{pipeline.WithChunker(chunk)}, pipelineOpts...)
	nb.pipeline, err = pipeline.New(nb.index, nb.provider.Embedder(), nb.provider.Completer(), opts...)
	if err != nil {
		nb.teardown()
		return nil, err
	}

	nb.logger.Info("notebook opened",
		"provider", cfg.Provider.Type, "index", cfg.Index.Type, "collection", cfg.Index.Collection)
	return nb, nil
}

// Ingest indexes one document.
func (nb *Notebook) Ingest(ctx context.Context, data []byte, kind extract.Kind, meta pipeline.Metadata) (pipeline.IngestResult, error) {
	return nb.pipeline.Ingest(ctx, data, kind, meta)
}

// Query answers a question from the indexed documents.
func (nb *Notebook) Query(ctx context.Context, question string, fileScope []string) (pipeline.QueryResult, error) {
	return nb.pipeline.Query(ctx, question, fileScope)
}

// Index returns the underlying vector index.
func (nb *Notebook) Index() index.Index {
	return nb.index
}

// Provider returns the model provider.
func (nb *Notebook) Provider() provider.Provider {
	return nb.provider
}

// Close tears the stack down in reverse construction order.
func (nb *Notebook) Close() error {
	if nb.pipeline != nil {
		nb.pipeline.Release()
	}
	return nb.teardown()
}

func (nb *Notebook) teardown() error {
	if err := nb.provider.Close(); err != nil {
		nb.logger.Error("error closing provider", "err", err)
	}
	if nb.index != nil {
		if err := nb.index.Close(); err != nil {
			nb.logger.Error("error closing index", "err", err)
			return err
		}
	}
	if nb.backend != nil {
		if err := nb.backend.Close(); err != nil {
			nb.logger.Error("error closing index backend", "err", err)
			return err
		}
	}
	return nil
}

func newFetchClient(cfg *config.AppConfig) (*fetch.Client, error) {
	return fetch.NewClient(
		fetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		fetch.WithRetries(*cfg.Fetch.Retries),
		fetch.WithBackoffBase(time.Duration(cfg.Fetch.BackoffMillis)*time.Millisecond),
	)
}

func newProvider(cfg *config.AppConfig, fetchClient *fetch.Client) (provider.Provider, error) {
	fallback, err := provider.ParseFallbackPolicy(cfg.Provider.Fallback)
	if err != nil {
		return nil, err
	}

	var assembled provider.Provider
	switch cfg.Provider.Type {
	case "openai":
		providerCfg := provider.NewConfig(
			provider.WithHost(cfg.Provider.OpenAI.BaseURL),
			provider.WithEmbeddingModel(cfg.Provider.OpenAI.EmbeddingModel),
			provider.WithCompletionModel(cfg.Provider.OpenAI.CompletionModel),
			provider.WithEmbeddingAPIKey(os.Getenv(cfg.Provider.OpenAI.APIKeyEnv)),
			provider.WithCompletionAPIKey(os.Getenv(cfg.Provider.OpenAI.APIKeyEnv)),
			provider.WithDimension(cfg.Provider.Dimension),
			provider.WithFallback(fallback),
		)
		assembled, err = openai.NewProvider(providerCfg, fetch.NewHTTPClient(fetchClient))
		if err != nil {
			return nil, err
		}

	case "split":
		embedder, err := huggingface.NewEmbedder(fetchClient,
			cfg.Provider.HuggingFace.Endpoint, os.Getenv(cfg.Provider.HuggingFace.APIKeyEnv))
		if err != nil {
			return nil, err
		}
		completer, err := gemini.NewCompleter(fetchClient,
			cfg.Provider.Gemini.Host, cfg.Provider.Gemini.Model,
			os.Getenv(cfg.Provider.Gemini.APIKeyEnv))
		if err != nil {
			return nil, err
		}
		assembled, err = provider.NewSplit(embedder, completer)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}

	// Dimension validation and fallback policy wrap every embedder the same
	// way regardless of vendor.
	validating, err := provider.NewValidatingEmbedder(assembled.Embedder(), cfg.Provider.Dimension, fallback)
	if err != nil {
		assembled.Close()
		return nil, err
	}
	return provider.NewSplit(validating, assembled.Completer())
}

func newIndex(cfg *config.AppConfig, fetchClient *fetch.Client) (index.Index, *badgerindex.Backend, error) {
	switch cfg.Index.Type {
	case "badger":
		backend, err := badgerindex.OpenBackend(cfg.Index.Badger.Path, cfg.Index.Badger.InMemory)
		if err != nil {
			return nil, nil, err
		}
		store, err := badgerindex.NewStore(backend, cfg.Index.Collection)
		if err != nil {
			backend.Close()
			return nil, nil, err
		}
		return store, backend, nil

	case "qdrant":
		store, err := qdrant.NewStore(fetchClient, cfg.Index.Qdrant.URL,
			os.Getenv(cfg.Index.Qdrant.APIKeyEnv), cfg.Index.Collection)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown index type %q", cfg.Index.Type)
	}
}
