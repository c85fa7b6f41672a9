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


// Package chunker splits raw document text into overlapping word windows.
//
// A chunk is a window of chunkSize whitespace-delimited words; consecutive
// windows share overlap words so retrieval does not lose context at chunk
// boundaries. Splitting is a pure function: the same text and parameters
// always produce the same chunk sequence.
package chunker

import (
	"fmt"
	"strings"

	"github.com/mynk/notebook/core"
)

const (
	// DefaultChunkSize is the number of words per chunk.
	DefaultChunkSize = 500

	// DefaultOverlap is the number of words shared between consecutive chunks.
	DefaultOverlap = 50
)

// Chunker splits text into overlapping fixed-size word windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in words.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the number of words shared between consecutive windows.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a Chunker. The overlap must be smaller than the chunk size,
// otherwise the window would never advance.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidChunking, c.chunkSize)
	}
	if c.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d", ErrInvalidChunking, c.overlap)
	}
	if c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			ErrInvalidChunking, c.overlap, c.chunkSize)
	}

	return c, nil
}

// ChunkSize returns the configured window size in words.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split breaks text into chunks. Empty or whitespace-only input yields an
// empty slice. Windows that are empty after trimming are skipped.
func (c *Chunker) Split(text string) []core.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]core.Chunk, 0, (len(words)+step-1)/step)

	for i := 0; i < len(words); i += step {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		chunks = append(chunks, core.Chunk{Text: chunk})
		if end == len(words) {
			break
		}
	}

	return chunks
}
