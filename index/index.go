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


// Package index defines the vector index contract and its backends.
//
// An Index is scoped to a single named collection. Vectors are compared by
// cosine similarity; backends store normalized vectors so similarity reduces
// to a dot product.
package index

import (
	"context"

	"github.com/mynk/notebook/core"
)

// Metric identifies the distance function for a collection.
type Metric string

// MetricCosine is the only metric currently supported.
const MetricCosine Metric = "Cosine"

// DefaultSearchLimit is the number of hits returned when the caller passes a
// non-positive limit.
const DefaultSearchLimit = 5

// Index stores and searches embedded chunks for one collection.
type Index interface {
	// EnsureCollection creates the collection if it does not exist.
	// Idempotent: calling it on an existing collection is a no-op.
	EnsureCollection(ctx context.Context, dimension int, metric Metric) error

	// Upsert stores the points and returns how many were written. Points
	// with a zero-valued ID get a fresh uuid. From the caller's view the
	// batch is atomic: on error nothing is stored.
	Upsert(ctx context.Context, points []*core.StoredPoint) (int, error)

	// Search returns up to limit hits ordered by cosine similarity
	// descending. A non-positive limit means DefaultSearchLimit.
	Search(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error)

	// Close releases backend resources.
	Close() error
}
