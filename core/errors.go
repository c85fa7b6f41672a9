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


package core

import "errors"

// Domain validation errors
var (
	// ErrDimensionMismatch indicates a vector whose length differs from the
	// collection's declared dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidPoint indicates a StoredPoint failed validation.
	ErrInvalidPoint = errors.New("invalid stored point")

	// ErrEmptyText indicates the payload Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyVector indicates a point has no embedding vector.
	ErrEmptyVector = errors.New("vector cannot be empty")
)
