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

import "fmt"

// ValidatePoint validates a StoredPoint according to domain rules.
//
// Validation rules:
//   - Payload.Text must not be empty
//   - Vector must not be empty
//   - Vector length must equal dimension when dimension > 0
//
// NOT validated:
//   - ID (the zero UUID is valid; the index assigns one at store time)
//   - Filename and UploadDate (optional metadata)
func ValidatePoint(point *StoredPoint, dimension int) error {
	if point == nil {
		return fmt.Errorf("%w: point is nil", ErrInvalidPoint)
	}

	if point.Payload.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPoint, ErrEmptyText)
	}

	if len(point.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPoint, ErrEmptyVector)
	}

	if dimension > 0 && len(point.Vector) != dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(point.Vector), dimension)
	}

	return nil
}
