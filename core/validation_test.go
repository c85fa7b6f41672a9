package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePoint(t *testing.T) {
	point := &StoredPoint{
		ID:      uuid.New(),
		Vector:  []float32{0.1, 0.2, 0.3},
		Payload: Payload{Text: "hello"},
	}
	require.NoError(t, ValidatePoint(point, 3))
	// Dimension 0 skips the length check
	require.NoError(t, ValidatePoint(point, 0))
}

func TestValidatePoint_Nil(t *testing.T) {
	err := ValidatePoint(nil, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestValidatePoint_EmptyText(t *testing.T) {
	err := ValidatePoint(&StoredPoint{Vector: []float32{1}}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestValidatePoint_EmptyVector(t *testing.T) {
	err := ValidatePoint(&StoredPoint{Payload: Payload{Text: "x"}}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestValidatePoint_DimensionMismatch(t *testing.T) {
	point := &StoredPoint{
		Vector:  []float32{0.1, 0.2},
		Payload: Payload{Text: "x"},
	}
	err := ValidatePoint(point, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
