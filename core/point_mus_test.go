package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointMUS_RoundTrip(t *testing.T) {
	point := StoredPoint{
		ID:     uuid.New(),
		Vector: []float32{0.1, -0.2, 0.3, 0.4},
		Payload: Payload{
			Text:       "the quick brown fox",
			Filename:   "notes.txt",
			UploadDate: time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC),
			Extra:      map[string]string{"source": "upload"},
		},
	}

	bs := make([]byte, PointMUS.Size(point))
	n := PointMUS.Marshal(point, bs)
	require.Equal(t, len(bs), n)

	got, n2, err := PointMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, n, n2)
	assert.Equal(t, point.ID, got.ID)
	assert.Equal(t, point.Vector, got.Vector)
	assert.Equal(t, point.Payload.Text, got.Payload.Text)
	assert.Equal(t, point.Payload.Filename, got.Payload.Filename)
	assert.True(t, point.Payload.UploadDate.Equal(got.Payload.UploadDate))
	assert.Equal(t, point.Payload.Extra, got.Payload.Extra)
}

func TestPointMUS_ZeroUploadDate(t *testing.T) {
	point := StoredPoint{
		ID:      uuid.New(),
		Vector:  []float32{1},
		Payload: Payload{Text: "x"},
	}

	bs := make([]byte, PointMUS.Size(point))
	PointMUS.Marshal(point, bs)

	got, _, err := PointMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.True(t, got.Payload.UploadDate.IsZero())
}

func TestPointMUS_Skip(t *testing.T) {
	point := StoredPoint{
		ID:      uuid.New(),
		Vector:  []float32{0.5, 0.5},
		Payload: Payload{Text: "skip me", Filename: "f.csv"},
	}

	bs := make([]byte, PointMUS.Size(point))
	n := PointMUS.Marshal(point, bs)

	skipped, err := PointMUS.Skip(bs)
	require.NoError(t, err)
	assert.Equal(t, n, skipped)
}

func TestPointMUS_Truncated(t *testing.T) {
	point := StoredPoint{
		ID:      uuid.New(),
		Vector:  []float32{0.5, 0.5},
		Payload: Payload{Text: "truncate me"},
	}

	bs := make([]byte, PointMUS.Size(point))
	PointMUS.Marshal(point, bs)

	_, _, err := PointMUS.Unmarshal(bs[:len(bs)/2])
	require.Error(t, err)
}

func TestCollectionMetaMUS_RoundTrip(t *testing.T) {
	meta := CollectionMeta{
		Dimension: 384,
		Metric:    "Cosine",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	bs := make([]byte, CollectionMetaMUS.Size(meta))
	n := CollectionMetaMUS.Marshal(meta, bs)
	require.Equal(t, len(bs), n)

	got, _, err := CollectionMetaMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, meta.Dimension, got.Dimension)
	assert.Equal(t, meta.Metric, got.Metric)
	assert.True(t, meta.CreatedAt.Equal(got.CreatedAt))
}
