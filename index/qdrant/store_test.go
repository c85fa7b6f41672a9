package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynk/notebook/core"
	"github.com/mynk/notebook/fetch"
	"github.com/mynk/notebook/index"
)

func newTestClient(t *testing.T) *fetch.Client {
	t.Helper()
	client, err := fetch.NewClient(
		fetch.WithTimeout(5*time.Second),
		fetch.WithRetries(0),
	)
	require.NoError(t, err)
	return client
}

func TestEnsureCollection_CreatesWhenMissing(t *testing.T) {
	var createBody map[string]any
	created := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/documents":
			if created {
				_, _ = w.Write([]byte(`{"result":{}}`))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/documents":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
			created = true
			_, _ = w.Write([]byte(`{"result":true}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	store, err := NewStore(newTestClient(t), server.URL, "", "documents")
	require.NoError(t, err)

	require.NoError(t, store.EnsureCollection(context.Background(), 384, index.MetricCosine))

	vectors, ok := createBody["vectors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(384), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])

	// Second call finds the collection and does not recreate it
	require.NoError(t, store.EnsureCollection(context.Background(), 384, index.MetricCosine))
}

func TestUpsert_SendsPointsWithWait(t *testing.T) {
	var gotQuery string
	var gotBody struct {
		Points []struct {
			ID      string         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/collections/documents/points", r.URL.Path)
		gotQuery = r.URL.RawQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
	}))
	defer server.Close()

	store, err := NewStore(newTestClient(t), server.URL, "", "documents")
	require.NoError(t, err)

	points := []*core.StoredPoint{
		{
			Vector: []float32{0.1, 0.2},
			Payload: core.Payload{
				Text:       "chunk text",
				Filename:   "a.txt",
				UploadDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			},
		},
	}

	written, err := store.Upsert(context.Background(), points)
	require.NoError(t, err)

	assert.Equal(t, 1, written)
	assert.Equal(t, "wait=true", gotQuery)
	require.Len(t, gotBody.Points, 1)
	assert.Equal(t, points[0].ID.String(), gotBody.Points[0].ID)
	assert.Equal(t, "chunk text", gotBody.Points[0].Payload["text"])
	assert.Equal(t, "a.txt", gotBody.Points[0].Payload["filename"])
	assert.Equal(t, "2026-03-01T12:00:00Z", gotBody.Points[0].Payload["upload_date"])
}

func TestSearch_DecodesHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/collections/documents/points/search", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["with_payload"])
		assert.Equal(t, float64(2), body["limit"])

		_, _ = w.Write([]byte(`{"result":[
			{"id":"x","score":0.92,"payload":{"text":"best","filename":"a.txt","page":"4"}},
			{"id":"y","score":0.41,"payload":{"text":"worse","filename":"b.txt"}}
		]}`))
	}))
	defer server.Close()

	store, err := NewStore(newTestClient(t), server.URL, "", "documents")
	require.NoError(t, err)

	hits, err := store.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "best", hits[0].Text)
	assert.InDelta(t, 0.92, hits[0].Score, 1e-6)
	assert.Equal(t, "a.txt", hits[0].Payload.Filename)
	assert.Equal(t, "4", hits[0].Payload.Extra["page"])
	assert.Equal(t, "worse", hits[1].Text)
}

func TestStore_RejectsDimensionMismatchClientSide(t *testing.T) {
	var pointRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/documents":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/documents":
			_, _ = w.Write([]byte(`{"result":true}`))
		default:
			pointRequests++
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":{"error":"Wrong input: Vector dimension error: expected dim: 3, got 2"}}`))
		}
	}))
	defer server.Close()

	store, err := NewStore(newTestClient(t), server.URL, "", "documents")
	require.NoError(t, err)
	require.NoError(t, store.EnsureCollection(context.Background(), 3, index.MetricCosine))

	_, err = store.Upsert(context.Background(), []*core.StoredPoint{
		{Vector: []float32{0.1, 0.2}, Payload: core.Payload{Text: "short"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, err = store.Search(context.Background(), []float32{0.1, 0.2}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	// The mismatch never reaches the server.
	assert.Zero(t, pointRequests)
}

func TestEnsureCollection_DimensionConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"result":{"config":{"params":{"vectors":{"size":3,"distance":"Cosine"}}}}}`))
	}))
	defer server.Close()

	store, err := NewStore(newTestClient(t), server.URL, "", "documents")
	require.NoError(t, err)

	err = store.EnsureCollection(context.Background(), 8, index.MetricCosine)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestSearch_CollectionMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store, err := NewStore(newTestClient(t), server.URL, "", "documents")
	require.NoError(t, err)

	_, err = store.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, index.ErrCollectionNotFound)
}

func TestUpsert_SendsAPIKey(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		_, _ = w.Write([]byte(`{"result":true}`))
	}))
	defer server.Close()

	store, err := NewStore(newTestClient(t), server.URL, "secret", "documents")
	require.NoError(t, err)

	_, err = store.Upsert(context.Background(), []*core.StoredPoint{
		{Vector: []float32{1}, Payload: core.Payload{Text: "t"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}

func TestNewStore_Validation(t *testing.T) {
	_, err := NewStore(nil, "http://localhost:6333", "", "documents")
	assert.Error(t, err)

	_, err = NewStore(newTestClient(t), "", "", "documents")
	assert.Error(t, err)

	_, err = NewStore(newTestClient(t), "http://localhost:6333", "", "")
	assert.Error(t, err)
}
