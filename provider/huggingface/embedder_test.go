package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynk/notebook/fetch"
	"github.com/mynk/notebook/provider"
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

func TestEmbedText_FlatResponse(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`[0.1, 0.2, 0.3]`))
	}))
	defer server.Close()

	embedder, err := NewEmbedder(newTestClient(t), server.URL, "hf_token")
	require.NoError(t, err)

	vector, err := embedder.EmbedText(context.Background(), "hello world")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
	assert.Equal(t, "Bearer hf_token", gotAuth)
	assert.Equal(t, "hello world", gotBody["inputs"])
}

func TestEmbedText_NestedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[0.5, 0.6]]`))
	}))
	defer server.Close()

	embedder, err := NewEmbedder(newTestClient(t), server.URL, "")
	require.NoError(t, err)

	vector, err := embedder.EmbedText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.6}, vector)
}

func TestEmbedText_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model loading"}`))
	}))
	defer server.Close()

	embedder, err := NewEmbedder(newTestClient(t), server.URL, "")
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "hello")
	assert.ErrorIs(t, err, provider.ErrEmbedding)
}

func TestEmbedText_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	embedder, err := NewEmbedder(newTestClient(t), server.URL, "")
	require.NoError(t, err)

	_, err = embedder.EmbedText(context.Background(), "hello")
	var statusErr *fetch.StatusError
	assert.ErrorAs(t, err, &statusErr)
}

func TestEmbedTexts_Order(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls++
		if body["inputs"] == "first" {
			_, _ = w.Write([]byte(`[1, 0]`))
			return
		}
		_, _ = w.Write([]byte(`[0, 1]`))
	}))
	defer server.Close()

	embedder, err := NewEmbedder(newTestClient(t), server.URL, "")
	require.NoError(t, err)

	vectors, err := embedder.EmbedTexts(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1}, vectors[1])
	assert.Equal(t, 2, calls)
}

func TestNewEmbedder_Validation(t *testing.T) {
	_, err := NewEmbedder(nil, "http://example.com", "")
	assert.Error(t, err)

	_, err = NewEmbedder(newTestClient(t), "", "")
	assert.Error(t, err)
}
