package notebook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mynk/notebook/config"
)

func memoryConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg, err := config.Load("does-not-exist.yaml")
	require.NoError(t, err)
	cfg.Index.Badger.Path = ""
	cfg.Index.Badger.InMemory = true
	return cfg
}

func TestOpen_WiresBadgerStack(t *testing.T) {
	nb, err := Open(context.Background(), memoryConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, nb.Index())
	assert.NotNil(t, nb.Provider())
	assert.NotNil(t, nb.Provider().Embedder())
	assert.NotNil(t, nb.Provider().Completer())

	require.NoError(t, nb.Close())
}

func TestOpen_RejectsInvalidConfig(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Provider.Type = "oracle"

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpen_RejectsInvalidFallback(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Provider.Fallback = "maybe"

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpen_RejectsInvalidChunking(t *testing.T) {
	cfg := memoryConfig(t)
	overlap := 50
	cfg.Chunker.ChunkSize = 40
	cfg.Chunker.Overlap = &overlap

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
