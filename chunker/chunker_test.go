package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words generates a space-separated sequence "w0 w1 ... w(n-1)".
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestNew_Defaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultChunkSize, c.ChunkSize())
	assert.Equal(t, DefaultOverlap, c.Overlap())
}

func TestNew_OverlapTooLarge(t *testing.T) {
	_, err := New(WithChunkSize(100), WithOverlap(100))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChunking)

	_, err = New(WithChunkSize(100), WithOverlap(150))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChunking)
}

func TestNew_InvalidChunkSize(t *testing.T) {
	_, err := New(WithChunkSize(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidChunking)
}

func TestSplit_EmptyInput(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\t  "))
}

func TestSplit_Deterministic(t *testing.T) {
	c, err := New(WithChunkSize(50), WithOverlap(10))
	require.NoError(t, err)

	text := words(437)
	first := c.Split(text)
	second := c.Split(text)
	assert.Equal(t, first, second)
}

func TestSplit_TwelveHundredWords(t *testing.T) {
	c, err := New(WithChunkSize(500), WithOverlap(50))
	require.NoError(t, err)

	chunks := c.Split(words(1200))
	require.Len(t, chunks, 3)

	counts := make([]int, len(chunks))
	for i, chunk := range chunks {
		counts[i] = len(strings.Fields(chunk.Text))
	}
	// Windows start every 450 words, so the tail window holds 300 words.
	assert.Equal(t, []int{500, 500, 300}, counts)

	// Each pair of consecutive chunks shares exactly 50 words.
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Text)
		cur := strings.Fields(chunks[i].Text)
		assert.Equal(t, prev[len(prev)-50:], cur[:50],
			"chunks %d and %d should overlap by 50 words", i-1, i)
	}
}

func TestSplit_Coverage(t *testing.T) {
	c, err := New(WithChunkSize(40), WithOverlap(8))
	require.NoError(t, err)

	original := strings.Fields(words(333))
	chunks := c.Split(words(333))
	require.NotEmpty(t, chunks)

	// Concatenating each chunk's non-overlapping portion reconstructs the
	// original word sequence.
	var reconstructed []string
	for i, chunk := range chunks {
		chunkWords := strings.Fields(chunk.Text)
		if i == 0 {
			reconstructed = append(reconstructed, chunkWords...)
			continue
		}
		reconstructed = append(reconstructed, chunkWords[c.Overlap():]...)
	}
	assert.Equal(t, original, reconstructed)
}

func TestSplit_ShorterThanChunkSize(t *testing.T) {
	c, err := New(WithChunkSize(500), WithOverlap(50))
	require.NoError(t, err)

	chunks := c.Split("just a few words here")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few words here", chunks[0].Text)
}

func TestSplit_ExactWindow(t *testing.T) {
	c, err := New(WithChunkSize(10), WithOverlap(3))
	require.NoError(t, err)

	chunks := c.Split(words(10))
	require.Len(t, chunks, 1)
	assert.Len(t, strings.Fields(chunks[0].Text), 10)
}

func TestSplit_CollapsesWhitespace(t *testing.T) {
	c, err := New(WithChunkSize(4), WithOverlap(1))
	require.NoError(t, err)

	chunks := c.Split("a  b\t c\n\nd  e")
	require.Len(t, chunks, 2)
	assert.Equal(t, "a b c d", chunks[0].Text)
	assert.Equal(t, "d e", chunks[1].Text)
}
