package provider

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts. Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completion is the decoded result of a completion call. Provider response
// shapes are decoded into this fixed structure at the boundary, so
// downstream logic never inspects raw provider JSON.
type Completion struct {
	// OK reports whether the provider produced usable answer text.
	OK bool

	// Text is the answer text when OK.
	Text string

	// ErrorDetail describes the provider-side problem when not OK.
	ErrorDetail string
}

// Completer turns a prompt into completion text.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the prompt to the completion provider. Transport
	// failures return an error; provider-side problems inside a delivered
	// response are reported through Completion.OK and ErrorDetail.
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// Provider aggregates the embedding and completion services for convenient
// initialization and lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
