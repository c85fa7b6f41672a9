package provider

// Split is a Provider assembled from independently constructed services,
// used when embeddings and completions come from different vendors.
type Split struct {
	embedder  Embedder
	completer Completer
}

var _ Provider = (*Split)(nil)

// NewSplit combines an embedder and a completer into one Provider.
func NewSplit(embedder Embedder, completer Completer) (*Split, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	return &Split{embedder: embedder, completer: completer}, nil
}

// Embedder returns the text embedding service.
func (s *Split) Embedder() Embedder {
	return s.embedder
}

// Completer returns the completion service.
func (s *Split) Completer() Completer {
	return s.completer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (s *Split) Close() error {
	return nil
}
