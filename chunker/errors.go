package chunker

import "errors"

var (
	// ErrInvalidChunking indicates chunking parameters that can never produce
	// an advancing window.
	ErrInvalidChunking = errors.New("invalid chunking parameters")
)
