package extract

import "errors"

var (
	// ErrUnsupportedType indicates an input kind or MIME type the extractor
	// does not recognize.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrExtraction indicates a malformed source document.
	ErrExtraction = errors.New("extraction failed")
)
