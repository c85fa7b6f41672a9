package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// Chunk is a bounded, possibly overlapping span of source text.
// Chunks are the atomic retrievable unit; they exist only during ingestion.
type Chunk struct {
	Text string
}

// Payload carries the original text and document metadata attached to a
// stored point. It is returned verbatim with every search hit.
type Payload struct {
	Text       string
	Filename   string
	UploadDate time.Time // When the source document was uploaded
	Extra      map[string]string
}

// StoredPoint is a vector plus payload as persisted in the index.
// The ID is generated at store time and never reused or mutated;
// a zero-valued ID asks the index to assign a fresh one.
type StoredPoint struct {
	ID      uuid.UUID
	Vector  []float32
	Payload Payload
}

// SearchHit is a read-only match produced by a similarity search.
type SearchHit struct {
	Text    string
	Score   float32
	Payload Payload
}

// CollectionMeta is the fixed configuration of a collection.
// It is written once when the collection is created and never altered.
type CollectionMeta struct {
	Dimension int
	Metric    string
	CreatedAt time.Time
}

// Fingerprint generates a deterministic 64-bit content hash using BLAKE2b.
// Identical text always produces the same fingerprint.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
