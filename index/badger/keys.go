package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Key prefixes for different data types
const (
	collectionMetaPrefix   = "colmeta"
	pointPrefix            = "point"
	pointFingerprintPrefix = "pointfp"
)

// makeMetaKey generates the key holding a collection's metadata.
func makeMetaKey(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMetaPrefix, collection))
}

// makePointKey generates the key for a stored point by id.
func makePointKey(collection string, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", pointPrefix, collection, id))
}

// makePointScanPrefix generates the prefix covering all points of a collection.
func makePointScanPrefix(collection string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", pointPrefix, collection))
}

// makeFingerprintKey generates the dedup index key for a chunk. The key is
// scoped per filename so identical text from different documents stays
// independent.
func makeFingerprintKey(collection, filename string, fingerprint uint64) []byte {
	prefix := fmt.Sprintf("%s:%s:%s:", pointFingerprintPrefix, collection, filename)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian keeps the byte order stable across platforms
	binary.BigEndian.PutUint64(buf[offset:], fingerprint)
	return buf
}
