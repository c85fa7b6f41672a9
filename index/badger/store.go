package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/mynk/notebook/core"
	"github.com/mynk/notebook/index"
)

// Store implements index.Index on a BadgerDB backend. One Store serves one
// collection; several stores can share a backend.
type Store struct {
	backend    *Backend
	collection string
	logger     *slog.Logger
}

var _ index.Index = (*Store)(nil)

// NewStore creates a store for the named collection.
func NewStore(backend *Backend, collection string) (*Store, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	if collection == "" {
		return nil, errors.New("collection name required")
	}
	return &Store{
		backend:    backend,
		collection: collection,
		logger:     slog.Default().With("component", "badger-index", "collection", collection),
	}, nil
}

// EnsureCollection creates the collection metadata if it does not exist.
// An existing collection with a different dimension is a configuration
// error, not something to silently overwrite.
func (s *Store) EnsureCollection(ctx context.Context, dimension int, metric index.Metric) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	if s.backend.IsClosed() {
		return index.ErrIndexClosed
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		existing, err := s.readMeta(tx)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Dimension != dimension {
				return fmt.Errorf("%w: collection has dimension %d, want %d",
					core.ErrDimensionMismatch, existing.Dimension, dimension)
			}
			return nil
		}

		meta := core.CollectionMeta{
			Dimension: dimension,
			Metric:    string(metric),
			CreatedAt: time.Now().UTC(),
		}
		value := make([]byte, core.CollectionMetaMUS.Size(meta))
		core.CollectionMetaMUS.Marshal(meta, value)
		if err := tx.Set(makeMetaKey(s.collection), value); err != nil {
			return err
		}

		s.logger.Info("collection created", "dimension", dimension, "metric", metric)
		return tx.Commit()
	}, true)
}

// Upsert stores the points in a single transaction. Points with a zero ID
// get a fresh uuid, unless a chunk with the same text fingerprint already
// exists for the same filename, in which case the existing id is reused and
// the point overwritten in place.
func (s *Store) Upsert(ctx context.Context, points []*core.StoredPoint) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	if s.backend.IsClosed() {
		return 0, index.ErrIndexClosed
	}

	var written int
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := s.readMeta(tx)
		if err != nil {
			return err
		}
		if meta == nil {
			return index.ErrCollectionNotFound
		}

		for _, point := range points {
			if err := core.ValidatePoint(point, meta.Dimension); err != nil {
				return err
			}

			fpKey := makeFingerprintKey(s.collection, point.Payload.Filename,
				core.Fingerprint(point.Payload.Text))

			if point.ID == uuid.Nil {
				existingID, err := readFingerprint(tx, fpKey)
				if err != nil {
					return err
				}
				if existingID != uuid.Nil {
					point.ID = existingID
				} else {
					point.ID = uuid.New()
				}
			}

			stored := core.StoredPoint{
				ID:      point.ID,
				Vector:  core.NormalizeVector(point.Vector),
				Payload: point.Payload,
			}
			value := make([]byte, core.PointMUS.Size(stored))
			core.PointMUS.Marshal(stored, value)

			if err := tx.Set(makePointKey(s.collection, point.ID), value); err != nil {
				return err
			}
			if err := tx.Set(fpKey, point.ID[:]); err != nil {
				return err
			}
			written++
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}

	s.logger.Debug("points upserted", "count", written)
	return written, nil
}

// Search scans the collection's points and returns the top hits by cosine
// similarity. Stored vectors are normalized at upsert time, so similarity
// is a dot product against the normalized query vector.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error) {
	if limit <= 0 {
		limit = index.DefaultSearchLimit
	}
	if s.backend.IsClosed() {
		return nil, index.ErrIndexClosed
	}
	query := core.NormalizeVector(vector)

	var hits []core.SearchHit
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := s.readMeta(tx)
		if err != nil {
			return err
		}
		if meta == nil {
			return index.ErrCollectionNotFound
		}
		if len(query) != meta.Dimension {
			return fmt.Errorf("%w: query has dimension %d, collection wants %d",
				core.ErrDimensionMismatch, len(query), meta.Dimension)
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePointScanPrefix(s.collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var point core.StoredPoint
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, _, err = core.PointMUS.Unmarshal(val)
				return err
			})
			if err != nil {
				return err
			}

			hits = append(hits, core.SearchHit{
				Text:    point.Payload.Text,
				Score:   core.DotProduct(query, point.Vector),
				Payload: point.Payload,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Stable keeps the scan order for equal scores
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (s *Store) Close() error {
	return nil
}

// readMeta returns the collection metadata, or nil if the collection does
// not exist.
func (s *Store) readMeta(tx *badger.Txn) (*core.CollectionMeta, error) {
	item, err := tx.Get(makeMetaKey(s.collection))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var meta core.CollectionMeta
	err = item.Value(func(val []byte) error {
		var err error
		meta, _, err = core.CollectionMetaMUS.Unmarshal(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// readFingerprint returns the point id recorded for a fingerprint key, or
// uuid.Nil if none exists.
func readFingerprint(tx *badger.Txn, key []byte) (uuid.UUID, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = item.Value(func(val []byte) error {
		parsed, err := uuid.FromBytes(val)
		if err != nil {
			return err
		}
		id = parsed
		return nil
	})
	return id, err
}
