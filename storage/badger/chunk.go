package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository on top of an open backend.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is closed separately
// by its owner.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks adds one or more policy chunks to storage.
// Chunks that already exist (same content-derived ID) are skipped, which
// makes re-ingesting a document a no-op. Returns the number of chunks
// actually inserted.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.PolicyChunk) (int, error) {
	inserted := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if chunk.Id == 0 {
				chunk.Id = core.IDFromChunk(chunk.DocumentID, chunk.Ordinal)
			}

			key := makeChunkKey(chunk.Id)
			_, err := tx.Get(key)
			if err == nil {
				// Stored copy wins; re-ingestion leaves it intact.
				continue
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			if chunk.IngestedAt.IsZero() {
				chunk.IngestedAt = time.Now().UTC()
			}

			value := storage.MarshalPolicyChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			topicKey := makeChunkTopicKey(chunk.Topic, chunk.Id)
			if err := tx.Set(topicKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}

			inserted++
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.PolicyChunk, error) {
	var result *core.PolicyChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunks retrieves multiple chunks by their IDs.
// Missing chunks are silently omitted from the result.
func (r *ChunkRepository) GetChunks(ctx context.Context, ids ...core.ID) ([]*core.PolicyChunk, error) {
	var result []*core.PolicyChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := r.readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				result = append(result, chunk)
			}
		}
		return nil
	}, false)
	return result, err
}

// ChunkExists reports whether a chunk with the given ID is stored.
func (r *ChunkRepository) ChunkExists(ctx context.Context, id core.ID) (bool, error) {
	exists := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeChunkKey(id))
		if err == nil {
			exists = true
			return nil
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	}, false)
	return exists, err
}

// CountChunks returns the number of stored chunks for a topic.
func (r *ChunkRepository) CountChunks(ctx context.Context, topic string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkTopicKey(topic)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// TopicChunks retrieves all chunks for a topic, ordered by document ID
// and ordinal.
func (r *ChunkRepository) TopicChunks(ctx context.Context, topic string) ([]*core.PolicyChunk, error) {
	var results []*core.PolicyChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkTopicKey(topic)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id := idFromIndexKey(iter.Item().Key())
			chunk, err := r.readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.PolicyChunk) int {
		if c := strings.Compare(a.DocumentID, b.DocumentID); c != 0 {
			return c
		}
		return a.Ordinal - b.Ordinal
	})

	return results, nil
}

// Topics returns the distinct topics with at least one stored chunk.
func (r *ChunkRepository) Topics(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkTopicPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			topic := topicFromIndexKey(iter.Item().Key())
			if topic != "" {
				seen[topic] = struct{}{}
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	topics := make([]string, 0, len(seen))
	for topic := range seen {
		topics = append(topics, topic)
	}
	slices.Sort(topics)
	return topics, nil
}

// FindSimilar finds chunks within a topic similar to the given vector.
// Similarity is a dot product, which equals cosine similarity for
// normalized vectors. Results are ordered by score descending, with
// chunk ordinal as a deterministic tie-break.
func (r *ChunkRepository) FindSimilar(ctx context.Context, topic string, vector []float32, minSimilarity float32, limit int) ([]*core.RetrievedChunk, error) {
	var results []*core.RetrievedChunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkTopicKey(topic)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			id := idFromIndexKey(iter.Item().Key())
			chunk, err := r.readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, chunk.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.RetrievedChunk{
					Chunk:    chunk,
					Score:    similarity,
					Semantic: similarity,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.RetrievedChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return a.Chunk.Ordinal - b.Chunk.Ordinal
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// readChunk reads a chunk from its primary key within a transaction.
// Returns nil without error if the key does not exist.
func (r *ChunkRepository) readChunk(tx *badger.Txn, key []byte) (*core.PolicyChunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.PolicyChunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalPolicyChunk(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return chunk, nil
}

// idFromIndexKey extracts the chunk ID from the last 8 bytes of a
// topic index key.
func idFromIndexKey(key []byte) core.ID {
	if len(key) < 8 {
		return 0
	}
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
