// Package bolt stores the snapshot collections in a single BoltDB bucket,
// one key per collection.
package bolt

import (
	"context"

	bolt "go.etcd.io/bbolt"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/repository"
)

// Bucket is the bucket holding the collection documents.
const Bucket = "collections"

type SnapshotRepository struct {
	db     *bolt.DB
	bucket []byte
}

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository expects db to already contain Bucket.
func NewSnapshotRepository(db *bolt.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db, bucket: []byte(Bucket)}
}

func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if r == nil || r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := map[string][]byte{}
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(r.bucket)
		if b == nil {
			return nil
		}
		for _, key := range domain.Collections() {
			if v := b.Get([]byte(key)); v != nil {
				docs[key] = append([]byte(nil), v...)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repository.DecodeSnapshot(docs)
}

// Save writes every collection in one transaction.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	docs, err := repository.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(r.bucket)
		if err != nil {
			return err
		}
		for key, payload := range docs {
			if err := b.Put([]byte(key), payload); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SnapshotRepository) Ping(ctx context.Context) error {
	if r == nil || r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(r.bucket) == nil {
			return bolt.ErrBucketNotFound
		}
		return nil
	})
}

// StoreStats summarises the bbolt file for the health endpoint.
type StoreStats struct {
	Path       string `json:"path"`
	ReadTx     int    `json:"read_tx"`
	OpenReadTx int    `json:"open_read_tx"`
	FreePages  int    `json:"free_pages"`
}

func (r *SnapshotRepository) Stats() StoreStats {
	if r == nil || r.db == nil {
		return StoreStats{}
	}
	st := r.db.Stats()
	return StoreStats{
		Path:       r.db.Path(),
		ReadTx:     st.TxN,
		OpenReadTx: st.OpenTxN,
		FreePages:  st.FreePageN,
	}
}
