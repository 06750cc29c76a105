// Package redis stores snapshot collections as string keys under a prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/repository"
)

type snapshotRepository struct {
	client redislib.UniversalClient
	prefix string
}

// NewSnapshotRepository creates a Redis-backed snapshot repository.
func NewSnapshotRepository(client redislib.UniversalClient, prefix string) repository.SnapshotRepository {
	if prefix == "" {
		prefix = "nowtask:"
	}
	return &snapshotRepository{client: client, prefix: prefix}
}

func (r *snapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	collections := domain.Collections()
	keys := make([]string, len(collections))
	for i, c := range collections {
		keys[i] = r.key(c)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redislib.Nil) {
		return nil, err
	}

	docs := map[string][]byte{}
	for i, v := range values {
		switch raw := v.(type) {
		case string:
			docs[collections[i]] = []byte(raw)
		case nil:
		default:
			return nil, fmt.Errorf("unexpected value type %T for %s", v, keys[i])
		}
	}
	return repository.DecodeSnapshot(docs)
}

// Save writes every collection inside one MULTI/EXEC block.
func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	docs, err := repository.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		for _, c := range domain.Collections() {
			pipe.Set(ctx, r.key(c), docs[c], 0)
		}
		return nil
	})
	return err
}

func (r *snapshotRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *snapshotRepository) key(collection string) string {
	return fmt.Sprintf("%s%s", r.prefix, collection)
}
