package memory

import (
	"context"
	"sync"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/repository"
)

// SnapshotRepository keeps the encoded collections in memory. It round-trips
// through the shared codec so it behaves like the durable backends.
type SnapshotRepository struct {
	mu   sync.Mutex
	docs map[string][]byte
	fail error
}

var _ repository.SnapshotRepository = (*SnapshotRepository)(nil)

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{docs: map[string][]byte{}}
}

// FailWith makes subsequent saves return err; nil restores normal behaviour.
func (r *SnapshotRepository) FailWith(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return repository.DecodeSnapshot(r.docs)
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	docs, err := repository.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.docs = docs
	return nil
}

func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
