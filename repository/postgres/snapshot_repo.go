// Package postgres stores snapshot collections as JSONB documents in the
// collections table.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mo-tomi/nowtask8/domain"
	"github.com/mo-tomi/nowtask8/repository"
)

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type snapshotRepository struct {
	db DB
}

// NewSnapshotRepository returns a Postgres-backed SnapshotRepository.
func NewSnapshotRepository(db DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	const query = `
	SELECT key, payload
	FROM collections
	WHERE key = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, domain.Collections())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := map[string][]byte{}
	for rows.Next() {
		var (
			key     string
			payload []byte
		)
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, err
		}
		docs[key] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return repository.DecodeSnapshot(docs)
}

// Save upserts every collection inside one transaction.
func (r *snapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	docs, err := repository.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	const query = `
	INSERT INTO collections (key, payload, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE
	SET payload = EXCLUDED.payload,
		updated_at = NOW()
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, key := range domain.Collections() {
		if _, err := tx.Exec(ctx, query, key, payloadOrEmpty(docs[key])); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *snapshotRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
