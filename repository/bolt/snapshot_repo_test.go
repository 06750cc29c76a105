package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-tomi/nowtask8/domain"
	boltinfra "github.com/mo-tomi/nowtask8/internal/infrastructure/bolt"
)

func openRepo(t *testing.T) *SnapshotRepository {
	t.Helper()
	db, err := boltinfra.Open(filepath.Join(t.TempDir(), "data", "nowtask.db"), Bucket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSnapshotRepository(db)
}

func TestLoadEmpty(t *testing.T) {
	repo := openRepo(t)
	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
	assert.NotNil(t, snap.Shifts)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t)
	start := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	in := &domain.Snapshot{
		Tasks: []domain.Task{{
			ID:        "t1",
			Name:      "standup",
			StartTime: &start,
			Duration:  domain.Minutes(15),
			Tags:      []string{"work"},
			Subtasks:  []domain.Subtask{{ID: "s1", Name: "notes", Subtasks: []domain.Subtask{}}},
		}},
		ShiftPresets: []domain.ShiftPreset{{ID: "p1", Name: "work", StartTime: "09:00", EndTime: "18:00", BreakTime: 60, CreateTask: true}},
		Shifts:       domain.ShiftAssignments{"2024-05-01": {{PresetID: "p1", Name: "work"}}},
		Templates:    []domain.Template{{ID: "tp", Name: "review", Tags: []string{}}},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.True(t, start.Equal(*out.Tasks[0].StartTime))
	assert.Equal(t, "notes", out.Tasks[0].Subtasks[0].Name)
	assert.Equal(t, 60, out.ShiftPresets[0].BreakTime)
	assert.Equal(t, []string{"work"}, out.Shifts.Names("2024-05-01"))
	assert.Empty(t, out.Routines)

	// a second save overwrites rather than appends
	in.Tasks = nil
	require.NoError(t, repo.Save(ctx, in))
	out, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, out.Tasks)
}

func TestCanceledContext(t *testing.T) {
	repo := openRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, repo.Save(ctx, &domain.Snapshot{}), context.Canceled)
}

func TestStatsReportsFile(t *testing.T) {
	repo := openRepo(t)
	_, err := repo.Load(context.Background())
	require.NoError(t, err)

	st := repo.Stats()
	assert.Equal(t, "nowtask.db", filepath.Base(st.Path))
	assert.GreaterOrEqual(t, st.ReadTx, 1)
	assert.Zero(t, st.OpenReadTx)

	var nilRepo *SnapshotRepository
	assert.Equal(t, StoreStats{}, nilRepo.Stats())
}
