package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	for _, name := range []string{"storage", "scheduler", "http"} {
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "scheduler", "storage"}, order)
}

func TestShutdownJoinsErrorsAndRunsOnce(t *testing.T) {
	m := New(time.Second, nil)
	boom := errors.New("boom")
	calls := 0
	m.Register("a", func(context.Context) error { calls++; return boom })
	m.Register("b", func(context.Context) error { calls++; return nil })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Shutdown(context.Background()), boom)
	assert.Equal(t, 2, calls)
}

func TestShutdownAppliesTimeout(t *testing.T) {
	m := New(20*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, m.Shutdown(context.Background()), context.DeadlineExceeded)
}
