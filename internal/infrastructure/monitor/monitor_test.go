package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

type flakyPinger struct {
	fail atomic.Bool
}

func (p *flakyPinger) Ping(context.Context) error {
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func TestRefreshTracksFailures(t *testing.T) {
	target := &flakyPinger{}
	m := New("bolt", target, time.Minute, nil)
	clock := timeutil.NewFakeClock(time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC))
	m.clock = clock

	m.refresh()
	assert.True(t, m.IsOnline())
	assert.Equal(t, "bolt", m.GetStatus().Driver)

	target.fail.Store(true)
	m.refresh()
	m.refresh()
	status := m.GetStatus()
	assert.False(t, status.Storage)
	assert.Equal(t, 2, status.Failures)
	assert.Equal(t, "connection refused", status.Error)

	target.fail.Store(false)
	clock.Advance(time.Minute)
	m.refresh()
	status = m.GetStatus()
	assert.True(t, status.Storage)
	assert.Zero(t, status.Failures)
	assert.Equal(t, clock.Now(), status.LastCheck)
}

func TestNoTargetIsOffline(t *testing.T) {
	m := New("memory", nil, 0, nil)
	m.refresh()
	assert.False(t, m.IsOnline())
	assert.Equal(t, "no storage configured", m.GetStatus().Error)
}

func TestStartStop(t *testing.T) {
	m := New("bolt", &flakyPinger{}, 10*time.Millisecond, nil)
	m.Start()
	require.Eventually(t, m.IsOnline, time.Second, 5*time.Millisecond)
	m.Stop()
	m.Stop()
}
