// Package monitor periodically probes the snapshot storage backend.
package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mo-tomi/nowtask8/pkg/timeutil"
)

var errNoTarget = errors.New("no storage configured")

// Pinger is satisfied by every repository.SnapshotRepository.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Status struct {
	Driver    string    `json:"driver"`
	Storage   bool      `json:"storage"`
	Error     string    `json:"error,omitempty"`
	Failures  int       `json:"consecutive_failures"`
	LastCheck time.Time `json:"last_check"`
}

type Monitor struct {
	driver   string
	target   Pinger
	interval time.Duration
	timeout  time.Duration
	clock    timeutil.Clock
	logger   *zap.Logger

	mu     sync.RWMutex
	status Status

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func New(driver string, target Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		driver:   driver,
		target:   target,
		interval: interval,
		timeout:  3 * time.Second,
		clock:    timeutil.RealClock{},
		logger:   logger,
		status:   Status{Driver: driver},
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start probes once immediately and then every interval until Stop.
func (m *Monitor) Start() {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go m.loop()
}

// Stop ends the probe loop and waits for it to exit. Safe to call twice.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	if m.started.Load() {
		<-m.done
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	defer close(m.done)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	err := m.probe()

	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.status
	next := Status{Driver: m.driver, Storage: err == nil, LastCheck: m.clock.Now()}
	if err != nil {
		next.Error = err.Error()
		next.Failures = prev.Failures + 1
	}
	m.status = next

	switch {
	case err != nil && (prev.Storage || prev.LastCheck.IsZero()):
		m.logger.Warn("storage went offline", zap.String("driver", m.driver), zap.Error(err))
	case err == nil && !prev.Storage && !prev.LastCheck.IsZero():
		m.logger.Info("storage back online", zap.String("driver", m.driver), zap.Int("failures", prev.Failures))
	}
}

func (m *Monitor) probe() error {
	if m.target == nil {
		return errNoTarget
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.target.Ping(ctx)
}

