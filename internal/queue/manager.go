// Package queue implements an in-memory stock event queue and worker manager.
package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/config"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/model"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/obs"
)

// Sink receives stock events once a worker dequeues them.
type Sink interface {
	Upsert(ev model.Event)
}

// Sequencer hands out increasing sequence numbers starting at 1.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Manager coordinates workers applying queued events to a Sink and scales
// them between the configured bounds.
type Manager struct {
	cfg    config.Config
	q      *Queue
	sink   Sink
	seq    Sequencer
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

// NewManager constructs a Manager with the given config, queue, and sink.
func NewManager(cfg config.Config, q *Queue, sink Sink) *Manager {
	return &Manager{cfg: cfg, q: q, sink: sink}
}

// Start begins processing and autoscaling in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.QueueHighWatermark)
	m.addWorkers(m.cfg.InitialWorkerCount)
	go m.scaler()
}

// Stop cancels background routines and stops workers.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
}

func (m *Manager) scaler() {
	t := time.NewTicker(m.cfg.ScaleInterval)
	defer t.Stop()
	idleTicks := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-t.C:
			backlog := m.q.BacklogSize()
			wc := m.WorkerCount()
			if backlog > wc*m.cfg.ScaleUpBacklogPerWorker && wc < m.cfg.WorkerMax {
				m.addWorkers(1)
				idleTicks = 0
				continue
			}
			if backlog > 0 {
				idleTicks = 0
				continue
			}
			idleTicks++
			if idleTicks >= m.cfg.ScaleDownIdleTicks && wc > m.cfg.WorkerMin {
				m.removeWorkers(1)
				idleTicks = 0
			}
		}
	}
}

func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.Logger.Info("workers_scaled", "worker_count", len(m.workerCancels))
}

func (m *Manager) removeWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n = min(n, len(m.workerCancels))
	for i := 0; i < n; i++ {
		last := len(m.workerCancels) - 1
		m.workerCancels[last]()
		m.workerCancels = m.workerCancels[:last]
	}
	obs.Logger.Info("workers_scaled", "worker_count", len(m.workerCancels))
}

func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.q.Out():
			m.sink.Upsert(ev)
			m.q.MarkProcessed()
			obs.Logger.Debug("event_applied", "item_id", ev.ItemID, "sequence", ev.Sequence)
		}
	}
}

// Enqueue proxies to the underlying queue.
func (m *Manager) Enqueue(ev model.Event) bool { return m.q.Enqueue(ev) }

// BacklogSize returns pending events in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output events.
func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

// WorkerCount returns the current number of workers.
func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// NextSequence returns the next sequence number.
func (m *Manager) NextSequence() uint64 { return m.seq.Next() }

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// Stats exposes the underlying queue counters.
func (m *Manager) Stats() Stats { return m.q.Stats() }

// DrainUntil blocks until every enqueued event has been applied or ctx is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		if m.q.Stats().Idle() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(brokerTick):
		}
	}
}
