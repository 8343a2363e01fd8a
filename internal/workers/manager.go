package workers

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bway/pkg/logger"
)

// DefaultShutdownGrace bounds how long Shutdown waits for in-flight batches.
const DefaultShutdownGrace = 5 * time.Second

type WorkerStatus struct {
	Running  bool   `json:"running"`
	QueueURL string `json:"queueUrl"`
}

type ManagerStatus struct {
	Running bool                    `json:"running"`
	Workers map[string]WorkerStatus `json:"workers"`
}

// Manager owns the named worker registry and provides the start/stop surface
// used by the process lifecycle and the admin API.
type Manager struct {
	mu      sync.Mutex
	workers map[string]*Worker
	logger  *logger.Logger
}

func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		workers: make(map[string]*Worker),
		logger:  log,
	}
}

func (m *Manager) Register(w *Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.Name()] = w
}

func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.workers))
	for name := range m.workers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manager) StartAll() {
	m.logger.Info("Starting all workers")
	for _, w := range m.snapshot() {
		w.Start()
	}
}

func (m *Manager) StopAll() {
	m.logger.Info("Stopping all workers")
	for _, w := range m.snapshot() {
		w.Stop()
	}
}

func (m *Manager) Start(name string) error {
	w, err := m.lookup(name)
	if err != nil {
		return err
	}
	w.Start()
	return nil
}

func (m *Manager) Stop(name string) error {
	w, err := m.lookup(name)
	if err != nil {
		return err
	}
	w.Stop()
	return nil
}

func (m *Manager) Status() ManagerStatus {
	status := ManagerStatus{Workers: make(map[string]WorkerStatus)}
	for name, w := range m.snapshotByName() {
		running := w.Running()
		status.Workers[name] = WorkerStatus{Running: running, QueueURL: w.QueueURL()}
		if running {
			status.Running = true
		}
	}
	return status
}

// Shutdown stops every worker and waits up to grace for their loops to
// drain. Returns false if the deadline passed with workers still running.
func (m *Manager) Shutdown(grace time.Duration) bool {
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	m.StopAll()

	deadline := time.After(grace)
	for _, w := range m.snapshot() {
		select {
		case <-w.Done():
		case <-deadline:
			m.logger.WithField("worker", w.Name()).Warn("Shutdown grace period expired")
			return false
		}
	}
	m.logger.Info("All workers stopped")
	return true
}

func (m *Manager) lookup(name string) (*Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.workers[name]
	if !ok {
		return nil, fmt.Errorf("unknown worker %q", name)
	}
	return w, nil
}

func (m *Manager) snapshot() []*Worker {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Worker, 0, len(m.workers))
	for _, w := range m.workers {
		out = append(out, w)
	}
	return out
}

func (m *Manager) snapshotByName() map[string]*Worker {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]*Worker, len(m.workers))
	for name, w := range m.workers {
		out[name] = w
	}
	return out
}
