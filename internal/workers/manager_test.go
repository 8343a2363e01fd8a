package workers_test

import (
	"context"
	"testing"
	"time"

	"bway/internal/queue"
	"bway/internal/workers"
	"bway/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopHandler(context.Context, queue.Message) error { return nil }

func newTestManager(t *testing.T) *workers.Manager {
	t.Helper()
	transport := queue.NewMemoryTransport(time.Minute)
	manager := workers.NewManager(logger.NewNop())
	for _, name := range []string{"routeAssignment", "invoiceGeneration"} {
		manager.Register(workers.NewWorker(workers.Config{
			Name:     name,
			QueueURL: name + "-queue",
		}, transport, nopHandler, logger.NewNop()))
	}
	t.Cleanup(func() { manager.StopAll() })
	return manager
}

func TestManagerStartAllStopAll(t *testing.T) {
	manager := newTestManager(t)

	manager.StartAll()
	status := manager.Status()
	assert.True(t, status.Running)
	assert.True(t, status.Workers["routeAssignment"].Running)
	assert.True(t, status.Workers["invoiceGeneration"].Running)

	manager.StopAll()
	assert.False(t, manager.Status().Running)
}

func TestManagerStartStopByName(t *testing.T) {
	manager := newTestManager(t)

	require.NoError(t, manager.Start("routeAssignment"))
	status := manager.Status()
	assert.True(t, status.Workers["routeAssignment"].Running)
	assert.False(t, status.Workers["invoiceGeneration"].Running)

	require.NoError(t, manager.Stop("routeAssignment"))
	assert.False(t, manager.Status().Running)
}

func TestManagerUnknownWorker(t *testing.T) {
	manager := newTestManager(t)

	assert.Error(t, manager.Start("bogus"))
	assert.Error(t, manager.Stop("bogus"))
}

func TestManagerNamesSorted(t *testing.T) {
	manager := newTestManager(t)
	assert.Equal(t, []string{"invoiceGeneration", "routeAssignment"}, manager.Names())
}

func TestManagerShutdownDrains(t *testing.T) {
	manager := newTestManager(t)

	manager.StartAll()
	assert.True(t, manager.Shutdown(2*time.Second))
	assert.False(t, manager.Status().Running)
}
