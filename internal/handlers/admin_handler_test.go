package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bway/internal/handlers"
	"bway/internal/queue"
	"bway/internal/workers"
	"bway/pkg/logger"
	"bway/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminTestQueue = "admin-test-queue"

func setupAdminRouter(t *testing.T) (*gin.Engine, *workers.Manager, *queue.MemoryTransport) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	transport := queue.NewMemoryTransport(time.Minute)
	manager := workers.NewManager(logger.NewNop())
	manager.Register(workers.NewWorker(workers.Config{
		Name:     "routeAssignment",
		QueueURL: adminTestQueue,
	}, transport, func(context.Context, queue.Message) error {
		return nil
	}, logger.NewNop()))

	router := gin.New()
	routes.SetupWorkerRoutes(router, handlers.NewAdminHandler(manager, transport, logger.NewNop()))

	t.Cleanup(func() { manager.StopAll() })

	return router, manager, transport
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupAdminRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusReportsWorkersAndQueues(t *testing.T) {
	router, _, transport := setupAdminRouter(t)
	require.NoError(t, transport.Send(context.Background(), adminTestQueue, []byte("{}"), nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/workers/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "routeAssignment")
	assert.Contains(t, w.Body.String(), "messagesAvailable")
}

func TestStartAndStopWorker(t *testing.T) {
	router, manager, _ := setupAdminRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/workers/routeAssignment/start", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, manager.Status().Workers["routeAssignment"].Running)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/workers/routeAssignment/stop", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, manager.Status().Workers["routeAssignment"].Running)
}

func TestStartUnknownWorkerReturns404(t *testing.T) {
	router, _, _ := setupAdminRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/workers/nope/start", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartAllAndStopAll(t *testing.T) {
	router, manager, _ := setupAdminRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/workers/start", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, manager.Status().Running)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/workers/stop", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, manager.Status().Running)
}

func TestPurgeQueue(t *testing.T) {
	router, _, transport := setupAdminRouter(t)
	require.NoError(t, transport.Send(context.Background(), adminTestQueue, []byte("{}"), nil))
	require.Equal(t, 1, transport.Depth(adminTestQueue))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/queues/routeAssignment/purge", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, transport.Depth(adminTestQueue))
}
