// Package handlers exposes the operational HTTP surface of the worker
// process. These endpoints control workers and inspect queues; order intake
// lives in the main API service.
package handlers

import (
	"net/http"

	"bway/internal/queue"
	"bway/internal/utils"
	"bway/internal/workers"
	"bway/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	manager   *workers.Manager
	transport queue.Transport
	logger    *logger.Logger
}

func NewAdminHandler(manager *workers.Manager, transport queue.Transport, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		manager:   manager,
		transport: transport,
		logger:    log,
	}
}

func (h *AdminHandler) Health(c *gin.Context) {
	utils.SuccessResponse(c, "ok", gin.H{"running": h.manager.Status().Running})
}

// GetStatus reports every registered worker plus live queue depths.
func (h *AdminHandler) GetStatus(c *gin.Context) {
	status := h.manager.Status()

	queues := make(map[string]interface{}, len(status.Workers))
	for name, ws := range status.Workers {
		if ws.QueueURL == "" {
			continue
		}
		stats, err := h.transport.Stats(c.Request.Context(), ws.QueueURL)
		if err != nil {
			h.logger.WithField("worker", name).WithError(err).Warn("Failed to fetch queue stats")
			queues[name] = gin.H{"error": err.Error()}
			continue
		}
		queues[name] = stats
	}

	utils.SuccessResponse(c, "worker status", gin.H{
		"running": status.Running,
		"workers": status.Workers,
		"queues":  queues,
	})
}

func (h *AdminHandler) StartAll(c *gin.Context) {
	h.manager.StartAll()
	utils.SuccessResponse(c, "all workers started", h.manager.Status())
}

func (h *AdminHandler) StopAll(c *gin.Context) {
	h.manager.StopAll()
	utils.SuccessResponse(c, "all workers stopped", h.manager.Status())
}

func (h *AdminHandler) StartWorker(c *gin.Context) {
	name := c.Param("name")
	if err := h.manager.Start(name); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "WORKER_NOT_FOUND", err.Error())
		return
	}
	utils.SuccessResponse(c, "worker started", gin.H{"worker": name})
}

func (h *AdminHandler) StopWorker(c *gin.Context) {
	name := c.Param("name")
	if err := h.manager.Stop(name); err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "WORKER_NOT_FOUND", err.Error())
		return
	}
	utils.SuccessResponse(c, "worker stopped", gin.H{"worker": name})
}

// PurgeQueue drops every message from the named worker's queue. Destructive;
// intended for stuck development queues.
func (h *AdminHandler) PurgeQueue(c *gin.Context) {
	name := c.Param("name")

	status := h.manager.Status()
	ws, ok := status.Workers[name]
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "WORKER_NOT_FOUND", "unknown worker "+name)
		return
	}

	if err := h.transport.Purge(c.Request.Context(), ws.QueueURL); err != nil {
		h.logger.WithField("worker", name).WithError(err).Error("Failed to purge queue")
		utils.InternalServerErrorResponse(c)
		return
	}

	h.logger.WithField("worker", name).Warn("Queue purged")
	utils.SuccessResponse(c, "queue purged", gin.H{"worker": name})
}
