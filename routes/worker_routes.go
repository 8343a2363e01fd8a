package routes

import (
	"bway/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupWorkerRoutes sets up the admin routes for worker control and queue
// inspection.
func SetupWorkerRoutes(r *gin.Engine, adminHandler *handlers.AdminHandler) {
	r.GET("/health", adminHandler.Health)

	admin := r.Group("/admin")
	{
		workers := admin.Group("/workers")
		{
			workers.GET("/status", adminHandler.GetStatus)
			workers.POST("/start", adminHandler.StartAll)
			workers.POST("/stop", adminHandler.StopAll)
			workers.POST("/:name/start", adminHandler.StartWorker)
			workers.POST("/:name/stop", adminHandler.StopWorker)
		}

		queues := admin.Group("/queues")
		{
			queues.POST("/:name/purge", adminHandler.PurgeQueue)
		}
	}
}
