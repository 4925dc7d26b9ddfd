package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"minute-empire-backend/internal/accrual"
	"minute-empire-backend/internal/config"
	"minute-empire-backend/internal/delivery/websocket"
	"minute-empire-backend/internal/domain"
	"minute-empire-backend/internal/middleware"
	"minute-empire-backend/internal/orchestrator"
	"minute-empire-backend/internal/repository"
)

// SetupRouter wires every HTTP route onto a fresh gin.Engine.
func SetupRouter(
	cfg config.Config,
	villages repository.VillageRepository,
	troops repository.TroopRepository,
	eng *accrual.Engine,
	orch *orchestrator.Orchestrator,
	bounds domain.Bounds,
	hub *websocket.Hub,
) *gin.Engine {
	healthHandler := NewHealthHandler()
	villageHandler := NewVillageHandler(villages, eng, orch)
	mapHandler := NewMapHandler(villages, troops, bounds)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ZapLogger())
	r.Use(middleware.ZapRecovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-User-ID", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", healthHandler.HealthCheck)

	api := r.Group("/api/v1")
	{
		api.GET("/map", mapHandler.GetMap)
		api.GET("/villages", villageHandler.ListVillages)
		api.GET("/villages/:id", villageHandler.GetVillage)
		api.POST("/villages/:id/commands", villageHandler.SubmitCommand)
	}

	r.GET("/ws", func(c *gin.Context) {
		ownerID := c.GetHeader("X-User-ID")
		if ownerID == "" {
			c.JSON(401, gin.H{"message": "missing X-User-ID"})
			return
		}
		websocket.ServeWS(hub, ownerID, c.Writer, c.Request)
	})

	return r
}
