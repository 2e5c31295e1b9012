package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/session-service/internal/services"
	"github.com/SAP-F-2025/session-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	watchHandler   *WatchHandler
	service        *services.SessionService
}

func NewHandlerManager(service *services.SessionService, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(service, logger),
		watchHandler:   NewWatchHandler(service, logger),
		service:        service,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/start", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/answer", hm.sessionHandler.CaptureAnswer)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitAnswer)
			sessions.GET("/:id/time-remaining", hm.sessionHandler.GetTimeRemaining)
			sessions.GET("/:id/watch", hm.watchHandler.Watch)
			sessions.DELETE("/:id", hm.sessionHandler.TeardownSession)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":        "healthy",
			"service":       "session-service",
			"live_sessions": hm.service.LiveSessions(),
		})
	})
}
