package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaiwacoach/kaiwa-backend/internal/common"
	"github.com/kaiwacoach/kaiwa-backend/internal/config"
	"github.com/kaiwacoach/kaiwa-backend/internal/httpapi/handlers"
	"github.com/kaiwacoach/kaiwa-backend/internal/httpapi/middleware"
	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
)

func NewRouter(log *logger.Logger, cfg config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.GET("/ping", h.Ping)

	auth := r.Group("/")
	auth.Use(middleware.AuthRequired(cfg.JWTSecret))

	// chat
	auth.POST("/rooms", h.CreateRoom)
	auth.GET("/rooms", h.ListRooms)
	auth.GET("/rooms/:room_id/messages", h.ListRoomMessages)
	auth.POST("/rooms/:room_id/messages", h.SendRoomMessage)
	auth.DELETE("/rooms/:room_id/messages/:message_id", h.DeleteRoomMessage)
	auth.POST("/rooms/:room_id/read", h.MarkRoomRead)

	// realtime
	auth.GET("/events", h.Events)

	// AI sessions
	auth.POST("/ai/sessions", h.CreateAiSession)
	auth.GET("/ai/sessions", h.ListAiSessions)
	auth.PATCH("/ai/sessions/:session_id", h.RenameAiSession)
	auth.DELETE("/ai/sessions/:session_id", h.DeleteAiSession)
	auth.GET("/ai/sessions/:session_id/messages", h.ListAiMessages)
	auth.POST("/ai/sessions/:session_id/messages", h.SendAiMessage)
	auth.POST("/ai/rephrase", h.Rephrase)

	// analytics
	auth.GET("/analytics/streak", h.GetStreak)
	auth.GET("/analytics/reports/:year/:month", h.GetMonthlyReport)
	auth.GET("/analytics/recommendations", h.GetRecommendations)
	auth.PUT("/analytics/score-goal", h.PutScoreGoal)
	auth.GET("/analytics/score-goal", h.GetScoreGoal)

	return r
}
