package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kaiwacoach/kaiwa-backend/internal/aisession"
	"github.com/kaiwacoach/kaiwa-backend/internal/analytics"
	"github.com/kaiwacoach/kaiwa-backend/internal/chat"
	"github.com/kaiwacoach/kaiwa-backend/internal/common"
	"github.com/kaiwacoach/kaiwa-backend/internal/httpapi/middleware"
	"github.com/kaiwacoach/kaiwa-backend/internal/logger"
	"github.com/kaiwacoach/kaiwa-backend/internal/realtime"
)

// Handler carries the wired services. Everything is constructed in main
// and passed in; handlers own no clients of their own.
type Handler struct {
	Log          *logger.Logger
	ChatSvc      *chat.Service
	SessionSvc   *aisession.Service
	AnalyticsSvc *analytics.Service
	Subscriber   realtime.Subscriber
}

func NewHandler(log *logger.Logger, chatSvc *chat.Service, sessionSvc *aisession.Service, analyticsSvc *analytics.Service, sub realtime.Subscriber) *Handler {
	return &Handler{
		Log:          log.With("component", "HTTP"),
		ChatSvc:      chatSvc,
		SessionSvc:   sessionSvc,
		AnalyticsSvc: analyticsSvc,
		Subscriber:   sub,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

func userIDFromContext(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
