package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaiwacoach/kaiwa-backend/internal/aisession"
	"github.com/kaiwacoach/kaiwa-backend/internal/common"
)

type createSessionReq struct {
	Mode       string  `json:"mode" binding:"required"`
	SceneTag   string  `json:"scene_tag"`
	ScenarioID *uint64 `json:"scenario_id"`
	RoomID     *string `json:"room_id"`
}

func (h *Handler) CreateAiSession(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	sess, err := h.SessionSvc.CreateSession(c.Request.Context(), uid, aisession.Mode(req.Mode), req.SceneTag, req.ScenarioID, req.RoomID)
	if err != nil {
		switch {
		case errors.Is(err, aisession.ErrInvalidMode):
			common.Fail(c, http.StatusBadRequest, 10003, "invalid mode")
		case errors.Is(err, aisession.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40404, "scenario not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50010, "failed to create session")
		}
		return
	}
	common.OK(c, sess)
}

func (h *Handler) ListAiSessions(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	sessions, err := h.SessionSvc.ListSessions(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50011, "failed to list sessions")
		return
	}
	common.OK(c, gin.H{"sessions": sessions})
}

type renameSessionReq struct {
	Title string `json:"title" binding:"required"`
}

func (h *Handler) RenameAiSession(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req renameSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	if err := h.SessionSvc.RenameSession(c.Request.Context(), uid, c.Param("session_id"), req.Title); err != nil {
		if errors.Is(err, aisession.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40405, "session not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50012, "failed to rename session")
		return
	}
	common.OK(c, nil)
}

func (h *Handler) DeleteAiSession(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if err := h.SessionSvc.DeleteSession(c.Request.Context(), uid, c.Param("session_id")); err != nil {
		if errors.Is(err, aisession.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40405, "session not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50013, "failed to delete session")
		return
	}
	common.OK(c, nil)
}

func (h *Handler) ListAiMessages(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	msgs, err := h.SessionSvc.ListMessages(c.Request.Context(), uid, c.Param("session_id"))
	if err != nil {
		if errors.Is(err, aisession.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40405, "session not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50014, "failed to list messages")
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}

type aiMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) SendAiMessage(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req aiMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	reply, err := h.SessionSvc.SendMessage(c.Request.Context(), uid, c.Param("session_id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, aisession.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40405, "session not found")
		case errors.Is(err, aisession.ErrModelBackend):
			common.Fail(c, http.StatusBadGateway, 50210, "model backend failure")
		default:
			common.Fail(c, http.StatusInternalServerError, 50015, "failed to send message")
		}
		return
	}
	common.OK(c, reply)
}

type rephraseReq struct {
	Text  string `json:"text" binding:"required"`
	Style string `json:"style"`
}

func (h *Handler) Rephrase(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req rephraseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	result, err := h.SessionSvc.Rephrase(c.Request.Context(), uid, req.Text, req.Style)
	if err != nil {
		if errors.Is(err, aisession.ErrModelBackend) {
			common.Fail(c, http.StatusBadGateway, 50210, "model backend failure")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50016, "failed to rephrase")
		return
	}
	common.OK(c, result)
}
