package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kaiwacoach/kaiwa-backend/internal/chat"
	"github.com/kaiwacoach/kaiwa-backend/internal/common"
)

type createRoomReq struct {
	PeerID uint64 `json:"peer_id" binding:"required"`
}

func (h *Handler) CreateRoom(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req createRoomReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	room, err := h.ChatSvc.CreateRoom(c.Request.Context(), uid, req.PeerID)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrSameUser):
			common.Fail(c, http.StatusBadRequest, 10002, "cannot open a room with yourself")
		case errors.Is(err, chat.ErrNotFound):
			common.Fail(c, http.StatusNotFound, 40401, "user not found")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "failed to create room")
		}
		return
	}
	common.OK(c, room)
}

func (h *Handler) ListRooms(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	rooms, err := h.ChatSvc.ListRooms(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list rooms")
		return
	}
	common.OK(c, gin.H{"rooms": rooms})
}

type sendMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) SendRoomMessage(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	entry, err := h.ChatSvc.SendMessage(c.Request.Context(), uid, c.Param("room_id"), req.Content)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "room not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50003, "failed to send message")
		return
	}
	common.OK(c, entry)
}

func (h *Handler) ListRoomMessages(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	msgs, err := h.ChatSvc.ListMessages(c.Request.Context(), uid, c.Param("room_id"))
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "room not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50004, "failed to list messages")
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}

func (h *Handler) DeleteRoomMessage(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	err := h.ChatSvc.DeleteMessage(c.Request.Context(), uid, c.Param("room_id"), c.Param("message_id"))
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40403, "message not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50005, "failed to delete message")
		return
	}
	common.OK(c, nil)
}

func (h *Handler) MarkRoomRead(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	if err := h.ChatSvc.MarkRead(c.Request.Context(), uid, c.Param("room_id")); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "room not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50006, "failed to mark read")
		return
	}
	common.OK(c, nil)
}
