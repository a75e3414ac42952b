package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kaiwacoach/kaiwa-backend/internal/common"
	"github.com/kaiwacoach/kaiwa-backend/internal/realtime"
)

// Events is the realtime SSE stream. It forwards the caller's user topics
// plus the room topics for every room they belong to. A dropped connection
// loses events; clients reconcile through the history endpoints.
func (h *Handler) Events(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	rooms, err := h.ChatSvc.ListRooms(c.Request.Context(), uid)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50030, "failed to resolve rooms")
		return
	}

	topics := []string{
		realtime.UserUnreadTopic(uid),
		realtime.UserSessionsTopic(uid),
		realtime.UserRephraseTopic(uid),
	}
	for _, r := range rooms {
		topics = append(topics,
			realtime.RoomMessagesTopic(r.Room.ID),
			realtime.RoomDeletionsTopic(r.Room.ID),
		)
	}

	ctx := c.Request.Context()
	events, stop, err := h.Subscriber.Subscribe(ctx, topics...)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50031, "failed to subscribe")
		return
	}
	defer stop()

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		fmt.Fprintf(c.Writer, "event: error\ndata: flusher not supported\n\n")
		return
	}

	writeJSON := func(event string, payload any) {
		b, err := json.Marshal(payload)
		if err != nil {
			return
		}
		if event != "" {
			fmt.Fprintf(c.Writer, "event: %s\n", event)
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", string(b))
		flusher.Flush()
	}

	// heartbeat keeps intermediaries from closing idle streams
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, okk := <-events:
			if !okk {
				return
			}
			writeJSON(ev.Event.Type, gin.H{
				"topic": ev.Topic,
				"type":  ev.Event.Type,
				"data":  ev.Event.Data,
			})

		case <-ticker.C:
			writeJSON("ping", gin.H{"type": "ping", "ts": time.Now().Unix()})

		case <-ctx.Done():
			return
		}
	}
}
