package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/SAP-F-2025/session-service/internal/services"
	"github.com/SAP-F-2025/session-service/internal/utils"
)

// WatchHandler streams session state snapshots over a websocket so the
// hosting UI can render the countdown, threshold notices and phase changes
// without polling.
type WatchHandler struct {
	BaseHandler
	service  *services.SessionService
	upgrader websocket.Upgrader
}

func NewWatchHandler(service *services.SessionService, logger utils.Logger) *WatchHandler {
	return &WatchHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Watch upgrades the request and streams snapshots until the session ends
// or the client disconnects.
// GET /api/v1/sessions/:id/watch
func (h *WatchHandler) Watch(c *gin.Context) {
	sessionID := c.Param("id")

	updates, cancel, err := h.service.Subscribe(sessionID)
	if err != nil {
		h.RespondWithError(c, http.StatusNotFound, "Session not found", err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.LogError(c, err, "WebSocket upgrade failed", "session_id", sessionID)
		return
	}
	defer conn.Close()

	// Reader goroutine: we accept no inbound messages, but reading is what
	// detects the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				// Session reached terminal state and released subscribers.
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				h.logger.Debug("WebSocket write failed, dropping watcher",
					"session_id", sessionID, "error", err)
				return
			}
		case <-done:
			return
		}
	}
}
