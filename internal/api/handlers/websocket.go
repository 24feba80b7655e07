package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/yankaics/OnlineJudge/internal/api/middleware"
	"github.com/yankaics/OnlineJudge/internal/websocket"
)

// WebSocketHandler WebSocket 연결 처리
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader *gorilla.Upgrader
}

func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		upgrader: websocket.Upgrader(allowedOrigins),
	}
}

// HandleWebSocket 본인 제출의 큐 등록 이벤트 구독
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.hub.ServeWs(h.upgrader, c.Writer, c.Request, identity.UserID)
}
