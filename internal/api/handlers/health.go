package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yankaics/OnlineJudge/pkg/logger"
)

// HealthCheck 서버 기동 여부
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "online-judge",
	})
}

// QueueDepth 채점 큐 깊이 조회
type QueueDepth interface {
	Get(ctx context.Context) (int64, error)
}

type MonitorHandler struct {
	depth QueueDepth
}

func NewMonitorHandler(depth QueueDepth) *MonitorHandler {
	return &MonitorHandler{depth: depth}
}

// GetQueueDepth 디스패치 누적 카운터 값 (슈퍼관리자)
func (h *MonitorHandler) GetQueueDepth(c *gin.Context) {
	n, err := h.depth.Get(c.Request.Context())
	if err != nil {
		logger.Error("Failed to read judge queue length", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "queue length unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue_length": n})
}
