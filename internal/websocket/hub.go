package websocket

import (
	"context"
	"sync"

	"github.com/yankaics/OnlineJudge/pkg/logger"
	"go.uber.org/zap"
)

const (
	MessageSubmissionQueued = "submission_queued"

	broadcastBuffer = 256
)

// Hub 사용자별 WebSocket 연결 관리
type Hub struct {
	// userID -> 연결 (브라우저 탭마다 하나)
	clients map[int64]map[*Client]struct{}
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger *zap.SugaredLogger
}

// Message 클라이언트로 나가는 메시지
type Message struct {
	UserID  int64       `json:"-"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// QueuedPayload 채점 큐 등록 알림
type QueuedPayload struct {
	SubmissionID int64 `json:"submission_id"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.Named("websocket"),
	}
}

// Run ctx가 끝나면 모든 연결을 닫고 반환
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.userID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.clients[client.userID] = conns
	}
	conns[client] = struct{}{}

	h.logger.Debugw("WebSocket client registered",
		"userId", client.userID,
		"connections", len(conns))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Debugw("WebSocket client unregistered", "userId", client.userID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, conns := range h.clients {
		for client := range conns {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) deliver(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[message.UserID] {
		select {
		case client.send <- message:
		default:
			h.logger.Warnw("Client send channel full, dropping message",
				"userId", message.UserID,
				"type", message.Type)
		}
	}
}

// Connections 사용자 연결 수
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// SendToUser 요청 경로를 막지 않는다. 버퍼가 차면 버린다.
func (h *Hub) SendToUser(userID int64, msgType string, payload interface{}) {
	select {
	case h.broadcast <- &Message{UserID: userID, Type: msgType, Payload: payload}:
	default:
		h.logger.Warnw("Hub buffer full, dropping message", "userId", userID, "type", msgType)
	}
}

// NotifyQueued 제출이 채점 큐에 들어갔음을 알림
func (h *Hub) NotifyQueued(userID, submissionID int64) {
	h.SendToUser(userID, MessageSubmissionQueued, QueuedPayload{SubmissionID: submissionID})
}
