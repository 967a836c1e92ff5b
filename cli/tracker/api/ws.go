package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 5 * time.Second

const EventStored = "stored"

// Notice сообщает странице, что в хранилище появились новые показания.
// Сами данные страница забирает через /api/dashboard.
type Notice struct {
	Event string `json:"event"`
	Added int64  `json:"added"`
}

type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	pendingMu sync.Mutex
	pending   int64
	notify    chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
		notify:  make(chan struct{}, 1),
	}
}

func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithField("err", err).Warn("Не удалось установить websocket-соединение")
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go h.readPump(conn)
}

// Broadcast не блокируется: уведомления, накопленные до следующей рассылки, склеиваются в одно.
func (h *Hub) Broadcast(added int64) {
	h.pendingMu.Lock()
	h.pending += added
	h.pendingMu.Unlock()

	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Run рассылает уведомления клиентам до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.notify:
			h.pendingMu.Lock()
			added := h.pending
			h.pending = 0
			h.pendingMu.Unlock()

			h.send(Notice{Event: EventStored, Added: added})
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) send(notice Notice) {
	data, err := json.Marshal(notice)
	if err != nil {
		log.WithField("err", err).Error("Не удалось сформировать уведомление")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.WithField("err", err).Debug("Websocket-клиент отключен")
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) readPump(conn *websocket.Conn) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
