package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans snapshot deliveries out to websocket terminals. Each connected
// client receives the current snapshot on connect and the full collection
// again after every mutation, the same contract in-process subscribers get.
type Hub struct {
	mu     sync.Mutex
	conns  map[*hubConn]struct{}
	latest []byte
	logger *zap.Logger
}

type hubConn struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(source SnapshotSource, logger *zap.Logger) *Hub {
	h := &Hub{
		conns:  make(map[*hubConn]struct{}),
		logger: logger,
	}
	source.Subscribe(h.onSnapshot)
	return h
}

func (h *Hub) onSnapshot(snapshot Snapshot, err error) {
	if err != nil {
		h.logger.Error("feed delivery failed", zap.Error(err))
		return
	}

	data, marshalErr := json.Marshal(snapshot)
	if marshalErr != nil {
		h.logger.Error("encoding snapshot", zap.Error(marshalErr))
		return
	}

	h.mu.Lock()
	h.latest = data
	for c := range h.conns {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("terminal send buffer full, dropping snapshot")
		}
	}
	h.mu.Unlock()
}

// HandleFeed upgrades the request and streams snapshots until the client
// disconnects.
func (h *Hub) HandleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &hubConn{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *hubConn) {
	defer h.drop(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Terminals never send application messages; the read loop only
	// services control frames and detects disconnects.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("terminal closed", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *hubConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.drop(c)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) drop(c *hubConn) {
	h.mu.Lock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
	}
	h.mu.Unlock()
	c.conn.Close()
}
