package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/callpad/internal/call"
	"github.com/xpanvictor/callpad/pkg/Logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// StatusSource is what the stream listens to; call.View satisfies it.
type StatusSource interface {
	Status() call.Status
	Subscribe() (uuid.UUID, <-chan call.Status)
	Unsubscribe(id uuid.UUID)
}

// WebSocketHandler pushes call status to open pages
type WebSocketHandler struct {
	logger            *Logger.Logger
	source            StatusSource
	connectionManager *ConnectionManager
	upgrader          websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(logger *Logger.Logger, source StatusSource) *WebSocketHandler {
	return &WebSocketHandler{
		logger:            logger,
		source:            source,
		connectionManager: NewConnectionManager(logger),
		upgrader: websocket.Upgrader{
			// the page is served from this same process
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ws", h.HandleStatusStream)
}

// HandleStatusStream sends the current status, then every change, until the
// page goes away.
func (h *WebSocketHandler) HandleStatusStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("ws upgrade failed: %v", err)
		return
	}

	id, updates := h.source.Subscribe()
	watcher := NewWatcher(id, conn)
	h.connectionManager.Register(watcher)
	defer func() {
		h.source.Unsubscribe(id)
		h.connectionManager.Unregister(id)
		conn.Close()
	}()

	// reader: the page never sends anything, but reading drives pongs and
	// tells us when it is gone
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := watcher.WriteJSON(h.source.Status()); err != nil {
		h.logger.Debugf("ws initial write for %s failed: %v", id, err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			if err := watcher.WriteJSON(st); err != nil {
				h.logger.Debugf("ws write for %s failed: %v", id, err)
				return
			}
		case <-ticker.C:
			if err := watcher.Ping(); err != nil {
				return
			}
		}
	}
}

// Watchers returns the number of open status streams
func (h *WebSocketHandler) Watchers() int {
	return h.connectionManager.Count()
}

func (h *WebSocketHandler) Close() error {
	return h.connectionManager.Close()
}
