package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/xpanvictor/callpad/pkg/Logger"
)

// Watcher is one open page listening for status changes
type Watcher struct {
	ID          uuid.UUID
	Conn        *websocket.Conn
	ConnectedAt time.Time

	writeMu sync.Mutex
}

func NewWatcher(id uuid.UUID, conn *websocket.Conn) *Watcher {
	return &Watcher{
		ID:          id,
		Conn:        conn,
		ConnectedAt: time.Now(),
	}
}

// WriteJSON serialises writes; gorilla allows one concurrent writer.
func (w *Watcher) WriteJSON(v any) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	_ = w.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.Conn.WriteJSON(v)
}

func (w *Watcher) Ping() error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (w *Watcher) Close() error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	_ = w.Conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait),
	)
	return w.Conn.Close()
}

// ConnectionManager tracks open watchers so shutdown can close them
type ConnectionManager struct {
	logger   *Logger.Logger
	watchers map[uuid.UUID]*Watcher
	mutex    sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger *Logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		logger:   logger,
		watchers: make(map[uuid.UUID]*Watcher),
	}
}

func (cm *ConnectionManager) Register(w *Watcher) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.watchers[w.ID] = w
	cm.logger.Debugf("Registered status watcher %s", w.ID)
}

func (cm *ConnectionManager) Unregister(id uuid.UUID) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if _, ok := cm.watchers[id]; ok {
		delete(cm.watchers, id)
		cm.logger.Debugf("Unregistered status watcher %s", id)
	}
}

// Count returns the number of open watchers
func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return len(cm.watchers)
}

// Close shuts down the connection manager
func (cm *ConnectionManager) Close() error {
	cm.mutex.Lock()
	watchers := make([]*Watcher, 0, len(cm.watchers))
	for _, w := range cm.watchers {
		watchers = append(watchers, w)
	}
	cm.watchers = make(map[uuid.UUID]*Watcher)
	cm.mutex.Unlock()

	// close without holding the lock; handlers unregister on their way out
	for _, w := range watchers {
		if err := w.Close(); err != nil {
			cm.logger.Debugf("Error closing watcher %s: %v", w.ID, err)
		}
	}

	cm.logger.Infof("Connection manager closed %d watchers", len(watchers))
	return nil
}
