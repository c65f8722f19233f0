package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/c4-minimax/internal/domain"
)

const writeWait = 10 * time.Second

// ConnectionManager handles active WebSocket connections thread-safely
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// writeMu ensures only one goroutine writes to a specific socket at a time.
	// conn.WriteJSON is not safe for concurrent use.
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex // Protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers a new connection, closing any older one for the same guest
func (cm *ConnectionManager) AddConnection(guestID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[guestID]; exists {
		oldConn.Close()
	}

	cm.connections[guestID] = conn
	cm.writeMu[guestID] = &sync.Mutex{}
}

// RemoveConnectionIfMatching avoids closing a NEW connection when cleaning up an OLD one.
func (cm *ConnectionManager) RemoveConnectionIfMatching(guestID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if currentConn, exists := cm.connections[guestID]; exists && currentConn == conn {
		currentConn.Close()
		delete(cm.connections, guestID)
		delete(cm.writeMu, guestID)
	}
}

func (cm *ConnectionManager) IsConnected(guestID string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, exists := cm.connections[guestID]
	return exists
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// SendMessage sends a JSON message to a guest. Offline guests are ignored.
func (cm *ConnectionManager) SendMessage(guestID string, message domain.ServerMessage) error {
	cm.mu.RLock()
	conn, exists := cm.connections[guestID]
	mu, muExists := cm.writeMu[guestID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}

func (cm *ConnectionManager) sendError(guestID, text string) {
	cm.SendMessage(guestID, domain.ServerMessage{Type: "error", Message: text})
}
