package plot

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raykavin/candlescope/core"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// wsClient serializes writes to one connection; the broadcast loop and the
// initial-chart push may target the same conn from different goroutines,
// and the underlying connection supports only one writer at a time.
type wsClient struct {
	sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) writeJSON(msg WebSocketMessage) error {
	c.Lock()
	defer c.Unlock()
	return c.conn.WriteJSON(msg)
}

// WebSocketManager pushes rendered charts to connected browsers.
type WebSocketManager struct {
	sync.RWMutex
	clients       map[*wsClient]struct{}
	upgrader      websocket.Upgrader
	broadcastChan chan WebSocketMessage
	log           core.Logger
	server        *Server
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager(log core.Logger, server *Server) *WebSocketManager {
	manager := &WebSocketManager{
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcastChan: make(chan WebSocketMessage, 16),
		log:           log,
		server:        server,
	}

	go manager.handleBroadcasts()

	return manager
}

// BroadcastChart queues a rendered SVG for every connected client.
func (m *WebSocketManager) BroadcastChart(svg []byte) {
	select {
	case m.broadcastChan <- WebSocketMessage{Type: "chart", Payload: string(svg)}:
	default:
		// a slow consumer never blocks the redraw path; the next render
		// supersedes this one anyway
		m.log.Warn("websocket broadcast queue full, dropping frame")
	}
}

func (m *WebSocketManager) handleBroadcasts() {
	for msg := range m.broadcastChan {
		m.RLock()
		for client := range m.clients {
			if err := client.writeJSON(msg); err != nil {
				m.log.WithError(err).Error("error sending websocket message")
				client.conn.Close()
				// removal happens in the client handler when the read fails
			}
		}
		m.RUnlock()
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *WebSocketManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.WithError(err).Error("failed to upgrade connection to websocket")
		return
	}

	client := &wsClient{conn: conn}

	m.Lock()
	m.clients[client] = struct{}{}
	clientCount := len(m.clients)
	m.Unlock()

	m.log.Infof("websocket client connected, total: %d", clientCount)

	go m.sendInitialChart(client)
	go m.handleClient(client)
}

func (m *WebSocketManager) sendInitialChart(client *wsClient) {
	svg := m.server.Latest()
	if svg == nil {
		return
	}

	msg := WebSocketMessage{Type: "chart", Payload: string(svg)}
	if err := client.writeJSON(msg); err != nil {
		m.log.WithError(err).Error("error sending initial chart")
	}
}

// handleClient keeps the connection alive and removes it on disconnect.
func (m *WebSocketManager) handleClient(client *wsClient) {
	conn := client.conn
	defer func() {
		m.Lock()
		delete(m.clients, client)
		m.log.Infof("websocket client disconnected, remaining: %d", len(m.clients))
		m.Unlock()
		conn.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte{}, time.Now().Add(10*time.Second))
	})

	// clients send nothing meaningful; reading only detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.WithError(err).Error("websocket read error")
			}
			break
		}
	}
}
