package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"bazaarbondhu/internal/domain/service"
	"bazaarbondhu/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Client is one live connection of an account. An account may hold several.
type Client struct {
	Email string
	Conn  *websocket.Conn
	Send  chan []byte
}

func NewClient(email string, conn *websocket.Conn) *Client {
	return &Client{
		Email: strings.ToLower(email),
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer),
	}
}

type envelope struct {
	email   string
	payload []byte
}

// Manager fans notifications out to connected clients.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	deliver    chan envelope
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliver:    make(chan envelope, 64),
		done:       make(chan struct{}),
	}
}

// Start runs the manager loop until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.Email] == nil {
					m.clients[client.Email] = make(map[*Client]struct{})
				}
				m.clients[client.Email][client] = struct{}{}
				m.mutex.Unlock()
				logger.Debug("websocket client registered: %s", client.Email)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("websocket client unregistered: %s", client.Email)

			case env := <-m.deliver:
				m.mutex.RLock()
				var slow []*Client
				for client := range m.clients[env.email] {
					select {
					case client.Send <- env.payload:
					default:
						slow = append(slow, client)
					}
				}
				m.mutex.RUnlock()
				for _, client := range slow {
					m.remove(client)
				}

			case <-ctx.Done():
				close(m.done)
				m.mutex.Lock()
				for _, set := range m.clients {
					for client := range set {
						close(client.Send)
					}
				}
				m.clients = make(map[string]map[*Client]struct{})
				m.mutex.Unlock()
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	set, ok := m.clients[client.Email]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(m.clients, client.Email)
	}
}

// Notify implements service.Notifier. Notifications for accounts without a
// live connection are dropped.
func (m *Manager) Notify(email string, n service.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		logger.Error("failed to encode notification: %v", err)
		return
	}
	select {
	case m.deliver <- envelope{email: strings.ToLower(email), payload: payload}:
	default:
		logger.Warn("notification queue full, dropping %s for %s", n.Type, email)
	}
}

// Connected reports how many live connections email has.
func (m *Manager) Connected(email string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[strings.ToLower(email)])
}

// ReadPump only services control frames; clients do not send data.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error for %s: %v", c.Email, err)
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("websocket write error for %s: %v", c.Email, err)
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var _ service.Notifier = (*Manager)(nil)
