package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/locomotion/internal/core/observability/log"
	"github.com/zeusync/locomotion/internal/core/observability/metrics"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageSize)

	c := &client{id: uuid.NewString(), conn: conn}
	s.addClient(c)
	defer s.removeClient(c)

	logger := s.logger.With(log.String("client", c.id))
	logger.Info("client connected", log.String("remote", r.RemoteAddr))

	err = c.send(welcomeMessage{Type: messageWelcome, ClientID: c.id, TickRate: s.cfg.TickRate, Dt: s.Dt()})
	if err != nil {
		logger.Warn("welcome failed", log.Error(err))
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("client read failed", log.Error(err))
			}
			return
		}
		if err := s.handleMessage(data); err != nil {
			logger.Debug("rejected client message", log.Error(err))
			if sendErr := c.send(errorMessage{Type: messageError, Message: err.Error()}); sendErr != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(data []byte) error {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	switch msg.Type {
	case messageInput:
		if msg.Frame == nil {
			return fmt.Errorf("%w: input without frame", ErrInvalidMessage)
		}
		s.rig.Input().Set(*msg.Frame)
		return nil
	case messageEnable:
		if msg.Provider == "" || msg.Enabled == nil {
			return fmt.Errorf("%w: set_enabled needs provider and enabled", ErrInvalidMessage)
		}
		if err := s.rig.SetEnabled(msg.Provider, *msg.Enabled); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, msg.Type)
	}
}

func (s *Server) addClient(c *client) {
	s.mu.Lock()
	s.clients[c.id] = c
	n := len(s.clients)
	s.mu.Unlock()
	metrics.ConnectedClients.Set(float64(n))
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	n := len(s.clients)
	s.mu.Unlock()
	metrics.ConnectedClients.Set(float64(n))
	_ = c.conn.Close()
}

func (s *Server) broadcast(v any) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.send(v); err != nil {
			s.logger.Warn("broadcast failed", log.String("client", c.id), log.Error(err))
			_ = c.conn.Close()
		}
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		c.mu.Unlock()
		_ = c.conn.Close()
	}
}
