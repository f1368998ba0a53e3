package ws

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBufferSize = 16
)

var (
	ErrSessionClosed  = errors.New("session closed")
	ErrSendBufferFull = errors.New("session send buffer full")
)

// Session representa una conexión websocket viva de un usuario. Vive en el
// Registry desde el handshake hasta el cierre; nadie más retiene referencias.
type Session struct {
	ID     string
	UserID string

	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewSession(userID string, conn *websocket.Conn) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// inboundEvent es el payload tipado de un envío por el socket. Ambos campos
// son obligatorios.
type inboundEvent struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// Push encola un frame de texto hacia el remoto. Devuelve error si la sesión
// está cerrada o su buffer lleno; el caller decide desregistrarla.
func (s *Session) Push(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	select {
	case s.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close es idempotente; cierra el canal de salida y la conexión subyacente.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.send)
	s.mu.Unlock()

	if s.conn != nil {
		_ = s.conn.Close()
	}
}

// ReadLoop procesa eventos entrantes en orden estricto de llegada hasta que
// la conexión termine. En toda salida, limpia: desregistra y cierra. Un
// evento malformado recibe un frame de error y la conexión sigue abierta; un
// fallo de persistencia también se reporta sin tumbar la conexión.
func (s *Session) ReadLoop(ctx context.Context, registry *Registry, dispatcher *Dispatcher, logger *zap.Logger) {
	defer func() {
		registry.Unregister(s.UserID, s)
		s.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("session read failed",
					zap.String("user_id", s.UserID),
					zap.String("session_id", s.ID),
					zap.Error(err),
				)
			}
			return
		}

		var evt inboundEvent
		if err := json.Unmarshal(data, &evt); err != nil || strings.TrimSpace(evt.To) == "" || evt.Message == "" {
			s.pushError("malformed event: expected {\"to\": ..., \"message\": ...}")
			continue
		}

		msg, _, err := dispatcher.Dispatch(ctx, s.UserID, evt.To, evt.Message)
		if err != nil {
			logger.Error("dispatch failed",
				zap.String("sender_id", s.UserID),
				zap.String("receiver_id", evt.To),
				zap.Error(err),
			)
			s.pushError("could not deliver message")
			continue
		}

		// Eco del mensaje persistido como confirmación al emisor.
		if payload, err := json.Marshal(msg); err == nil {
			_ = s.Push(payload)
		}
	}
}

// WritePump drena el canal de salida hacia la conexión y mantiene la
// liveness con pings periódicos. Un solo writer por conexión.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if s.conn != nil {
			_ = s.conn.Close()
		}
	}()

	for {
		select {
		case payload, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) pushError(msg string) {
	payload, err := json.Marshal(errorFrame{Error: msg})
	if err != nil {
		return
	}
	_ = s.Push(payload)
}
