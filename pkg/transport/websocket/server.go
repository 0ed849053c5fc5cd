package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"

	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/transport"
	"github.com/goliatone/go-realtime-notifications/pkg/realtime"
)

// EventRegisterUser is the inbound event that binds a socket to a user.
const EventRegisterUser = "register_user"

var (
	ErrConnectionClosed  = errors.New("websocket: connection closed")
	ErrSendBufferFull    = errors.New("websocket: send buffer full")
	ErrUnknownConnection = errors.New("websocket: connection not served by this server")
	ErrInvalidUserID     = errors.New("websocket: invalid user id")
)

// Frame is the wire envelope in both directions: the event name plus its
// payload, as socket.io frames them.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Options configure the server.
type Options struct {
	Config    config.RealtimeConfig
	Logger    logger.Logger
	Lifecycle realtime.Lifecycle
}

// Server upgrades HTTP requests to WebSocket sessions, reports their lifecycle
// and implements transport.Transport and transport.Closer for them.
type Server struct {
	upgrader  ws.Upgrader
	cfg       config.RealtimeConfig
	logger    logger.Logger
	lifecycle realtime.Lifecycle

	mu      sync.RWMutex
	clients map[string]*client
}

var (
	_ http.Handler        = (*Server)(nil)
	_ transport.Transport = (*Server)(nil)
	_ transport.Closer    = (*Server)(nil)
)

// NewServer builds a server. The lifecycle may be bound later with Bind,
// since the hub usually needs the server as its transport first.
func NewServer(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = &logger.Nop{}
	}
	cfg := opts.Config
	defaults := config.Defaults().Realtime
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaults.SendBuffer
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaults.MaxMessageSize
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaults.WriteWait
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = defaults.PongWait
	}
	s := &Server{
		cfg:       cfg,
		logger:    opts.Logger,
		lifecycle: opts.Lifecycle,
		clients:   make(map[string]*client),
	}
	s.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Bind sets the lifecycle receiver. It must be called before serving.
func (s *Server) Bind(lifecycle realtime.Lifecycle) {
	s.lifecycle = lifecycle
}

// ServeHTTP upgrades the request and runs the session until the socket closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.lifecycle == nil {
		http.Error(w, "realtime unavailable", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logger.Err(err))
		return
	}

	ctx := context.WithoutCancel(r.Context())
	c := newClient(uuid.NewString(), conn, s.cfg.SendBuffer)
	s.add(c)
	s.lifecycle.OnConnectionOpen(ctx, c)

	go c.writePump(s.cfg.WriteWait, s.cfg.PingPeriod())
	s.readPump(ctx, c)
}

// Send frames payload under event and queues it on the connection.
func (s *Server) Send(ctx context.Context, conn transport.Conn, event string, payload any) error {
	c, err := s.lookup(conn)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(outboundFrame{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("websocket: encode %s: %w", event, err)
	}
	return c.enqueue(msg)
}

// Close terminates the session behind conn. The lifecycle close signal follows
// once the read pump observes the closed socket.
func (s *Server) Close(ctx context.Context, conn transport.Conn) error {
	c, err := s.lookup(conn)
	if err != nil {
		return err
	}
	c.shutdown()
	return nil
}

// Shutdown closes every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()
	for _, c := range clients {
		c.shutdown()
	}
	return nil
}

// Connections returns the number of live sockets, registered or not.
func (s *Server) Connections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) readPump(ctx context.Context, c *client) {
	defer func() {
		s.remove(c)
		c.shutdown()
		s.lifecycle.OnConnectionClose(ctx, c)
	}()

	c.conn.SetReadLimit(s.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure, ws.CloseAbnormalClosure) {
				s.logger.Warn("websocket read failed", logger.String("connection_id", c.id), logger.Err(err))
			}
			return
		}
		s.handleFrame(ctx, c, data)
	}
}

func (s *Server) handleFrame(ctx context.Context, c *client, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.logger.Warn("websocket malformed frame", logger.String("connection_id", c.id), logger.Err(err))
		return
	}
	switch frame.Event {
	case EventRegisterUser:
		userID, err := ParseUserID(frame.Data)
		if err != nil {
			s.logger.Warn("websocket register ignored",
				logger.String("connection_id", c.id),
				logger.Err(err),
			)
			return
		}
		s.lifecycle.OnUserRegister(ctx, userID, c)
	default:
		s.logger.Debug("websocket event ignored",
			logger.String("connection_id", c.id),
			logger.String("event", frame.Event),
		)
	}
}

func (s *Server) lookup(conn transport.Conn) (*client, error) {
	if conn == nil {
		return nil, ErrUnknownConnection
	}
	s.mu.RLock()
	c, ok := s.clients[conn.ID()]
	s.mu.RUnlock()
	if !ok {
		if _, ours := conn.(*client); ours {
			return nil, ErrConnectionClosed
		}
		return nil, ErrUnknownConnection
	}
	return c, nil
}

func (s *Server) add(c *client) {
	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// ParseUserID accepts a JSON number or a numeric string, as browsers send
// either.
func ParseUserID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, ErrInvalidUserID
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidUserID, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: trailing data", ErrInvalidUserID)
	}
	var id int64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidUserID, v)
		}
		id = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidUserID, v)
		}
		id = parsed
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidUserID, string(raw))
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidUserID, id)
	}
	return id, nil
}
