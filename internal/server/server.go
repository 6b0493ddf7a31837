// Package server runs the WebSocket front of the dice game: one goroutine per
// connection reading framed binary messages, a single writer pump per
// connection, and a periodic sweeper for sessions, stale rounds and
// rate-limit records.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/dicehall/internal/config"
	"github.com/udisondev/dicehall/internal/game"
	"github.com/udisondev/dicehall/internal/protocol"
)

// Server accepts WebSocket connections on "/" and dispatches framed commands
// to the game engine.
type Server struct {
	cfg     config.GameServer
	state   *game.State
	engine  *game.Engine
	limiter *RateLimiter

	upgrader websocket.Upgrader

	mu         sync.Mutex
	clients    map[uint64]*Client
	nextConnID atomic.Uint64

	httpServer *http.Server
}

// New creates a server over the given state and engine.
func New(cfg config.GameServer, state *game.State, engine *game.Engine) *Server {
	return &Server{
		cfg:     cfg,
		state:   state,
		engine:  engine,
		limiter: NewRateLimiter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[uint64]*Client),
	}
}

// Run starts the listener and blocks until ctx is cancelled or the listener
// fails. On cancellation it stops accepting connections and closes the live
// ones.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)

	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx)
		s.closeAllClients()
	}()

	slog.Info("game server started", "addr", s.cfg.Addr(), "max_connections", s.cfg.MaxConnections)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunSweeper runs the periodic cleanup: expired sessions, stale rounds, idle
// rate-limit records. Blocks until ctx is cancelled.
func (s *Server) RunSweeper(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.CleanupIntervalDuration())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := time.Now()
			sessions := s.state.CleanupExpiredSessions()
			rounds := s.engine.CleanupStaleRounds(now)
			limits := s.limiter.Purge(now)
			if sessions+rounds+limits > 0 {
				slog.Info("cleanup pass",
					"sessions", sessions, "stale_rounds", rounds, "rate_records", limits)
			}
		}
	}
}

// ConnectionCount returns the number of live connections.
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if len(s.clients) >= s.cfg.MaxConnections {
		s.mu.Unlock()
		slog.Warn("connection limit reached, rejecting", "remote", r.RemoteAddr)
		http.Error(w, "connection limit reached", http.StatusServiceUnavailable)
		return
	}
	s.mu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := newClient(s.nextConnID.Add(1), conn)

	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()

	slog.Info("new connection", "conn", c.id, "remote", r.RemoteAddr)

	go c.writePump()
	s.readLoop(c)

	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()

	s.state.UnbindConnection(c.id)
	close(c.send)
	slog.Info("connection closed", "conn", c.id, "remote", r.RemoteAddr)
}

// readLoop processes one binary frame at a time; within a connection requests
// are handled strictly in order.
func (s *Server) readLoop(c *Client) {
	c.conn.SetReadLimit(protocol.MaxFrameSize + protocol.FrameHeaderSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("read failed", "conn", c.id, "err", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.BinaryMessage {
			slog.Warn("non-binary message ignored", "conn", c.id)
			continue
		}

		if frame := s.dispatch(c, data); frame != nil {
			c.enqueue(frame)
		}
	}
}

func (s *Server) closeAllClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		c.conn.Close()
	}
}
