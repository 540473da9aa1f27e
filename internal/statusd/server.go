package statusd

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/tmarek/padlock/internal/logging"
)

const (
	// writeWait is the time allowed to write a message to a peer.
	writeWait = 10 * time.Second

	// mDNS service advertisement.
	serviceInstance = "padlock"
	serviceType     = "_padlock._tcp"
	serviceDomain   = "local."
)

// Server broadcasts slot state lines over HTTP and WebSocket.
type Server struct {
	addr string

	mu        sync.Mutex
	lastState string
	clients   map[*client]struct{}

	listener net.Listener
	httpSrv  *http.Server
	mdns     *zeroconf.Server
	upgrader websocket.Upgrader
}

// client wraps one WebSocket connection with a write lock. gorilla/websocket
// forbids concurrent writers, and Publish races the handler's initial send.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(state string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, []byte(state))
}

// New creates a status server for the given listen address.
func New(addr string) *Server {
	return &Server{
		addr:    addr,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			// Overlay clients are local pages; origin checks would
			// only get in their way.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start binds the listener, serves the endpoints in the background and
// registers the mDNS advertisement. mDNS failure is not fatal; the HTTP
// endpoint still works without it.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Handler: mux}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Error("status server stopped", zap.Error(err))
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	mdns, err := zeroconf.Register(serviceInstance, serviceType, serviceDomain, port, []string{"path=/ws"}, nil)
	if err != nil {
		logging.Warn("mDNS registration failed", zap.Error(err))
	} else {
		s.mdns = mdns
	}

	logging.Info("status server listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound listen address, useful when the port was 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Publish records the latest state line and pushes it to every connected
// WebSocket client. Safe to call from the engine's goroutine; writes that
// fail drop the client.
func (s *Server) Publish(state string) {
	s.mu.Lock()
	s.lastState = state
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.send(state); err != nil {
			logging.Debug("dropping status client", zap.Error(err))
			s.dropClient(c)
		}
	}
}

// handleState serves the latest state line as plain text.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.lastState
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, state)
}

// handleWS upgrades the connection and streams state changes to it. The
// latest state is sent immediately so clients render without waiting for
// the next transition.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	logging.Info("status client connected", zap.String("remote_addr", conn.RemoteAddr().String()))

	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	state := s.lastState
	s.mu.Unlock()

	if state != "" {
		if err := c.send(state); err != nil {
			s.dropClient(c)
			return
		}
	}

	// Reader loop: clients never send anything useful, but reading is
	// how we notice the close handshake.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.dropClient(c)
				return
			}
		}
	}()
}

func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	_, known := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if known {
		_ = c.conn.Close()
		logging.Info("status client disconnected", zap.String("remote_addr", c.conn.RemoteAddr().String()))
	}
}

// Close unregisters the mDNS advertisement, closes every client and shuts
// the HTTP server down.
func (s *Server) Close() error {
	if s.mdns != nil {
		s.mdns.Shutdown()
		s.mdns = nil
	}

	s.mu.Lock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	if s.httpSrv != nil {
		return s.httpSrv.Close()
	}
	return nil
}
