package diag

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gojacktrip/jtcore/internal/bridge"
)

// PushInterval is how often a connected observer receives a fresh
// snapshot.
const PushInterval = time.Second

// StatsProvider is anything that can report the bridge's current stats;
// satisfied by *bridge.Client.
type StatsProvider interface {
	Stats() bridge.Stats
}

// Server pushes StatsProvider snapshots to any number of websocket
// observers, one message per PushInterval tick.
type Server struct {
	provider StatsProvider
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}
}

// NewServer builds a diagnostics server. addr is passed straight to
// http.Server.Addr (e.g. ":8973"); path is the websocket endpoint, e.g.
// "/stats".
func NewServer(provider StatsProvider, addr, path string) *Server {
	s := &Server{
		provider: provider,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleWS)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Run starts the HTTP listener and the push loop, blocking until ctx is
// canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go s.pushLoop(ctx)

	select {
	case <-ctx.Done():
		s.httpServer.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the address the server is actually listening on, useful
// when constructed with a ":0" port. Only valid after Run has started.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("diag: upgrade failed: %v", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMu.Unlock()

	// Observers never send anything meaningful; read until the connection
	// drops so we notice disconnects promptly.
	go func() {
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.clientsMu.Unlock()
	conn.Close()
}

func (s *Server) pushLoop(ctx context.Context) {
	ticker := time.NewTicker(PushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast(s.provider.Stats())
		}
	}
}

func (s *Server) broadcast(stats bridge.Stats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		log.Printf("diag: marshal stats: %v", err)
		return
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			go s.removeClient(conn)
		}
	}
}
