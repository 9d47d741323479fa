package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"

	"github.com/chimed/chimed/common"
)

// WebServer hosts the HTTP endpoints of the daemon: the JSON-RPC 2.0 bridge
// at /rpc and the websocket event feed at /ws. Both require the configured
// bearer secret; with no secret set the endpoints are disabled.
type WebServer struct {
	port     int
	l        *log.Logger
	rpc      *RPCServer
	notifier *RPCNotifier
	pool     *Pool
	cfg      *RPCConfig
	server   *http.Server
	mu       sync.Mutex
}

func NewWebServer(l *log.Logger, engine AlertEngine, pool *Pool, cfg *RPCConfig, port int) *WebServer {
	if cfg == nil {
		cfg = &RPCConfig{}
	}
	ws := &WebServer{
		port:     port,
		l:        l,
		pool:     pool,
		cfg:      cfg,
		notifier: NewRPCNotifier(l),
	}
	if engine != nil {
		ws.rpc = NewRPCServer(cfg, engine)
	}
	return ws
}

// Notifier returns the websocket push notifier.
func (s *WebServer) Notifier() *RPCNotifier {
	return s.notifier
}

// Start runs the HTTP server. It returns immediately when RPC is disabled
// (no engine or no secret configured).
func (s *WebServer) Start() {
	if s.rpc == nil || s.cfg.Secret == "" {
		s.l.Println("JSON-RPC endpoint disabled (no secret configured)")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", requireToken(s.cfg.Secret, s.rpc.bridge))
	mux.Handle("/ws", requireToken(s.cfg.Secret, http.HandlerFunc(s.handleWS)))

	host := common.TCPHost
	if s.cfg.ListenAll {
		host = "0.0.0.0"
	}

	s.mu.Lock()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.l.Printf("Web server error: %v", err)
	}
}

// handleWS upgrades the connection and runs a jrpc2 server over it. The
// server is registered with the notifier so alert events are pushed to the
// client for as long as the connection lives.
func (s *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		s.l.Printf("WebSocket accept failed: %v", err)
		return
	}

	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(s.rpc.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(ch)

	s.notifier.Register(srv)
	defer s.notifier.Unregister(srv)

	if err := srv.Wait(); err != nil {
		s.l.Printf("WebSocket session ended: %v", err)
	}
}

// Shutdown stops the HTTP server and closes the RPC bridge.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()

	if s.rpc != nil {
		s.rpc.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
