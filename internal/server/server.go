package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/chimed/chimed/common"
)

// Server manages IPC connections from CLI clients over a Unix socket (or
// named pipe on Windows). It dispatches incoming requests to registered
// handlers and keeps the pool of connections attached to the alert event
// feed.
type Server struct {
	log      *log.Logger
	pool     *Pool
	ws       *WebServer
	handler  map[common.UpdateType]HandlerFunc
	port     int
	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a new Server instance. The server uses a Unix socket as
// the primary transport, falling back to TCP on the specified port if
// socket creation fails. engine powers the JSON-RPC bridge; pass nil to
// disable it.
func NewServer(l *log.Logger, engine AlertEngine, rpcCfg *RPCConfig, port int) *Server {
	pool := NewPool(l)
	return &Server{
		log:     l,
		pool:    pool,
		handler: make(map[common.UpdateType]HandlerFunc),
		port:    port,
		ws:      NewWebServer(l, engine, pool, rpcCfg, port+1),
	}
}

// Pool returns the server's event broadcast pool.
func (s *Server) Pool() *Pool {
	return s.pool
}

// Notifier returns the websocket push notifier.
func (s *Server) Notifier() *RPCNotifier {
	return s.ws.Notifier()
}

// RegisterHandler associates a handler function with a request method.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Start begins listening for incoming connections and blocks until the
// context is canceled. The web server (JSON-RPC bridge and websocket feed)
// runs in the background. Each connection is handled in its own goroutine.
func (s *Server) Start(ctx context.Context) error {
	go s.ws.Start()

	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Println("Error accepting:", err.Error())
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown gracefully stops the server by closing the listener and removing
// the socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Printf("Error closing listener: %v", err)
		}
		s.listener = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ws.Shutdown(shutdownCtx); err != nil {
		s.log.Printf("Error shutting down web server: %v", err)
	}

	if err := cleanupSocket(); err != nil {
		s.log.Printf("Error removing socket file: %v", err)
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer func() {
		s.pool.Detach(sconn)
		conn.Close()
	}()
	for {
		buf, err := sconn.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			s.log.Println("Error reading:", err.Error())
			break
		}
		err = s.handlerWrapper(sconn, buf)
		if err != nil {
			s.log.Println("Error handling:", err.Error())
			break
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("error parsing request: %s", err.Error())
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		err = sconn.Write(CreateError("unknown method: " + string(req.Method)))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	utype, msg, err := rHandler(sconn, s.pool, req.Message)
	if err != nil {
		err = sconn.Write(InitError(err))
		if err != nil {
			return fmt.Errorf("error writing response: %s", err.Error())
		}
		return nil
	}
	err = sconn.Write(MakeResult(utype, msg))
	if err != nil {
		return fmt.Errorf("error writing response: %s", err.Error())
	}
	return nil
}
