// Package plcserver implements the raw TCP fan-out server for the PLC
// channel described in spec.md §4.2, grounded on the source's
// socketserver.cpp. Unlike commandserver, this side speaks no
// sync-word-framed protocol at all: every byte a client sends is handed
// to the data callback as-is, and every call to Send fans out to all
// currently-connected clients.
package plcserver

import (
	"fmt"
	"net"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

const recvBufferSize = 4096

// Callbacks mirrors socketserver.cpp's onConnected/onDataReceived/onError/
// onClosed set. All four are optional.
type Callbacks struct {
	OnConnected    func()
	OnDataReceived func(clientKey string, data []byte)
	OnError        func(err error)
	OnClosed       func()
}

// Server is a single-listener, multi-client TCP fan-out server.
type Server struct {
	log  *zap.Logger
	cb   Callbacks

	mu        sync.Mutex
	listener  net.Listener
	clients   map[string]net.Conn
	running   bool
}

func New(log *zap.Logger, cb Callbacks) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{log: log, cb: cb, clients: make(map[string]net.Conn)}
}

// Start binds and listens, then accepts clients in the background,
// mirroring socketserver.cpp's Start + detached AcceptLoop.
func (s *Server) Start(ip string, port int) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("plcserver: already started")
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		s.mu.Unlock()
		wrapped := fmt.Errorf("plcserver: listen %s:%d: %w", ip, port, err)
		if s.cb.OnError != nil {
			s.cb.OnError(wrapped)
		}
		return wrapped
	}
	s.listener = ln
	s.running = true
	s.mu.Unlock()

	if s.cb.OnConnected != nil {
		s.cb.OnConnected()
	}

	go s.acceptLoop(ln)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := !s.running
			s.mu.Unlock()
			if stopped {
				return
			}
			s.log.Warn("plcserver: accept error", zap.Error(err))
			return
		}
		key := conn.RemoteAddr().String()
		s.mu.Lock()
		s.clients[key] = conn
		s.mu.Unlock()
		go s.clientHandler(key, conn)
	}
}

func (s *Server) clientHandler(key string, conn net.Conn) {
	buf := make([]byte, recvBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 && s.cb.OnDataReceived != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			s.cb.OnDataReceived(key, data)
		}
		if err != nil {
			s.removeClient(key)
			return
		}
	}
}

func (s *Server) removeClient(key string) {
	s.mu.Lock()
	conn, ok := s.clients[key]
	delete(s.clients, key)
	s.mu.Unlock()
	if ok {
		_ = conn.Close()
	}
}

// Send fans a message out to every connected client, holding the client
// map's mutex for the whole broadcast — exactly socketserver.cpp's
// SendData, which never isolates one client's send error from the rest
// of the fan-out. A per-client write failure still fires OnError, but the
// failed client is left in the map for the next accept/read cycle to
// discover and evict, matching that lack of isolation.
func (s *Server) Send(data []byte) {
	s.mu.Lock()
	var errs []error
	for key, conn := range s.clients {
		if _, err := conn.Write(data); err != nil {
			errs = append(errs, fmt.Errorf("plcserver: short write to %s: %w", key, err))
		}
	}
	s.mu.Unlock()

	if s.cb.OnError != nil {
		for _, err := range errs {
			s.cb.OnError(err)
		}
	}
}

// ClientCount reports the number of currently-connected PLC clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Destroy tears the server down: stops accepting, closes every client
// connection, closes the listener, fires OnClosed once. Idempotent,
// mirroring socketserver.cpp's Destroy.
func (s *Server) Destroy() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	ln := s.listener
	clients := s.clients
	s.clients = make(map[string]net.Conn)
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	for _, conn := range clients {
		_ = conn.Close()
	}
	if s.cb.OnClosed != nil {
		s.cb.OnClosed()
	}
	return err
}
