// Package commandserver implements the command-protocol TCP server
// described in spec.md §4.4, grounded on the source's tcpserver.cpp: a
// listener that accepts connections and runs exactly one sync→header→
// [length-prefix]→body frame per accepted client before closing it.
package commandserver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fruitline/hmicore/internal/netcore/shared"
	"github.com/fruitline/hmicore/internal/wire"
)

// SyncWord is the protocol's 4-byte synchronization flag, little-endian
// 0x434E5953 ("SYNC").
const SyncWord int32 = 0x434e5953

// ErrConnLimitExceeded and ErrRateLimitExceeded are returned (wrapped) to
// Callbacks.OnError when a connection is turned away by the configured
// ConnLimiter/RateLimiter before any byte is read, letting a host
// distinguish rejected connections from in-progress framing errors.
var (
	ErrConnLimitExceeded = errors.New("commandserver: connection limit exceeded")
	ErrRateLimitExceeded = errors.New("commandserver: rate limit exceeded")
)

// CommandHead is the four-field command frame header plus the resolved
// body length, mirroring the source's CommandHead struct.
type CommandHead struct {
	SrcID        int32
	DestID       int32
	CmdID        int32
	Length       int32
	ReadDataPack bool
}

// SetDataLengthFunc resolves a freshly-parsed header's body length,
// mirroring SetDataLengthCallback. The default implementation consults
// wire.BodySizeFor; a host may substitute its own to amend entries.
type SetDataLengthFunc func(head CommandHead) CommandHead

// DefaultSetDataLength implements SetDataLengthFunc using the built-in
// and overlay-extended command length map.
func DefaultSetDataLength(head CommandHead) CommandHead {
	size, needsPrefix := wire.BodySizeFor(head.CmdID)
	head.Length = int32(size)
	head.ReadDataPack = needsPrefix
	return head
}

// Callbacks mirrors the three host hooks tcpserver.cpp fires during a
// single frame, plus an error hook for framing failures.
type Callbacks struct {
	SetDataLength         SetDataLengthFunc
	SetReceiveCommandHead func(head CommandHead)
	SetBuffer             func(head CommandHead, body []byte)
	OnError               func(err error)
}

// Config mirrors TcpServer::Start's parameter list.
type Config struct {
	DstID                 int32
	RunOnce               bool
	MaxPendingConnections int

	// ConnLimiter and RateLimiter, when set, gate the accept path: a
	// connection that cannot acquire either is closed immediately,
	// before any byte is read. Not part of the source; added per this
	// service's ambient resource-protection stack.
	ConnLimiter *shared.ConnectionLimiter
	RateLimiter *shared.RateLimiter
}

// Server is the command-protocol TCP server.
type Server struct {
	log *zap.Logger
	cb  Callbacks
	cfg Config

	mu       sync.Mutex
	listener net.Listener
	running  bool
	doneC    chan struct{}
}

func New(log *zap.Logger, cb Callbacks, cfg Config) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cb.SetDataLength == nil {
		cb.SetDataLength = DefaultSetDataLength
	}
	if cfg.MaxPendingConnections <= 0 {
		cfg.MaxPendingConnections = 1
	}
	return &Server{log: log, cb: cb, cfg: cfg}
}

// Start binds, listens with the OS default backlog (MaxPendingConnections
// is not applied to the listener), sets SO_REUSEADDR (the default on most
// platforms' net.Listen for TCP), and spawns the accept loop.
func (s *Server) Start(ip string, port int) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("commandserver: already started")
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("commandserver: listen %s:%d: %w", ip, port, err)
	}
	s.listener = ln
	s.running = true
	s.doneC = make(chan struct{})
	s.mu.Unlock()

	go s.acceptLoop(ln)
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer close(s.doneC)
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := !s.running
			s.mu.Unlock()
			if stopped {
				return
			}
			s.log.Warn("commandserver: accept error", zap.Error(err))
			return
		}

		s.handleOneFrame(conn, uuid.NewString())
		_ = conn.Close()

		if s.cfg.RunOnce {
			return
		}
	}
}

// handleOneFrame runs the SYNC_WAIT → HEAD_WAIT → [LEN_PREFIX_WAIT] →
// BODY_WAIT state machine for exactly one frame on conn. connID tags log
// lines for this connection so a frame's progress can be traced even
// though the protocol itself carries no connection identifier.
func (s *Server) handleOneFrame(conn net.Conn, connID string) {
	if s.cfg.ConnLimiter != nil {
		if err := s.cfg.ConnLimiter.Acquire(context.Background()); err != nil {
			s.reportError(connID, fmt.Errorf("%w: %v", ErrConnLimitExceeded, err))
			return
		}
		defer s.cfg.ConnLimiter.Release()
	}
	if s.cfg.RateLimiter != nil && !s.cfg.RateLimiter.Allow() {
		s.reportError(connID, ErrRateLimitExceeded)
		return
	}

	if !s.recvSync(conn, connID) {
		return
	}

	head, ok := s.recvCommand(conn, connID)
	if !ok {
		return
	}

	head = s.cb.SetDataLength(head)

	if head.ReadDataPack {
		prefix := make([]byte, 4)
		if err := shared.ReadFull(conn, prefix); err != nil {
			s.reportError(connID, fmt.Errorf("commandserver: read length prefix: %w", err))
			return
		}
		head.Length = int32(binary.LittleEndian.Uint32(prefix))
	}

	if s.cb.SetReceiveCommandHead != nil {
		s.cb.SetReceiveCommandHead(head)
	}

	if head.Length <= 0 {
		if s.cb.SetBuffer != nil {
			s.cb.SetBuffer(head, nil)
		}
		return
	}

	body := make([]byte, head.Length)
	if err := shared.ReadFull(conn, body); err != nil {
		s.reportError(connID, fmt.Errorf("commandserver: read body: %w", err))
		return
	}
	if s.cb.SetBuffer != nil {
		s.cb.SetBuffer(head, body)
	}
}

func (s *Server) recvSync(conn net.Conn, connID string) bool {
	buf := make([]byte, 4)
	if err := shared.ReadFull(conn, buf); err != nil {
		s.reportError(connID, fmt.Errorf("commandserver: read sync: %w", err))
		return false
	}
	got := int32(binary.LittleEndian.Uint32(buf))
	if got != SyncWord {
		s.reportError(connID, fmt.Errorf("commandserver: sync error: expected %#x, got %#x", SyncWord, got))
		return false
	}
	return true
}

func (s *Server) recvCommand(conn net.Conn, connID string) (CommandHead, bool) {
	buf := make([]byte, 12)
	if err := shared.ReadFull(conn, buf); err != nil {
		s.reportError(connID, fmt.Errorf("commandserver: read header: %w", err))
		return CommandHead{}, false
	}
	return CommandHead{
		SrcID:  int32(binary.LittleEndian.Uint32(buf[0:4])),
		DestID: int32(binary.LittleEndian.Uint32(buf[4:8])),
		CmdID:  int32(binary.LittleEndian.Uint32(buf[8:12])),
	}, true
}

func (s *Server) reportError(connID string, err error) {
	s.log.Warn("commandserver: frame aborted", zap.String("conn_id", connID), zap.Error(err))
	if s.cb.OnError != nil {
		s.cb.OnError(err)
	}
}

// Destroy stops accepting and unblocks the accept loop. Idempotent.
func (s *Server) Destroy() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	ln := s.listener
	done := s.doneC
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	if done != nil {
		<-done
	}
	return err
}
