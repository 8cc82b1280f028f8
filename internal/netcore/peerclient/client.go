// Package peerclient implements the symmetric outbound TCP client
// described in spec.md §4.3, grounded on the source's tcpclient.cpp.
package peerclient

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/fruitline/hmicore/internal/netcore/shared"
)

const recvBufferSize = 4096

// Callbacks mirrors tcpclient.cpp's onConnected/onDataReceived/onError/
// onDisconnected set. All are optional.
type Callbacks struct {
	OnConnected    func()
	OnDataReceived func(data []byte)
	OnError        func(err error)
	OnDisconnected func()
}

// Client is a single-peer outbound TCP connection with a background
// receive loop and a mutex-serialized send path.
type Client struct {
	log *zap.Logger
	cb  Callbacks

	connectMu sync.Mutex
	sendMu    sync.Mutex
	conn      net.Conn
	connected atomic.Bool
	breaker   *shared.CircuitBreaker
}

func New(log *zap.Logger, cb Callbacks) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{log: log, cb: cb}
}

// SetCircuitBreaker attaches a breaker that gates every future Connect
// call: once Connect's dial failures trip it open, further reconnect
// attempts fail fast with shared.ErrCircuitOpen instead of reaching the
// network, protecting a reconnect target that is down. Pass nil to
// disable. Not part of the source, which retries unconditionally; this is
// ambient resource protection layered on top of tcpclient.cpp's Connect.
func (c *Client) SetCircuitBreaker(b *shared.CircuitBreaker) {
	c.breaker = b
}

// CircuitBreaker returns the attached breaker, or nil if none was set.
func (c *Client) CircuitBreaker() *shared.CircuitBreaker {
	return c.breaker
}

// Connect dials remoteIP:remotePort, optionally binding to localIP first
// (port 0, same as tcpclient.cpp's optional local bind), enables
// SO_KEEPALIVE, and spawns the receive loop. Reconnecting after a
// disconnect is done by calling Connect again (spec.md E6); when a
// circuit breaker is attached, repeated dial failures trip it open and
// further calls fail immediately without dialing, until its timeout
// elapses.
func (c *Client) Connect(remoteIP string, remotePort int, localIP string) error {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	if c.connected.Load() {
		return fmt.Errorf("peerclient: already connected")
	}

	dialer := net.Dialer{}
	if localIP != "" {
		dialer.LocalAddr = &net.TCPAddr{IP: net.ParseIP(localIP), Port: 0}
	}

	var conn net.Conn
	dial := func() error {
		var dialErr error
		conn, dialErr = dialer.Dial("tcp", net.JoinHostPort(remoteIP, strconv.Itoa(remotePort)))
		return dialErr
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Call(dial)
	} else {
		err = dial()
	}
	if err != nil {
		return fmt.Errorf("peerclient: connect %s:%d: %w", remoteIP, remotePort, err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetKeepAlive(true)
	}

	c.conn = conn
	c.connected.Store(true)

	if c.cb.OnConnected != nil {
		c.cb.OnConnected()
	}

	go c.receiveLoop(conn)
	return nil
}

func (c *Client) receiveLoop(conn net.Conn) {
	buf := make([]byte, recvBufferSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 && c.cb.OnDataReceived != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			c.cb.OnDataReceived(data)
		}
		if err != nil {
			if c.cb.OnError != nil {
				c.cb.OnError(fmt.Errorf("peerclient: %w", err))
			}
			break
		}
	}
	c.destroySocket()
}

// IsConnected reports whether the peer connection is currently live.
func (c *Client) IsConnected() bool { return c.connected.Load() }

// Send writes the whole buffer, serialized against concurrent senders.
// A write error fires OnError and tears the connection down, mirroring
// tcpclient.cpp's Send.
func (c *Client) Send(data []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.connected.Load() {
		return fmt.Errorf("peerclient: not connected")
	}

	total := 0
	for total < len(data) {
		n, err := c.conn.Write(data[total:])
		if err != nil {
			wrapped := fmt.Errorf("peerclient: send: %w", err)
			if c.cb.OnError != nil {
				c.cb.OnError(wrapped)
			}
			c.destroySocket()
			return wrapped
		}
		total += n
	}
	return nil
}

// destroySocket closes the connection and fires OnDisconnected exactly
// once, guarded by the connected flag — tcpclient.cpp's DestroySocket.
func (c *Client) destroySocket() {
	if !c.connected.CompareAndSwap(true, false) {
		return
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	if c.cb.OnDisconnected != nil {
		c.cb.OnDisconnected()
	}
}

// Destroy closes the connection from the caller's side.
func (c *Client) Destroy() {
	c.destroySocket()
}
