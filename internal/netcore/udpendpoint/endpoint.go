// Package udpendpoint implements the stateless UDP sender and the bound
// UDP receiver described in spec.md §4.1, grounded on the source's
// udpserver.cpp (send side) and udpclient.cpp (receive side).
package udpendpoint

import (
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
)

// PackageMaxSize is the hard MTU cap the source's receive loop allocates
// per datagram (udpclient.cpp's PackageMaxSize).
const PackageMaxSize = 1472

// RecvBufferBytes is the SO_RCVBUF the source sets on the receive socket
// (udpclient.cpp's Start), large enough to absorb bursts of
// camera/statistics datagrams without kernel-side drops.
const RecvBufferBytes = 5_000_000

// OnDatagram is delivered once per received datagram. The source's
// RecvThread hard-codes placeholder source/command ids for every
// datagram it delivers (spec.md §9); this callback preserves that shape.
type OnDatagram func(srcID, cmdID int32, data []byte)

// Endpoint fuses the two C++ types, udpserver (fire-and-forget sender)
// and udpclient (bound receiver with a background read loop), into one
// value, matching spec.md §4.1's "UdpEndpoint" component.
type Endpoint struct {
	log *zap.Logger

	sendConn *net.UDPConn

	mu       sync.Mutex
	recvConn *net.UDPConn
	running  bool
	stopC    chan struct{}
	doneC    chan struct{}
}

// New creates an endpoint. Call Start to also bind a receiver; SendTo
// works without ever calling Start, matching udpserver's standalone use.
func New(log *zap.Logger) (*Endpoint, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("udpendpoint: create send socket: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Endpoint{log: log, sendConn: conn}, nil
}

// SendTo sends data to ip:port, mirroring udpserver.cpp's SendData. The
// source caps nothing on the send path; callers are expected to respect
// PackageMaxSize themselves when they want receivers to see one datagram.
func (e *Endpoint) SendTo(data []byte, ip string, port int) (int, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
	n, err := e.sendConn.WriteToUDP(data, addr)
	if err != nil {
		return n, fmt.Errorf("udpendpoint: send to %s:%d: %w", ip, port, err)
	}
	return n, nil
}

// Start binds a receive socket to ip:port, sets SO_RCVBUF, and spawns the
// receive loop. Calling Start twice without Stop returns an error.
func (e *Endpoint) Start(ip string, port int, onData OnDatagram) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return fmt.Errorf("udpendpoint: already started")
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP(ip), Port: port})
	if err != nil {
		return fmt.Errorf("udpendpoint: bind %s:%d: %w", ip, port, err)
	}
	if err := conn.SetReadBuffer(RecvBufferBytes); err != nil {
		e.log.Warn("udpendpoint: set SO_RCVBUF failed", zap.Error(err))
	}

	e.recvConn = conn
	e.running = true
	e.stopC = make(chan struct{})
	e.doneC = make(chan struct{})

	go e.recvLoop(conn, onData)
	return nil
}

func (e *Endpoint) recvLoop(conn *net.UDPConn, onData OnDatagram) {
	defer close(e.doneC)
	buf := make([]byte, PackageMaxSize)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-e.stopC:
				return
			default:
			}
			e.log.Warn("udpendpoint: receive error", zap.Error(err))
			return
		}
		if n <= 0 {
			continue
		}
		if onData != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			// Placeholder src/cmd ids, matching the source's RecvThread
			// callback signature (spec.md §9).
			onData(0, 0, data)
		}
	}
}

// Running reports whether the receive loop is currently bound.
func (e *Endpoint) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Stop tears down the receive socket, mirroring udpclient.cpp's Stop
// (shutdown + close, then join the receive thread).
func (e *Endpoint) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	close(e.stopC)
	conn := e.recvConn
	e.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	<-e.doneC
	return err
}

// Close releases the send socket. Stop must be called separately if Start
// was used.
func (e *Endpoint) Close() error {
	return e.sendConn.Close()
}
