package shared

import (
	"fmt"
	"io"
	"net"
	"time"
)

// ReadFull reads exactly len(buf) bytes from r, mirroring the source's
// RecvN: it loops partial reads until the buffer is full, and treats EOF
// or any read error as peer-close/abort (the exact failure RecvN reports
// as a plain false return).
func ReadFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return fmt.Errorf("short read: %w", err)
	}
	return nil
}

// WriteFull writes the whole buffer, looping over partial writes the same
// way the source's Send does. A write error aborts immediately.
func WriteFull(w io.Writer, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := w.Write(buf[total:])
		if err != nil {
			return fmt.Errorf("short write: %w", err)
		}
		total += n
	}
	return nil
}

// CanConnect probes whether a TCP peer is reachable within timeout,
// without leaving a connection open. Used by health checks for
// PeerClient's configured remote while the client is disconnected.
func CanConnect(host string, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SetKeepAlive mirrors the source's SO_KEEPALIVE on the client socket
// (tcpclient.cpp's ConnectServer sets this unconditionally).
func SetKeepAlive(conn *net.TCPConn, period time.Duration) error {
	if err := conn.SetKeepAlive(true); err != nil {
		return err
	}
	if period > 0 {
		return conn.SetKeepAlivePeriod(period)
	}
	return nil
}
