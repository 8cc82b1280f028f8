package plcserver

import (
	"net"
	"testing"
	"time"
)

func TestServerFanOutToMultipleClients(t *testing.T) {
	s := New(nil, Callbacks{})
	if err := s.Start("127.0.0.1", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Destroy()

	addr := s.listener.Addr().String()

	c1, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial 1: %v", err)
	}
	defer c1.Close()
	c2, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial 2: %v", err)
	}
	defer c2.Close()

	deadline := time.Now().Add(time.Second)
	for s.ClientCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.ClientCount() != 2 {
		t.Fatalf("client count = %d, want 2", s.ClientCount())
	}

	s.Send([]byte("broadcast"))

	for _, c := range []net.Conn{c1, c2} {
		buf := make([]byte, 16)
		_ = c.SetReadDeadline(time.Now().Add(time.Second))
		n, err := c.Read(buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(buf[:n]) != "broadcast" {
			t.Fatalf("got %q", buf[:n])
		}
	}
}

func TestServerDataReceivedCallback(t *testing.T) {
	got := make(chan string, 1)
	s := New(nil, Callbacks{
		OnDataReceived: func(key string, data []byte) { got <- string(data) },
	})
	if err := s.Start("127.0.0.1", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Destroy()

	conn, err := net.Dial("tcp", s.listener.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case data := <-got:
		if data != "ping" {
			t.Fatalf("got %q", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for data")
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	s := New(nil, Callbacks{})
	if err := s.Start("127.0.0.1", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("first destroy: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
}
