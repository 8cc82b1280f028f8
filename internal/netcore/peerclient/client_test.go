package peerclient

import (
	"net"
	"testing"
	"time"
)

func TestConnectSendAndReceive(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	serverConnC := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			serverConnC <- conn
		}
	}()

	received := make(chan []byte, 1)
	disconnected := make(chan struct{}, 1)
	c := New(nil, Callbacks{
		OnDataReceived: func(data []byte) { received <- data },
		OnDisconnected: func() { close(disconnected) },
	})

	addr := ln.Addr().(*net.TCPAddr)
	if err := c.Connect("127.0.0.1", addr.Port, ""); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !c.IsConnected() {
		t.Fatal("expected connected")
	}

	var serverConn net.Conn
	select {
	case serverConn = <-serverConnC:
	case <-time.After(time.Second):
		t.Fatal("server never accepted")
	}
	defer serverConn.Close()

	if err := c.Send([]byte("hi")); err != nil {
		t.Fatalf("send: %v", err)
	}
	buf := make([]byte, 8)
	_ = serverConn.SetReadDeadline(time.Now().Add(time.Second))
	n, err := serverConn.Read(buf)
	if err != nil || string(buf[:n]) != "hi" {
		t.Fatalf("server read = %q, err = %v", buf[:n], err)
	}

	if _, err := serverConn.Write([]byte("pong")); err != nil {
		t.Fatalf("server write: %v", err)
	}
	select {
	case data := <-received:
		if string(data) != "pong" {
			t.Fatalf("got %q", data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for data")
	}

	serverConn.Close()
	select {
	case <-disconnected:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for disconnect callback")
	}
	if c.IsConnected() {
		t.Fatal("expected disconnected after peer closed")
	}
}

func TestSendWithoutConnectFails(t *testing.T) {
	c := New(nil, Callbacks{})
	if err := c.Send([]byte("x")); err == nil {
		t.Fatal("expected error sending without a connection")
	}
}
