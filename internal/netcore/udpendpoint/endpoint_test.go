package udpendpoint

import (
	"net"
	"testing"
	"time"
)

func TestEndpointSendAndReceive(t *testing.T) {
	recv, err := New(nil)
	if err != nil {
		t.Fatalf("new receiver: %v", err)
	}
	defer recv.Close()

	type datagram struct {
		srcID, cmdID int32
		data         []byte
	}
	got := make(chan datagram, 1)
	if err := recv.Start("127.0.0.1", 0, func(srcID, cmdID int32, data []byte) {
		got <- datagram{srcID, cmdID, data}
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer recv.Stop()

	port := recv.recvConn.LocalAddr().(*net.UDPAddr).Port

	sender, err := New(nil)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	defer sender.Close()

	if _, err := sender.SendTo([]byte("hello"), "127.0.0.1", port); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case d := <-got:
		if string(d.data) != "hello" {
			t.Fatalf("payload = %q", d.data)
		}
		if d.srcID != 0 || d.cmdID != 0 {
			t.Fatalf("expected placeholder src/cmd ids, got %d/%d", d.srcID, d.cmdID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for datagram")
	}
}

func TestStartTwiceFails(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer e.Close()

	if err := e.Start("127.0.0.1", 0, nil); err != nil {
		t.Fatalf("first start: %v", err)
	}
	defer e.Stop()

	if err := e.Start("127.0.0.1", 0, nil); err == nil {
		t.Fatal("expected error starting twice")
	}
}
