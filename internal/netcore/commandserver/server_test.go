package commandserver

import (
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/fruitline/hmicore/internal/wire"
)

func dialAndWrite(t *testing.T, addr string, frames ...[]byte) {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	for _, f := range frames {
		if _, err := conn.Write(f); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

func le32(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func TestFixedBodyFrame(t *testing.T) {
	got := make(chan CommandHead, 1)
	var body []byte
	s := New(nil, Callbacks{
		SetBuffer: func(head CommandHead, b []byte) {
			body = append([]byte(nil), b...)
			got <- head
		},
	}, Config{})
	if err := s.Start("127.0.0.1", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Destroy()

	addr := s.listener.Addr().String()
	frame := append(le32(SyncWord), le32(1)...)
	frame = append(frame, le32(2)...)
	frame = append(frame, le32(wire.ACSHmiExitStop)...)
	frame = append(frame, le32(42)...) // ACS_HMI_EXIT_STOP body is 4 bytes

	dialAndWrite(t, addr, frame)

	select {
	case head := <-got:
		if head.SrcID != 1 || head.DestID != 2 || head.CmdID != wire.ACSHmiExitStop {
			t.Fatalf("unexpected head: %+v", head)
		}
		if len(body) != 4 || int32(binary.LittleEndian.Uint32(body)) != 42 {
			t.Fatalf("unexpected body: %v", body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestLengthPrefixedImageFrame(t *testing.T) {
	got := make(chan []byte, 1)
	s := New(nil, Callbacks{
		SetBuffer: func(head CommandHead, b []byte) { got <- append([]byte(nil), b...) },
	}, Config{})
	if err := s.Start("127.0.0.1", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Destroy()

	addr := s.listener.Addr().String()
	frame := append(le32(SyncWord), le32(0)...)
	frame = append(frame, le32(0)...)
	frame = append(frame, le32(wire.IPMCmdImage)...)
	frame = append(frame, le32(4)...) // length prefix
	frame = append(frame, []byte{0xDE, 0xAD, 0xBE, 0xEF}...)

	dialAndWrite(t, addr, frame)

	select {
	case body := <-got:
		if len(body) != 4 || body[0] != 0xDE {
			t.Fatalf("unexpected body: %v", body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestSyncErrorClosesConnectionWithoutDeliveringEvent(t *testing.T) {
	delivered := false
	errC := make(chan error, 1)
	s := New(nil, Callbacks{
		SetBuffer: func(head CommandHead, b []byte) { delivered = true },
		OnError:   func(err error) { errC <- err },
	}, Config{})
	if err := s.Start("127.0.0.1", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Destroy()

	dialAndWrite(t, s.listener.Addr().String(), []byte{0, 0, 0, 0})

	select {
	case <-errC:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sync error")
	}
	if delivered {
		t.Fatal("expected no event delivered after a sync error")
	}
}

func TestOneFramePerConnection(t *testing.T) {
	count := 0
	done := make(chan struct{}, 2)
	s := New(nil, Callbacks{
		SetBuffer: func(head CommandHead, b []byte) { count++; done <- struct{}{} },
	}, Config{})
	if err := s.Start("127.0.0.1", 0); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Destroy()

	addr := s.listener.Addr().String()
	frame := append(le32(SyncWord), le32(0)...)
	frame = append(frame, le32(0)...)
	frame = append(frame, le32(wire.ACSHmiExitStop)...)
	frame = append(frame, le32(1)...)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if _, err := conn.Write(frame); err != nil {
		t.Fatalf("write: %v", err)
	}
	// A second frame on the same connection must be ignored: the server
	// closes the socket after the first.
	_, _ = conn.Write(frame)
	conn.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first frame")
	}
	time.Sleep(100 * time.Millisecond)
	if count != 1 {
		t.Fatalf("expected exactly one frame delivered, got %d", count)
	}
}
