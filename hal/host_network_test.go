//go:build !tinygo

package hal

import (
	"errors"
	"net"
	"testing"
	"time"
)

func TestUDPNetworkRepliesToLastSender(t *testing.T) {
	n, err := newUDPNetwork("127.0.0.1:0")
	if err != nil {
		t.Fatalf("newUDPNetwork: %v", err)
	}
	defer n.Close()

	if err := n.Send([]byte{1}); !errors.Is(err, ErrNoPeer) {
		t.Fatalf("Send before peer = %v, want ErrNoPeer", err)
	}

	phone, err := net.Dial("udp", n.LocalAddr())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer phone.Close()
	if _, err := phone.Write([]byte("hi")); err != nil {
		t.Fatalf("write: %v", err)
	}

	buf := make([]byte, 16)
	nr, err := n.Recv(buf)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if string(buf[:nr]) != "hi" {
		t.Fatalf("Recv = %q", buf[:nr])
	}

	if err := n.Send([]byte{0x06}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	_ = phone.SetReadDeadline(time.Now().Add(time.Second))
	nr, err = phone.Read(buf)
	if err != nil {
		t.Fatalf("phone read: %v", err)
	}
	if nr != 1 || buf[0] != 0x06 {
		t.Fatalf("reply = %x", buf[:nr])
	}
}

func TestUDPNetworkRecvAfterClose(t *testing.T) {
	n, err := newUDPNetwork("127.0.0.1:0")
	if err != nil {
		t.Fatalf("newUDPNetwork: %v", err)
	}
	_ = n.Close()
	if _, err := n.Recv(make([]byte, 4)); !errors.Is(err, ErrClosed) {
		t.Fatalf("Recv after close = %v, want ErrClosed", err)
	}
}
