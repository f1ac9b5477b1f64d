//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

// udpNetwork stands in for the phone link: each datagram is one packet.
//
// Replies go to the address of the most recent sender.
type udpNetwork struct {
	conn *net.UDPConn

	mu   sync.Mutex
	peer *net.UDPAddr
}

func newUDPNetwork(addr string) (*udpNetwork, error) {
	la, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("sync resolve %q: %w", addr, err)
	}
	conn, err := net.ListenUDP("udp", la)
	if err != nil {
		return nil, fmt.Errorf("sync listen %q: %w", addr, err)
	}
	return &udpNetwork{conn: conn}, nil
}

func (n *udpNetwork) LocalAddr() string { return n.conn.LocalAddr().String() }

func (n *udpNetwork) Send(pkt []byte) error {
	n.mu.Lock()
	peer := n.peer
	n.mu.Unlock()
	if peer == nil {
		return fmt.Errorf("sync send: %w", ErrNoPeer)
	}
	_, err := n.conn.WriteToUDP(pkt, peer)
	return err
}

func (n *udpNetwork) Recv(pkt []byte) (int, error) {
	nr, from, err := n.conn.ReadFromUDP(pkt)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return 0, ErrClosed
		}
		return 0, err
	}
	n.mu.Lock()
	n.peer = from
	n.mu.Unlock()
	return nr, nil
}

func (n *udpNetwork) Close() error { return n.conn.Close() }
