package main

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hashicorp/go-hclog"

	"sparkwatch/sparkos/proto"
)

const defaultReplyTimeout = 500 * time.Millisecond

var (
	errNoReply = errors.New("no reply from watch")
	errNacked  = errors.New("watch rejected the dictionary")
)

// link is a connected UDP socket to the watch. Each Push is one datagram.
type link struct {
	conn    net.Conn
	log     hclog.Logger
	timeout time.Duration
}

func dialLink(addr string, log hclog.Logger) (*link, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &link{conn: conn, log: log, timeout: defaultReplyTimeout}, nil
}

func (l *link) Close() error { return l.conn.Close() }

// Push sends tuples as one dictionary and waits for the link-level reply.
func (l *link) Push(tuples []proto.Tuple) error {
	pkt, err := proto.EncodeDict(tuples)
	if err != nil {
		return err
	}
	if _, err := l.conn.Write(pkt); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	l.log.Debug("sent", "tuples", len(tuples), "bytes", len(pkt))

	if err := l.conn.SetReadDeadline(time.Now().Add(l.timeout)); err != nil {
		return err
	}
	var reply [1]byte
	n, err := l.conn.Read(reply[:])
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return errNoReply
		}
		return fmt.Errorf("reply: %w", err)
	}
	switch {
	case n == 1 && reply[0] == proto.SyncAck:
		return nil
	case n == 1 && reply[0] == proto.SyncNack:
		return errNacked
	default:
		return fmt.Errorf("reply: unexpected %x", reply[:n])
	}
}
