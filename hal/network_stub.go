package hal

import "errors"

var (
	// ErrClosed is returned by Network.Recv after the transport shut down.
	ErrClosed = errors.New("transport closed")
	// ErrNoPeer is returned by Network.Send before any peer has been seen.
	ErrNoPeer = errors.New("no peer")
)

type nullNetwork struct{}

func (nullNetwork) Send(pkt []byte) error {
	_ = pkt
	return ErrNotImplemented
}

func (nullNetwork) Recv(pkt []byte) (int, error) {
	_ = pkt
	return 0, ErrNotImplemented
}
