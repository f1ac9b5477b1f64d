package appsync

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"sparkwatch/hal"
	logclient "sparkwatch/sparkos/client/logger"
	"sparkwatch/sparkos/kernel"
	"sparkwatch/sparkos/proto"
)

const maxPacketBytes = 512

// Service keeps the watch-side copy of the phone's key/value dictionary.
//
// The subscriber registers with MsgSyncInit, carrying the initial dictionary and a
// send capability; hal.Network is read only after that. Every dictionary datagram read from hal.Network updates the
// cache and each of its tuples is forwarded as MsgSyncTuple(new, old). Malformed
// datagrams are logged, reported to the subscriber as MsgError and NACKed.
type Service struct {
	nw     hal.Network
	ep     kernel.Capability
	logCap kernel.Capability

	sub   kernel.Capability
	cache map[uint32]proto.Tuple
}

func New(nw hal.Network, ep, logCap kernel.Capability) *Service {
	return &Service{nw: nw, ep: ep, logCap: logCap, cache: make(map[uint32]proto.Tuple)}
}

func (s *Service) Run(ctx *kernel.Context) {
	inbox, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}

	done := make(chan struct{})
	defer close(done)
	pkts := make(chan []byte, 4)
	reading := false

	for {
		// The link is not read until someone is registered to receive tuples.
		if !reading && s.sub.Valid() && s.nw != nil {
			go s.readLoop(ctx, pkts, done)
			reading = true
		}
		select {
		case msg, ok := <-inbox:
			if !ok {
				return
			}
			s.handleMessage(ctx, msg)
		case pkt := <-pkts:
			// Registration queued before the datagram must win.
			for drained := false; !drained; {
				select {
				case msg, ok := <-inbox:
					if !ok {
						return
					}
					s.handleMessage(ctx, msg)
				default:
					drained = true
				}
			}
			s.handlePacket(ctx, pkt)
		}
	}
}

func (s *Service) readLoop(ctx *kernel.Context, out chan<- []byte, done <-chan struct{}) {
	buf := make([]byte, maxPacketBytes)
	for {
		n, err := s.nw.Recv(buf)
		if err != nil {
			if !errors.Is(err, hal.ErrClosed) && !errors.Is(err, hal.ErrNotImplemented) {
				logclient.Logf(ctx, s.logCap, "appsync: recv: %v", err)
			}
			return
		}
		pkt := make([]byte, n)
		copy(pkt, buf[:n])
		select {
		case out <- pkt:
		case <-done:
			return
		}
	}
}

func (s *Service) handleMessage(ctx *kernel.Context, msg kernel.Message) {
	if proto.Kind(msg.Kind) != proto.MsgSyncInit {
		return
	}
	initial, err := proto.DecodeDict(msg.Payload())
	if err != nil {
		logclient.Logf(ctx, s.logCap, "appsync: init: %v", err)
		return
	}
	for _, t := range initial {
		s.cache[t.Key] = cloneTuple(t)
	}
	if msg.Cap.Valid() {
		s.sub = msg.Cap
	}
}

func (s *Service) handlePacket(ctx *kernel.Context, pkt []byte) {
	tuples, err := proto.DecodeDict(pkt)
	if err != nil {
		logclient.Logf(ctx, s.logCap, "appsync: drop %d byte packet: %v", len(pkt), err)
		s.reply(proto.SyncNack)
		if s.sub.Valid() {
			detail := []byte(err.Error())
			_ = ctx.SendToCapResult(s.sub, uint16(proto.MsgError),
				proto.ErrorPayload(proto.ErrBadMessage, proto.MsgSyncTuple, detail), kernel.Capability{})
		}
		return
	}
	s.reply(proto.SyncAck)

	for _, t := range tuples {
		t = cloneTuple(t)
		old, hadOld := s.cache[t.Key]
		s.cache[t.Key] = t
		if !s.sub.Valid() {
			continue
		}
		if err := s.forward(ctx, t, old, hadOld); err != nil {
			logclient.Logf(ctx, s.logCap, "appsync: forward key %d: %v", t.Key, err)
		}
	}
}

func (s *Service) forward(ctx *kernel.Context, t, old proto.Tuple, hadOld bool) error {
	var oldp *proto.Tuple
	if hadOld {
		oldp = &old
	}
	payload, err := proto.SyncTuplePayload(t, oldp)
	if err == nil && len(payload) > kernel.MaxMessageBytes {
		// Drop the previous value first, then shorten the new one.
		t = fitTuple(t, kernel.MaxMessageBytes)
		payload, err = proto.SyncTuplePayload(t, nil)
	}
	if err != nil {
		return err
	}
	res := ctx.SendToCapRetry(s.sub, uint16(proto.MsgSyncTuple), payload, kernel.Capability{}, 8)
	if res != kernel.SendOK {
		return fmt.Errorf("send: %s", res)
	}
	return nil
}

func (s *Service) reply(b byte) {
	if s.nw == nil {
		return
	}
	_ = s.nw.Send([]byte{b})
}

// fitTuple shortens a string or bytes value so a single-tuple dictionary fits in
// limit bytes. Strings are cut at a rune boundary.
func fitTuple(t proto.Tuple, limit int) proto.Tuple {
	room := limit - 1 - 7
	if t.Type == proto.TupleCString {
		room--
	}
	if room < 0 || len(t.Value) <= room {
		return t
	}
	v := t.Value[:room]
	if t.Type == proto.TupleCString {
		v = trimPartialRune(v)
	}
	t.Value = v
	return t
}

// trimPartialRune drops a rune split by the cut at the end of v. Bytes before
// the last rune start are kept as they are, valid or not.
func trimPartialRune(v []byte) []byte {
	for i := len(v) - 1; i >= 0 && i >= len(v)-(utf8.UTFMax-1); i-- {
		if !utf8.RuneStart(v[i]) {
			continue
		}
		if !utf8.FullRune(v[i:]) {
			return v[:i]
		}
		return v
	}
	return v
}

func cloneTuple(t proto.Tuple) proto.Tuple {
	v := make([]byte, len(t.Value))
	copy(v, t.Value)
	t.Value = v
	return t
}
