package appsync

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkwatch/hal"
	"sparkwatch/sparkos/kernel"
	"sparkwatch/sparkos/proto"
)

type fakeNetwork struct {
	in   chan []byte
	sent chan []byte
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{in: make(chan []byte, 4), sent: make(chan []byte, 4)}
}

func (n *fakeNetwork) Recv(pkt []byte) (int, error) {
	b, ok := <-n.in
	if !ok {
		return 0, hal.ErrClosed
	}
	return copy(pkt, b), nil
}

func (n *fakeNetwork) Send(pkt []byte) error {
	n.sent <- append([]byte(nil), pkt...)
	return nil
}

type funcTask func(ctx *kernel.Context)

func (f funcTask) Run(ctx *kernel.Context) { f(ctx) }

type harness struct {
	k   *kernel.Kernel
	nw  *fakeNetwork
	got chan kernel.Message
}

func start(t *testing.T, initial []proto.Tuple) *harness {
	t.Helper()
	h := &harness{k: kernel.New(), nw: newFakeNetwork(), got: make(chan kernel.Message, 8)}
	svc := h.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	sub := h.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	logEp := h.k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	h.k.AddTask(New(h.nw, svc.Restrict(kernel.RightRecv), logEp.Restrict(kernel.RightSend)))

	initPayload, err := proto.SyncInitPayload(initial)
	require.NoError(t, err)
	ready := make(chan struct{})
	h.k.AddTask(funcTask(func(ctx *kernel.Context) {
		ctx.SendToCapResult(svc.Restrict(kernel.RightSend), uint16(proto.MsgSyncInit), initPayload, sub.Restrict(kernel.RightSend))
		close(ready)
		for {
			msg, ok := ctx.Recv(sub.Restrict(kernel.RightRecv))
			if !ok {
				return
			}
			h.got <- msg
		}
	}))
	<-ready
	t.Cleanup(func() {
		close(h.nw.in)
		h.k.Stop()
		h.k.Wait()
	})
	return h
}

func (h *harness) push(t *testing.T, tuples ...proto.Tuple) {
	t.Helper()
	b, err := proto.EncodeDict(tuples)
	require.NoError(t, err)
	h.nw.in <- b
}

func (h *harness) next(t *testing.T) kernel.Message {
	t.Helper()
	select {
	case msg := <-h.got:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for appsync message")
		return kernel.Message{}
	}
}

func (h *harness) ack(t *testing.T) byte {
	t.Helper()
	select {
	case b := <-h.nw.sent:
		require.Len(t, b, 1)
		return b[0]
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for link reply")
		return 0
	}
}

func TestForwardsNewAndOld(t *testing.T) {
	h := start(t, []proto.Tuple{proto.BoolTuple(0, false), proto.CStringTuple(3, "")})

	h.push(t, proto.BoolTuple(0, true), proto.CStringTuple(3, "21C"))
	assert.Equal(t, proto.SyncAck, h.ack(t))

	msg := h.next(t)
	require.Equal(t, proto.MsgSyncTuple, proto.Kind(msg.Kind))
	newT, old, hasOld, err := proto.DecodeSyncTuplePayload(msg.Payload())
	require.NoError(t, err)
	v, _ := newT.Int()
	assert.Equal(t, int64(1), v)
	require.True(t, hasOld)
	ov, _ := old.Int()
	assert.Equal(t, int64(0), ov)

	msg = h.next(t)
	newT, old, hasOld, err = proto.DecodeSyncTuplePayload(msg.Payload())
	require.NoError(t, err)
	s, _ := newT.Str()
	assert.Equal(t, "21C", s)
	require.True(t, hasOld)
	oldStr, _ := old.Str()
	assert.Equal(t, "", oldStr)
}

func TestUnknownKeyHasNoOld(t *testing.T) {
	h := start(t, nil)

	h.push(t, proto.UintTuple(42, 7))
	assert.Equal(t, proto.SyncAck, h.ack(t))

	msg := h.next(t)
	newT, _, hasOld, err := proto.DecodeSyncTuplePayload(msg.Payload())
	require.NoError(t, err)
	assert.Equal(t, uint32(42), newT.Key)
	assert.False(t, hasOld)
}

func TestMalformedPacketIsReported(t *testing.T) {
	h := start(t, nil)

	h.nw.in <- []byte{2, 0, 0}
	assert.Equal(t, proto.SyncNack, h.ack(t))

	msg := h.next(t)
	require.Equal(t, proto.MsgError, proto.Kind(msg.Kind))
	code, ref, _, ok := proto.DecodeErrorPayload(msg.Payload())
	require.True(t, ok)
	assert.Equal(t, proto.ErrBadMessage, code)
	assert.Equal(t, proto.MsgSyncTuple, ref)
}

func TestFitTupleCutsAtRuneBoundary(t *testing.T) {
	long := proto.CStringTuple(4, strings.Repeat("é", 100))
	got := fitTuple(long, kernel.MaxMessageBytes)

	b, err := proto.EncodeDict([]proto.Tuple{got})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(b), kernel.MaxMessageBytes)
	assert.True(t, utf8.Valid(got.Value))
}

func TestFitTupleKeepsInvalidBytesBeforeCut(t *testing.T) {
	// A stray 0xFF early in the text must not take the rest of the value with it.
	raw := append([]byte("a\xffb"), []byte(strings.Repeat("x", 200))...)
	long := proto.Tuple{Key: 4, Type: proto.TupleCString, Value: raw}
	got := fitTuple(long, kernel.MaxMessageBytes)
	assert.Len(t, got.Value, kernel.MaxMessageBytes-1-7-1)
	assert.Equal(t, raw[:len(got.Value)], got.Value)

	// A three-byte rune cut after its first byte is dropped whole.
	split := append([]byte(strings.Repeat("y", 118)), "€"...)
	got = fitTuple(proto.Tuple{Key: 4, Type: proto.TupleCString, Value: split}, kernel.MaxMessageBytes)
	assert.Equal(t, strings.Repeat("y", 118), string(got.Value))
}
