package main

import (
	"net"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparkwatch/sparkos/proto"
	"sparkwatch/sparkos/tasks/watchface"
)

func TestSendTuplesOnlyChangedFlags(t *testing.T) {
	cmd := newSendCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--invert=1", "--temp", "21C", "--mmode=0"}))

	var opts sendOptions
	opts.invert = 1
	opts.temperature = "21C"
	got := opts.tuples(cmd.Flags())

	require.Len(t, got, 3)
	assert.Equal(t, uint32(watchface.KeyInvert), got[0].Key)
	v, ok := got[0].Int()
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	s, ok := got[1].Str()
	assert.True(t, ok)
	assert.Equal(t, "21C", s)

	assert.Equal(t, uint32(watchface.KeyMinimal), got[2].Key)
	v, _ = got[2].Int()
	assert.Equal(t, int64(0), v)

	assert.Equal(t, `invert=1 temp="21C" mmode=0`, describe(got))
}

// fakeWatch answers every datagram with reply and hands the decoded dictionary to got.
func fakeWatch(t *testing.T, reply byte) (string, <-chan []proto.Tuple) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	got := make(chan []proto.Tuple, 4)
	go func() {
		buf := make([]byte, 512)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			tuples, err := proto.DecodeDict(append([]byte(nil), buf[:n]...))
			if err == nil {
				got <- tuples
			}
			_, _ = conn.WriteToUDP([]byte{reply}, from)
		}
	}()
	return conn.LocalAddr().String(), got
}

func TestLinkPushAcknowledged(t *testing.T) {
	addr, got := fakeWatch(t, proto.SyncAck)
	l, err := dialLink(addr, nil)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Push([]proto.Tuple{proto.CStringTuple(uint32(watchface.KeyCondition), "Fog")}))

	select {
	case tuples := <-got:
		require.Len(t, tuples, 1)
		s, _ := tuples[0].Str()
		assert.Equal(t, "Fog", s)
	case <-time.After(time.Second):
		t.Fatal("watch saw nothing")
	}
}

func TestLinkPushNacked(t *testing.T) {
	addr, _ := fakeWatch(t, proto.SyncNack)
	l, err := dialLink(addr, nil)
	require.NoError(t, err)
	defer l.Close()

	assert.ErrorIs(t, l.Push([]proto.Tuple{proto.BoolTuple(0, true)}), errNacked)
}

func TestTUIToggleAndEditSendImmediately(t *testing.T) {
	var pushed []proto.Tuple
	m := tea.Model(newTUIModel(func(ts []proto.Tuple) error {
		pushed = append(pushed, ts...)
		return nil
	}))

	press := func(msg tea.KeyMsg) {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		if cmd != nil {
			if res, ok := cmd().(pushResultMsg); ok {
				m, _ = m.Update(res)
			}
		}
	}

	press(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Len(t, pushed, 1)
	assert.Equal(t, uint32(watchface.KeyInvert), pushed[0].Key)
	v, _ := pushed[0].Int()
	assert.Equal(t, int64(1), v)

	// Down to temp: bluetoothvibe, hourlyvibe, mmode, temp.
	for i := 0; i < 4; i++ {
		press(tea.KeyMsg{Type: tea.KeyDown})
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("21C")})
	press(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, pushed, 2)
	assert.Equal(t, uint32(watchface.KeyTemperature), pushed[1].Key)
	s, _ := pushed[1].Str()
	assert.Equal(t, "21C", s)
	assert.Contains(t, m.View(), "sent temp")
}
