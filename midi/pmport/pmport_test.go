package pmport

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rakyll/portmidi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type fakeStream struct {
	lock    sync.Mutex
	events  [][]portmidi.Event
	readErr error
	short   [][3]int64
	sysex   [][]byte
	closed  bool
}

func (f *fakeStream) Read(max int) ([]portmidi.Event, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if len(f.events) == 0 {
		return nil, f.readErr
	}
	evts := f.events[0]
	f.events = f.events[1:]
	return evts, nil
}

func (f *fakeStream) WriteShort(status, data1, data2 int64) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.short = append(f.short, [3]int64{status, data1, data2})
	return nil
}

func (f *fakeStream) WriteSysExBytes(_ portmidi.Timestamp, msg []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.sysex = append(f.sysex, msg)
	return nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func TestOutSendExpandsRunningStatus(t *testing.T) {
	s := &fakeStream{}
	out := NewOut(s)

	require.NoError(t, out.Send([]byte{0xf0, 0x47, 0x7f, 0xf7}))
	require.NoError(t, out.Send([]byte{0x90, 0x35, 1, 0x36, 2, 0xb0, 0x30, 64}))

	assert.Equal(t, [][]byte{{0xf0, 0x47, 0x7f, 0xf7}}, s.sysex)
	assert.Equal(t, [][3]int64{
		{0x90, 0x35, 1},
		{0x90, 0x36, 2},
		{0xb0, 0x30, 64},
	}, s.short)

	require.NoError(t, out.Close())
	assert.True(t, s.closed)
}

func TestInListen(t *testing.T) {
	s := &fakeStream{
		events: [][]portmidi.Event{
			{{Timestamp: 10, Status: 0x90, Data1: 0x35, Data2: 0x7f}},
			{{Timestamp: 20, Status: 0x80, Data1: 0x35, Data2: 0}},
		},
	}
	in := NewIn(s)
	in.period = time.Millisecond

	msgs := make(chan []byte, 4)
	stop, err := in.Listen(func(msg []byte, ms int32) {
		msgs <- msg
	}, drivers.ListenConfig{})
	require.NoError(t, err)
	defer stop()

	for _, want := range [][]byte{{0x90, 0x35, 0x7f}, {0x80, 0x35, 0}} {
		select {
		case got := <-msgs:
			assert.Equal(t, want, got)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out")
		}
	}
}

func TestInListenReportsError(t *testing.T) {
	boom := errors.New("device removed")
	s := &fakeStream{readErr: boom}
	in := NewIn(s)
	in.period = time.Millisecond

	errs := make(chan error, 1)
	stop, err := in.Listen(func([]byte, int32) {}, drivers.ListenConfig{
		OnErr: func(err error) { errs <- err },
	})
	require.NoError(t, err)
	defer stop()

	select {
	case err := <-errs:
		assert.Equal(t, boom, err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

func TestInListenNilCallback(t *testing.T) {
	_, err := NewIn(&fakeStream{}).Listen(nil, drivers.ListenConfig{})
	assert.Error(t, err)
}

func TestInListenDropsSysEx(t *testing.T) {
	s := &fakeStream{
		events: [][]portmidi.Event{{
			{Status: 0xf0, Data1: 0x47, Data2: 0x7f},
			{Status: 0x73, Data1: 0x60, Data2: 0xf7},
			{Status: 0xb0, Data1: 0x30, Data2: 64},
		}},
	}
	in := NewIn(s)
	in.period = time.Millisecond

	msgs := make(chan []byte, 4)
	stop, err := in.Listen(func(msg []byte, ms int32) {
		msgs <- msg
	}, drivers.ListenConfig{})
	require.NoError(t, err)

	select {
	case got := <-msgs:
		assert.Equal(t, []byte{0xb0, 0x30, 64}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	stop()
	assert.Empty(t, msgs)
}

func TestMatch(t *testing.T) {
	infos := []*portmidi.DeviceInfo{
		{Name: "Midi Through Port-0", IsInputAvailable: true, IsOutputAvailable: true},
		nil,
		{Name: "Akai APC40 MIDI 1", IsInputAvailable: true},
		{Name: "Akai APC40 MIDI 1", IsOutputAvailable: true},
	}
	in, out := match(infos, "Akai APC40")
	assert.Equal(t, 2, in)
	assert.Equal(t, 3, out)

	in, out = match(infos, "APC40")
	assert.Equal(t, -1, in)
	assert.Equal(t, -1, out)
}
