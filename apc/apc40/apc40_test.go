package apc40

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type fakeInput struct {
	lock    sync.Mutex
	onMsg   func([]byte, int32)
	config  drivers.ListenConfig
	stopped bool
	ready   chan struct{}
}

func newFakeInput() *fakeInput {
	return &fakeInput{ready: make(chan struct{})}
}

func (f *fakeInput) Listen(onMsg func([]byte, int32), config drivers.ListenConfig) (func(), error) {
	f.lock.Lock()
	f.onMsg = onMsg
	f.config = config
	f.lock.Unlock()
	close(f.ready)
	return func() {
		f.lock.Lock()
		f.stopped = true
		f.lock.Unlock()
	}, nil
}

func (f *fakeInput) send(msg ...byte) {
	<-f.ready
	f.lock.Lock()
	onMsg := f.onMsg
	f.lock.Unlock()
	onMsg(msg, 0)
}

type fakeOutput struct {
	lock sync.Mutex
	sent [][]byte
	err  error
}

func (f *fakeOutput) Send(msg []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, append([]byte(nil), msg...))
	return nil
}

func (f *fakeOutput) take() [][]byte {
	f.lock.Lock()
	defer f.lock.Unlock()
	s := f.sent
	f.sent = nil
	return s
}

type logRecorder struct {
	lock  sync.Mutex
	lines []string
}

func (l *logRecorder) logf(format string, args ...interface{}) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.lines = append(l.lines, format)
}

func (l *logRecorder) count() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.lines)
}

func TestInitAndFlush(t *testing.T) {
	out := &fakeOutput{}
	a := New(newFakeInput(), out, Config{})

	require.NoError(t, a.Init(ModeFullCtl))
	assert.Equal(t, [][]byte{InitMessage(ModeFullCtl)}, out.take())

	require.NoError(t, a.Flush())
	sent := out.take()
	assert.Len(t, sent, 131)
	for _, msg := range sent {
		assert.Len(t, msg, 3)
	}

	require.True(t, a.SetDesired(ControlKnobTrackValue, 64))
	require.NoError(t, a.Flush())
	assert.Equal(t, [][]byte{{0xb0, 0x30, 64}}, out.take())

	require.NoError(t, a.Flush())
	assert.Empty(t, out.take())

	// Reinitializing resends everything.
	require.NoError(t, a.Init(ModeFullCtl))
	out.take()
	require.NoError(t, a.Flush())
	assert.Len(t, out.take(), 131)
}

func TestFlushRunningStatus(t *testing.T) {
	out := &fakeOutput{}
	a := New(newFakeInput(), out, Config{RunningStatus: true})
	require.NoError(t, a.Flush())
	out.take()

	a.Set(ControlKnobTrackValue, RawValue(1))
	a.Set(ControlKnobTrackValue+1, RawValue(2))
	require.NoError(t, a.Flush())
	assert.Equal(t, [][]byte{{0xb0, 0x30, 1, 0x31, 2}}, out.take())
}

func TestFlushErrorForcesResync(t *testing.T) {
	out := &fakeOutput{}
	a := New(newFakeInput(), out, Config{})
	require.NoError(t, a.Flush())
	out.take()

	out.err = errors.New("unplugged")
	a.Set(PackXY(ControlPad, 0, 0), LEDGreen)
	err := a.Flush()
	require.Error(t, err)
	assert.ErrorIs(t, err, out.err)

	out.err = nil
	require.NoError(t, a.Flush())
	assert.Len(t, out.take(), 131)
}

func TestRunDispatchesCallbacks(t *testing.T) {
	in := newFakeInput()
	logs := &logRecorder{}
	a := New(in, &fakeOutput{}, Config{Logf: logs.logf})

	type call struct {
		c       Control
		v       Value
		pressed bool
	}
	calls := make(chan call, 10)
	all := make(chan call, 10)

	pad := PackXY(ControlPad, 3, 2)
	a.AddCallback(pad, func(c Control, v Value, pressed bool) {
		calls <- call{c, v, pressed}
	})
	a.AddCallback(AllControls, func(c Control, v Value, pressed bool) {
		all <- call{c, v, pressed}
	})
	a.AddCallback(-1, func(Control, Value, bool) { t.Error("unexpected") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	in.send(0x93, 0x37, 0x7f)
	in.send(0x90, 0x00, 0x7f) // unmapped
	in.send(0xf0, 0x47, 0xf7) // sysex
	in.send(0x83, 0x37, 0x00)

	assert.Equal(t, call{pad, 0x7f, true}, recv(t, calls))
	assert.Equal(t, call{pad, 0, false}, recv(t, calls))
	assert.Equal(t, call{pad, 0x7f, true}, recv(t, all))
	assert.Equal(t, call{pad, 0, false}, recv(t, all))
	assert.Equal(t, 2, logs.count())

	in.lock.Lock()
	assert.True(t, in.config.SysEx)
	in.lock.Unlock()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	in.lock.Lock()
	assert.True(t, in.stopped)
	in.lock.Unlock()
	require.NoError(t, a.Close())
}

func TestRunOnce(t *testing.T) {
	in := newFakeInput()
	a := New(in, &fakeOutput{}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	<-in.ready

	assert.ErrorIs(t, a.Run(context.Background()), ErrRunning)
	in.lock.Lock()
	assert.False(t, in.stopped)
	in.lock.Unlock()

	cancel()
	assert.ErrorIs(t, recv(t, done), context.Canceled)
	in.lock.Lock()
	assert.True(t, in.stopped)
	in.lock.Unlock()
}

func TestRunReturnsInputError(t *testing.T) {
	in := newFakeInput()
	a := New(in, &fakeOutput{}, Config{})

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	<-in.ready
	boom := errors.New("read failed")
	in.lock.Lock()
	onErr := in.config.OnErr
	in.lock.Unlock()
	onErr(boom)

	select {
	case err := <-done:
		assert.Equal(t, boom, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

func recv[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}
