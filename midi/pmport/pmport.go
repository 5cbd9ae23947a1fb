// Copyright 2013 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pmport adapts portmidi streams to the Listen/Send shape of
// gomidi's drivers.In and drivers.Out.
package pmport

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmacd/apcmidi/midi/controller"
	"github.com/rakyll/portmidi"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const (
	MaxEventsPerPoll = 1024
	PollingPeriod    = 10 * time.Millisecond
)

var (
	ErrNoDevice = fmt.Errorf("pmport: no matching device is connected")
)

// Stream is the subset of *portmidi.Stream used here.
type Stream interface {
	Read(max int) ([]portmidi.Event, error)
	WriteShort(status int64, data1 int64, data2 int64) error
	WriteSysExBytes(when portmidi.Timestamp, msg []byte) error
	Close() error
}

type In struct {
	stream Stream
	period time.Duration
}

type Out struct {
	stream Stream
}

// NewIn wraps an open input stream.
func NewIn(s Stream) *In {
	return &In{stream: s, period: PollingPeriod}
}

// NewOut wraps an open output stream.
func NewOut(s Stream) *Out {
	return &Out{stream: s}
}

// Open finds the first device whose name starts with prefix and opens
// its input and output streams.
func Open(prefix string) (*In, *Out, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("midi: initialize: %w", err)
	}
	input, output, err := discover(prefix)
	if err != nil {
		return nil, nil, err
	}

	inStream, err := portmidi.NewInputStream(input, MaxEventsPerPoll)
	if err != nil {
		return nil, nil, fmt.Errorf("midi: open input: %w", err)
	}
	outStream, err := portmidi.NewOutputStream(output, MaxEventsPerPoll, 0)
	if err != nil {
		inStream.Close()
		return nil, nil, fmt.Errorf("midi: open output: %w", err)
	}
	return NewIn(inStream), NewOut(outStream), nil
}

// Listen polls the stream until stopFn is called.  Read errors are
// passed to config.OnErr and end the polling.
func (i *In) Listen(onMsg func(msg []byte, milliseconds int32), config drivers.ListenConfig) (func(), error) {
	if onMsg == nil {
		return nil, fmt.Errorf("midi: listen: nil callback")
	}
	done := make(chan struct{})
	var once sync.Once
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			// Return when stopped
			select {
			case <-done:
				return
			default:
			}
			time.Sleep(i.period)

			evts, err := i.stream.Read(MaxEventsPerPoll)
			if err != nil {
				if config.OnErr != nil {
					config.OnErr(err)
				}
				return
			}
			for _, evt := range evts {
				// portmidi splits sysex into 4-byte chunks, which
				// do not fit the 3-byte form below.
				if !config.SysEx && (evt.Status >= 0xf0 || evt.Status < 0x80) {
					continue
				}
				onMsg([]byte{byte(evt.Status), byte(evt.Data1), byte(evt.Data2)}, int32(evt.Timestamp))
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
		wg.Wait()
	}, nil
}

func (i *In) Close() error {
	return i.stream.Close()
}

// Send writes msg, which may be a sysex frame or a run of channel
// messages using running status.  portmidi needs a status byte on
// every short message, so runs are expanded.
func (o *Out) Send(msg []byte) error {
	for _, m := range controller.SplitMessages(msg) {
		var err error
		switch {
		case m[0] == 0xf0:
			err = o.stream.WriteSysExBytes(portmidi.Time(), m)
		case len(m) == 3:
			err = o.stream.WriteShort(int64(m[0]), int64(m[1]), int64(m[2]))
		default:
			err = o.stream.WriteShort(int64(m[0]), int64(m[1]), 0)
		}
		if err != nil {
			return fmt.Errorf("midi: write: %w", err)
		}
	}
	return nil
}

func (o *Out) Close() error {
	return o.stream.Close()
}

// discover finds the first device whose name starts with prefix and
// has both an input and an output.
func discover(prefix string) (input portmidi.DeviceID, output portmidi.DeviceID, err error) {
	var infos []*portmidi.DeviceInfo
	for i := 0; i < portmidi.CountDevices(); i++ {
		infos = append(infos, portmidi.Info(portmidi.DeviceID(i)))
	}
	in, out := match(infos, prefix)
	if in == -1 || out == -1 {
		err = ErrNoDevice
	} else {
		input = portmidi.DeviceID(in)
		output = portmidi.DeviceID(out)
	}
	return
}

// match returns the indexes of the first input and output in infos
// named with prefix, or -1.
func match(infos []*portmidi.DeviceInfo, prefix string) (in, out int) {
	in, out = -1, -1
	for i, info := range infos {
		if info == nil || !strings.HasPrefix(info.Name, prefix) {
			continue
		}
		if info.IsInputAvailable && in == -1 {
			in = i
		}
		if info.IsOutputAvailable && out == -1 {
			out = i
		}
	}
	return
}
