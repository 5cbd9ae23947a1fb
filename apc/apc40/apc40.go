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

// Package apc40 encodes and decodes the MIDI protocol of the Akai
// APC40 and tracks the state of its LEDs.  Ports are opened by the
// caller; this package only sees bytes.
package apc40

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/jmacd/apcmidi/midi/controller"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type (
	// APC40 connects a State to an input and output MIDI port.
	APC40 struct {
		input  Input
		output Output
		cfg    Config
		state  *State

		lock      sync.Mutex
		sendLock  sync.Mutex
		errorChan chan error
		stopFn    func()
		running   bool

		// calls has an additional entry representing AllControls.
		calls [NumControls + 1][]Callback
	}

	// Input is satisfied by drivers.In.
	Input interface {
		Listen(onMsg func(msg []byte, milliseconds int32), config drivers.ListenConfig) (stopFn func(), err error)
	}

	// Output is satisfied by drivers.Out.
	Output interface {
		Send(msg []byte) error
	}

	Config struct {
		// RunningStatus sends each flush as a single byte stream
		// with repeated status bytes omitted.  The output must
		// accept multi-message writes.
		RunningStatus bool

		// ReadBufferDepth is the number of decoded events queued
		// between the driver and the callbacks.
		ReadBufferDepth int

		// Logf reports unmapped input.  Defaults to log.Printf.
		Logf func(format string, args ...interface{})
	}

	// Value is the value of any Control, in the range 0-127.
	Value = controller.Value

	// Control indexes are assigned in the range [0, NumControls).
	Control = controller.Control

	// Callback is called for every decoded input.  Register with
	// AddCallback.
	Callback = controller.Callback
)

const (
	DeviceName = "Akai APC40"

	AllControls = NumControls // Use with AddCallback.

	DefaultReadBufferDepth = 16
)

var _ controller.Surface = (*APC40)(nil)

// New returns an APC40 using the caller's open ports.  Nothing is
// sent until Init or Flush.
func New(input Input, output Output, cfg Config) *APC40 {
	if cfg.ReadBufferDepth <= 0 {
		cfg.ReadBufferDepth = DefaultReadBufferDepth
	}
	if cfg.Logf == nil {
		cfg.Logf = log.Printf
	}
	return &APC40{
		input:     input,
		output:    output,
		cfg:       cfg,
		state:     NewState(),
		errorChan: make(chan error, 1),
	}
}

// State returns the desired/current state written by Flush.
func (a *APC40) State() *State {
	return a.state
}

// Init selects the operating mode and forces the next Flush to
// rewrite every LED.
func (a *APC40) Init(mode Mode) error {
	a.sendLock.Lock()
	defer a.sendLock.Unlock()

	a.state.ResetCurrent()
	if err := a.output.Send(InitMessage(mode)); err != nil {
		return a.handleError(fmt.Errorf("midi: init: %w", err))
	}
	return nil
}

func (a *APC40) AddCallback(control Control, callback Callback) {
	if control < 0 || control > AllControls {
		return
	}
	a.lock.Lock()
	defer a.lock.Unlock()

	a.calls[control] = append(a.calls[control], callback)
}

func (a *APC40) SetDesired(control Control, v Value) bool {
	return a.state.SetDesired(control, byte(v))
}

func (a *APC40) Set(control Control, s Setting) bool {
	return a.state.Set(control, s)
}

// Flush sends the changes made since the last Flush.  If the output
// fails the current state is forgotten, so the following Flush
// resends everything.
func (a *APC40) Flush() error {
	a.sendLock.Lock()
	defer a.sendLock.Unlock()

	data, n := a.state.Generate(true, a.cfg.RunningStatus)
	if n == 0 {
		return nil
	}

	var err error
	if a.cfg.RunningStatus {
		err = a.output.Send(data)
	} else {
		for _, msg := range controller.SplitMessages(data) {
			if err = a.output.Send(msg); err != nil {
				break
			}
		}
	}
	if err != nil {
		a.state.ResetCurrent()
		return a.handleError(fmt.Errorf("midi: flush: %w", err))
	}
	return nil
}

// ErrRunning is returned by Run when another Run is active.
var ErrRunning = fmt.Errorf("apc40: already running")

// Run begins listening for input, blocking the caller until the
// context is canceled or the input reports an error.  The listener is
// stopped before Run returns.
func (a *APC40) Run(ctx context.Context) error {
	a.lock.Lock()
	if a.running {
		a.lock.Unlock()
		return ErrRunning
	}
	a.running = true
	a.lock.Unlock()
	defer func() {
		a.lock.Lock()
		a.running = false
		a.lock.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan Event, a.cfg.ReadBufferDepth)
	wg := sync.WaitGroup{}

	lcfg := drivers.ListenConfig{
		TimeCode:    false,
		ActiveSense: false,
		SysEx:       true,
		OnErr: func(err error) {
			_ = a.handleError(err)
		},
	}

	stopFn, err := a.input.Listen(func(msg []byte, milliseconds int32) {
		if len(msg) != 3 {
			a.sysexEvent(msg)
			return
		}
		evt, ok := TranslateInput(msg)
		if !ok {
			a.cfg.Logf("apc40: unmapped input %v", midi.Message(msg))
			return
		}
		select {
		case ch <- evt:
		case <-ctx.Done():
		}
	}, lcfg)
	if err != nil {
		return fmt.Errorf("midi: listen: %w", err)
	}
	a.lock.Lock()
	a.stopFn = stopFn
	a.lock.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-ch:
				a.event(evt)
			}
		}
	}()
	defer func() {
		cancel()
		_ = a.Close()
		wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-a.errorChan:
		return err
	}
}

func (a *APC40) event(evt Event) {
	a.lock.Lock()
	cbs := a.calls[evt.Control]
	acbs := a.calls[AllControls]
	a.lock.Unlock()

	for _, cb := range cbs {
		cb(evt.Control, evt.Value, evt.Pressed)
	}
	for _, cb := range acbs {
		cb(evt.Control, evt.Value, evt.Pressed)
	}
}

// sysexEvent handles everything that is not a 3-byte message.  The
// device sends nothing documented in this form.
func (a *APC40) sysexEvent(msg []byte) {
	if len(msg) == 0 {
		return
	}
	a.cfg.Logf("apc40: ignored % X", msg)
}

// Close stops listening.  The ports belong to the caller and are left
// open.  It is safe to call more than once.
func (a *APC40) Close() error {
	a.lock.Lock()
	stopFn := a.stopFn
	a.stopFn = nil
	a.lock.Unlock()

	if stopFn != nil {
		stopFn()
	}
	return nil
}

func (a *APC40) handleError(err error) error {
	if err == nil {
		return err
	}
	select {
	case a.errorChan <- err:
	default:
	}
	return err
}
