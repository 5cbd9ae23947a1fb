package apc40

import "sync"

// ValueUnknown marks a control whose displayed value is not known.
// It is outside the legal data range, so every control compares as
// changed until it has been written once.
const ValueUnknown byte = 255

// State holds what the device is believed to display and what the
// application wants it to display.  It is safe for concurrent use.
type State struct {
	lock sync.Mutex

	current [NumControls]byte
	desired [NumControls]byte
}

// NewState returns a State that will resend every control on the
// first Generate.
func NewState() *State {
	s := &State{}
	s.resetCurrent()
	return s
}

// SetDesired records v, clamped to the data range, as the value c
// should display.
func (s *State) SetDesired(c Control, v byte) bool {
	if !Valid(c) {
		return false
	}
	s.lock.Lock()
	s.desired[c] = clamp(v)
	s.lock.Unlock()
	return true
}

func (s *State) GetDesired(c Control) (byte, bool) {
	if !Valid(c) {
		return 0, false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.desired[c], true
}

// Set applies a typed setting to c.  See RawValue, LEDMode, KnobMode
// and LEDCount for the controls each accepts.
func (s *State) Set(c Control, setting Setting) bool {
	if setting == nil {
		return false
	}
	target, v, ok := setting.resolve(c)
	if !ok {
		return false
	}
	return s.SetDesired(target, v)
}

// ResetDesired turns every control off.
func (s *State) ResetDesired() {
	s.lock.Lock()
	s.desired = [NumControls]byte{}
	s.lock.Unlock()
}

// ClearPads turns off every pad, leaving knobs and buttons alone.
func (s *State) ClearPads() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for c := ControlPad; c < ControlPad+PadSizeX*PadSizeY; c++ {
		s.desired[c] = byte(LEDOff)
	}
}

// ResetCurrent forgets what the device displays.  Call it after the
// device has been (re)connected so the next Generate resends every
// control.
func (s *State) ResetCurrent() {
	s.lock.Lock()
	s.resetCurrent()
	s.lock.Unlock()
}

func (s *State) resetCurrent() {
	for i := range s.current {
		s.current[i] = ValueUnknown
	}
}

// Generate returns the messages that bring the device from the
// current to the desired state, in control order, and the number of
// messages.  With runningStatus a status byte equal to the previous
// one is omitted.  With commit the desired state becomes the current
// state; without it the same messages are produced again next time.
func (s *State) Generate(commit, runningStatus bool) ([]byte, int) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var (
		out        []byte
		count      int
		lastStatus byte
	)
	for c := Control(0); c < NumControls; c++ {
		v := s.desired[c]
		if s.current[c] == v {
			continue
		}
		msg, ok := TranslateOutput(c, v)
		if !ok {
			continue
		}
		if !runningStatus || count == 0 || msg[0] != lastStatus {
			out = append(out, msg[0])
		}
		out = append(out, msg[1], msg[2])
		lastStatus = msg[0]
		count++
	}
	if commit {
		s.current = s.desired
	}
	return out, count
}
