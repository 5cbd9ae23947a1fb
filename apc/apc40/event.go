package apc40

// Event is one decoded input message.
type Event struct {
	Control Control
	Value   Value

	// Pressed is true only for a note-on with non-zero velocity.
	// Note-off, note-on with velocity zero and control changes all
	// report false.
	Pressed bool
}

// X and Y return pad coordinates for pad events and 0 otherwise.
func (e Event) X() int { return UnpackX(e.Control) }
func (e Event) Y() int { return UnpackY(e.Control) }

// ID returns the index within a linear category, e.g. the slider
// number.
func (e Event) ID() int { return UnpackID(e.Control) }

// TranslateInput decodes a 3-byte channel message.  The second
// result is false when the message has no entry in the device map,
// which is expected for undocumented messages in some modes.
func TranslateInput(msg []byte) (Event, bool) {
	if len(msg) != 3 {
		return Event{}, false
	}
	status, data1, data2 := msg[0], msg[1], msg[2]

	pressed := false
	switch status & MIDIStatusCodeMask {
	case MIDIStatusNoteOff:
		status += noteOffOffset
	case MIDIStatusNoteOn:
		pressed = data2 != 0
	}

	control, ok := inputMap[wireKey{status, data1}]
	if !ok {
		return Event{}, false
	}
	return Event{
		Control: control,
		Value:   Value(data2 & MaxDataValue),
		Pressed: pressed,
	}, true
}

// TranslateOutput returns the message displaying v on control c.
func TranslateOutput(c Control, v byte) ([3]byte, bool) {
	if !HasOutput(c) {
		return [3]byte{}, false
	}
	key := outputMap[c].key
	return [3]byte{key.status, key.data1, clamp(v)}, true
}

func clamp(v byte) byte {
	if v > MaxDataValue {
		return MaxDataValue
	}
	return v
}
