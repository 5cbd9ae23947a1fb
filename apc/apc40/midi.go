package apc40

const (
	MIDIStatusNoteOff       = 0x80
	MIDIStatusNoteOn        = 0x90
	MIDIStatusControlChange = 0xb0
	MIDIStatusCodeMask      = 0xf0
	MIDIChannelMask         = 0x0f

	// noteOffOffset folds note-off onto the note-on key space.
	noteOffOffset = MIDIStatusNoteOn - MIDIStatusNoteOff

	MaxDataValue = 0x7f
)

// Mode is the operating mode selected by the initialization sysex.
type Mode byte

const (
	ModeUnset   Mode = 0x40 // generic mode, device handles its own LEDs
	ModeBasic   Mode = 0x41 // Ableton Live mode
	ModeFullCtl Mode = 0x42 // Ableton Live mode with full LED control
)

// InitMessage returns the sysex frame that places the device in mode.
func InitMessage(mode Mode) []byte {
	return []byte{
		0xf0,
		0x47,       // Akai
		0x7f,       // all device ids
		0x73,       // APC40
		0x60,       // introduction message
		0x00, 0x04, // four data bytes follow
		byte(mode),
		0x01, 0x01, 0x01, // host version major, minor, bug fix
		0xf7,
	}
}

type wireKey struct {
	status byte
	data1  byte
}

type direction uint8

const (
	dirIn direction = 1 << iota
	dirOut

	dirBoth = dirIn | dirOut
)

type wireEntry struct {
	control Control
	key     wireKey
	dir     direction
}

// wireTable is the complete device map.  Entries without dirOut have
// no LED and are never written; entries without dirIn are never sent
// by the device.
var wireTable = func() (t []wireEntry) {
	add := func(c Control, status, data1 byte, dir direction) {
		t = append(t, wireEntry{c, wireKey{status, data1}, dir})
	}

	for x := 0; x < NumTracks; x++ {
		status := MIDIStatusNoteOn + byte(x)
		for y := 0; y < 5; y++ {
			add(PackXY(ControlPad, x, y), status, 0x35+byte(y), dirBoth) // clip launch
		}
		add(PackXY(ControlPad, x, 5), status, 0x34, dirBoth) // clip stop
		add(PackXY(ControlPad, x, 6), status, 0x33, dirBoth) // track selection
		add(PackXY(ControlPad, x, 7), status, 0x32, dirBoth) // activator
		add(PackXY(ControlPad, x, 8), status, 0x31, dirBoth) // solo
		add(PackXY(ControlPad, x, 9), status, 0x30, dirBoth) // record arm
	}
	for y := 0; y < 5; y++ {
		add(PackXY(ControlPad, 8, y), MIDIStatusNoteOn, 0x52+byte(y), dirBoth) // scene launch
	}
	add(PackXY(ControlPad, 8, 5), MIDIStatusNoteOn, 0x51, dirBoth) // stop all clips
	add(PackXY(ControlPad, 8, 6), MIDIStatusNoteOn, 0x50, dirBoth) // master

	add(ControlButtonTrackPan, MIDIStatusNoteOn, 0x57, dirBoth)
	add(ControlButtonSendA, MIDIStatusNoteOn, 0x58, dirBoth)
	add(ControlButtonSendB, MIDIStatusNoteOn, 0x59, dirBoth)
	add(ControlButtonSendC, MIDIStatusNoteOn, 0x5a, dirBoth)

	add(ControlButtonShift, MIDIStatusNoteOn, 0x62, dirIn)

	add(ControlButtonBankUp, MIDIStatusNoteOn, 0x5e, dirIn)
	add(ControlButtonBankDown, MIDIStatusNoteOn, 0x5f, dirIn)
	add(ControlButtonBankRight, MIDIStatusNoteOn, 0x60, dirIn)
	add(ControlButtonBankLeft, MIDIStatusNoteOn, 0x61, dirIn)

	add(ControlButtonTapTempo, MIDIStatusNoteOn, 0x63, dirIn)
	add(ControlButtonNudgePlus, MIDIStatusNoteOn, 0x64, dirIn)
	add(ControlButtonNudgeMinus, MIDIStatusNoteOn, 0x65, dirIn)

	add(ControlButtonClipTrack, MIDIStatusNoteOn, 0x3a, dirBoth)
	add(ControlButtonDeviceToggle, MIDIStatusNoteOn, 0x3b, dirBoth)
	add(ControlButtonDeviceLeft, MIDIStatusNoteOn, 0x3c, dirBoth)
	add(ControlButtonDeviceRight, MIDIStatusNoteOn, 0x3d, dirBoth)
	add(ControlButtonDetailView, MIDIStatusNoteOn, 0x3e, dirBoth)
	add(ControlButtonRecQuantization, MIDIStatusNoteOn, 0x3f, dirBoth)
	add(ControlButtonMIDIOverdub, MIDIStatusNoteOn, 0x40, dirBoth)
	add(ControlButtonMetronome, MIDIStatusNoteOn, 0x41, dirBoth)

	add(ControlButtonPlay, MIDIStatusNoteOn, 0x5b, dirIn)
	add(ControlButtonStop, MIDIStatusNoteOn, 0x5c, dirIn)
	add(ControlButtonRecord, MIDIStatusNoteOn, 0x5d, dirIn)

	for i := 0; i < NumTracks; i++ {
		add(Pack(ControlSliderVolume, i), MIDIStatusControlChange+byte(i), 0x07, dirIn)
	}
	add(ControlSliderMaster, MIDIStatusControlChange, 0x0e, dirIn)
	add(ControlSliderCrossfade, MIDIStatusControlChange, 0x0f, dirIn)
	add(ControlKnobCueLevel, MIDIStatusControlChange, 0x2f, dirIn)

	for i := 0; i < NumKnobs; i++ {
		add(Pack(ControlKnobTrackMode, i), MIDIStatusControlChange, 0x38+byte(i), dirOut)
		add(Pack(ControlKnobTrackValue, i), MIDIStatusControlChange, 0x30+byte(i), dirBoth)
		add(Pack(ControlKnobDeviceMode, i), MIDIStatusControlChange, 0x18+byte(i), dirOut)
		add(Pack(ControlKnobDeviceValue, i), MIDIStatusControlChange, 0x10+byte(i), dirBoth)
	}
	return t
}()

var inputMap = func() map[wireKey]Control {
	m := make(map[wireKey]Control, len(wireTable))
	for _, e := range wireTable {
		if e.dir&dirIn != 0 {
			m[e.key] = e.control
		}
	}
	return m
}()

type outputEntry struct {
	key wireKey
	ok  bool
}

var outputMap = func() (t [NumControls]outputEntry) {
	for _, e := range wireTable {
		if e.dir&dirOut != 0 {
			t[e.control] = outputEntry{e.key, true}
		}
	}
	return t
}()

// HasOutput reports whether c can be displayed by the device.
func HasOutput(c Control) bool {
	return Valid(c) && outputMap[c].ok
}
