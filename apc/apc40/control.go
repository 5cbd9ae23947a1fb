package apc40

const (
	PadSizeX = 9 // 8 clip columns + the scene launch column
	PadSizeY = 10

	NumTracks = 8
	NumKnobs  = 8
)

// Controls are packed into the range [0, NumControls).  Each category
// is a contiguous range starting at the named constant; singletons
// have width one.
const (
	ControlPad Control = 0

	ControlButtonTrackPan Control = ControlPad + PadSizeX*PadSizeY + iota - 1
	ControlButtonSendA
	ControlButtonSendB
	ControlButtonSendC

	ControlButtonShift

	ControlButtonBankUp
	ControlButtonBankDown
	ControlButtonBankLeft
	ControlButtonBankRight

	ControlButtonTapTempo
	ControlButtonNudgeMinus
	ControlButtonNudgePlus

	ControlButtonClipTrack
	ControlButtonDeviceToggle
	ControlButtonDeviceLeft
	ControlButtonDeviceRight
	ControlButtonDetailView
	ControlButtonRecQuantization
	ControlButtonMIDIOverdub
	ControlButtonMetronome

	ControlButtonPlay
	ControlButtonStop
	ControlButtonRecord

	ControlSliderVolume // NumTracks + master
)

const (
	ControlSliderCrossfade = ControlSliderVolume + NumTracks + 1
	ControlKnobCueLevel    = ControlSliderCrossfade + 1

	ControlKnobTrackMode   = ControlKnobCueLevel + 1
	ControlKnobTrackValue  = ControlKnobTrackMode + NumKnobs
	ControlKnobDeviceMode  = ControlKnobTrackValue + NumKnobs
	ControlKnobDeviceValue = ControlKnobDeviceMode + NumKnobs

	NumControls = ControlKnobDeviceValue + NumKnobs

	ControlInvalid Control = NumControls

	// ControlSliderMaster is the last volume slider.
	ControlSliderMaster = ControlSliderVolume + NumTracks
)

type category struct {
	base  Control
	width int
}

// categories lists every range in address order.
var categories = func() (cs []category) {
	cs = append(cs, category{ControlPad, PadSizeX * PadSizeY})
	for c := ControlButtonTrackPan; c < ControlSliderVolume; c++ {
		cs = append(cs, category{c, 1})
	}
	cs = append(cs,
		category{ControlSliderVolume, NumTracks + 1},
		category{ControlSliderCrossfade, 1},
		category{ControlKnobCueLevel, 1},
		category{ControlKnobTrackMode, NumKnobs},
		category{ControlKnobTrackValue, NumKnobs},
		category{ControlKnobDeviceMode, NumKnobs},
		category{ControlKnobDeviceValue, NumKnobs},
	)
	return cs
}()

// categoryOf maps every valid control to its range.
var categoryOf = func() (t [NumControls]category) {
	for _, cat := range categories {
		for i := 0; i < cat.width; i++ {
			t[cat.base+Control(i)] = cat
		}
	}
	return t
}()

// Valid reports whether c is in [0, NumControls).
func Valid(c Control) bool {
	return c >= 0 && c < NumControls
}

// PackXY returns the pad control at (x, y), where y=0 is the top clip
// row and x=8 is the scene launch column.  Only ControlPad is a
// two-dimensional category.
func PackXY(cat Control, x, y int) Control {
	if cat != ControlPad || !ValidPad(x, y) {
		return ControlInvalid
	}
	return ControlPad + Control(y*PadSizeX+x)
}

// Pack returns the id'th control of a linear category.  Singleton
// categories accept only id 0.
func Pack(cat Control, id int) Control {
	if !Valid(cat) || cat == ControlPad {
		return ControlInvalid
	}
	r := categoryOf[cat]
	if r.base != cat || id < 0 || id >= r.width {
		return ControlInvalid
	}
	return cat + Control(id)
}

// StripToCategory returns the first control of the range containing c.
func StripToCategory(c Control) Control {
	if !Valid(c) {
		return ControlInvalid
	}
	return categoryOf[c].base
}

func UnpackX(c Control) int {
	if StripToCategory(c) != ControlPad {
		return 0
	}
	return int(c-ControlPad) % PadSizeX
}

func UnpackY(c Control) int {
	if StripToCategory(c) != ControlPad {
		return 0
	}
	return int(c-ControlPad) / PadSizeX
}

// UnpackID returns the index of c within its linear category.
func UnpackID(c Control) int {
	cat := StripToCategory(c)
	if cat == ControlInvalid || cat == ControlPad {
		return 0
	}
	return int(c - cat)
}

// ValidPad reports whether (x, y) lies on the pad grid.
func ValidPad(x, y int) bool {
	return x >= 0 && x < PadSizeX && y >= 0 && y < PadSizeY
}

func controlRange(from Control, n int) (r []Control) {
	for c := from; c < from+Control(n); c++ {
		r = append(r, c)
	}
	return
}

var (
	ControlKnobTrackModes   = controlRange(ControlKnobTrackMode, NumKnobs)
	ControlKnobTrackValues  = controlRange(ControlKnobTrackValue, NumKnobs)
	ControlKnobDeviceModes  = controlRange(ControlKnobDeviceMode, NumKnobs)
	ControlKnobDeviceValues = controlRange(ControlKnobDeviceValue, NumKnobs)
	ControlSliders          = controlRange(ControlSliderVolume, NumTracks+1)
)
