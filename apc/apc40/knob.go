package apc40

// KnobMode selects how a knob's LED ring displays its value.
type KnobMode byte

const (
	KnobOff    KnobMode = 0
	KnobSingle KnobMode = 1
	KnobVolume KnobMode = 2
	KnobPan    KnobMode = 3
)

const (
	MaxVolumeCount = 15
	MaxPanCount    = 7
	MinPanCount    = -MaxPanCount
)

var (
	// volumeThresholds[i] is the smallest value lighting i+1 LEDs.
	volumeThresholds = [MaxVolumeCount]byte{
		4, 13, 21, 30, 38, 47, 55, 64, 72, 80, 89, 97, 106, 114, 123,
	}
	// volumeValues[n] is the value displayed with n LEDs.
	volumeValues = [MaxVolumeCount + 1]byte{
		0, 8, 17, 25, 34, 42, 51, 59, 68, 76, 85, 93, 102, 110, 119, 127,
	}

	// panThresholds[i] is the smallest value displayed at position
	// MinPanCount+i+1.
	panThresholds = [MaxPanCount * 2]byte{
		5, 14, 23, 32, 41, 50, 59, 69, 78, 87, 96, 105, 114, 123,
	}
	// panValues[n-MinPanCount] is the value displayed at position n.
	panValues = [MaxPanCount*2 + 1]byte{
		0, 9, 18, 27, 36, 45, 54, 64, 73, 82, 91, 100, 109, 118, 127,
	}
)

// KnobLEDCount returns the number of ring LEDs lit for v in mode.
// Pan positions are signed, negative to the left of centre.
func KnobLEDCount(v byte, mode KnobMode) int {
	switch mode {
	case KnobSingle:
		return 1
	case KnobVolume:
		return countBelow(volumeThresholds[:], v)
	case KnobPan:
		return MinPanCount + countBelow(panThresholds[:], v)
	default:
		return 0
	}
}

func countBelow(thresholds []byte, v byte) (n int) {
	for _, t := range thresholds {
		if v < t {
			break
		}
		n++
	}
	return
}

// knobValue returns the representative value for count in mode.
func knobValue(mode KnobMode, count int) (byte, bool) {
	switch mode {
	case KnobVolume:
		if count < 0 || count > MaxVolumeCount {
			return 0, false
		}
		return volumeValues[count], true
	case KnobPan:
		if count < MinPanCount || count > MaxPanCount {
			return 0, false
		}
		return panValues[count-MinPanCount], true
	}
	return 0, false
}

// SetKnobLEDCount sets the value of knob c so that its ring shows
// count LEDs in mode.  c may be the mode or the value control of the
// knob.  Off and Single have no count mapping and are rejected.
func (s *State) SetKnobLEDCount(c Control, mode KnobMode, count int) bool {
	return s.Set(c, LEDCount{Mode: mode, Count: count})
}

// LEDCount sets a knob value by ring LED count.
type LEDCount struct {
	Mode  KnobMode
	Count int
}

func (l LEDCount) resolve(c Control) (Control, byte, bool) {
	target := knobValueControl(c)
	if target == ControlInvalid {
		return ControlInvalid, 0, false
	}
	v, ok := knobValue(l.Mode, l.Count)
	return target, v, ok
}

// KnobMode applies to either control of a knob and is written to the
// mode control.
func (m KnobMode) resolve(c Control) (Control, byte, bool) {
	target := knobModeControl(c)
	if target == ControlInvalid || m > KnobPan {
		return ControlInvalid, 0, false
	}
	return target, byte(m), true
}

func isKnob(c Control) bool {
	return knobModeControl(c) != ControlInvalid
}

func knobModeControl(c Control) Control {
	id := UnpackID(c)
	switch StripToCategory(c) {
	case ControlKnobTrackMode, ControlKnobTrackValue:
		return Pack(ControlKnobTrackMode, id)
	case ControlKnobDeviceMode, ControlKnobDeviceValue:
		return Pack(ControlKnobDeviceMode, id)
	}
	return ControlInvalid
}

func knobValueControl(c Control) Control {
	id := UnpackID(c)
	switch StripToCategory(c) {
	case ControlKnobTrackMode, ControlKnobTrackValue:
		return Pack(ControlKnobTrackValue, id)
	case ControlKnobDeviceMode, ControlKnobDeviceValue:
		return Pack(ControlKnobDeviceValue, id)
	}
	return ControlInvalid
}

// ScaleValue maps a data byte linearly onto [lo, hi].
func ScaleValue(v byte, lo, hi float64) float64 {
	return lo + (hi-lo)*float64(clamp(v))/MaxDataValue
}

// UnscaleValue is the inverse of ScaleValue, rounding to the nearest
// byte and clamping to the data range.
func UnscaleValue(f, lo, hi float64) byte {
	if hi == lo {
		return 0
	}
	x := (f - lo) / (hi - lo) * MaxDataValue
	switch {
	case x <= 0:
		return 0
	case x >= MaxDataValue:
		return MaxDataValue
	}
	return byte(x + 0.5)
}
