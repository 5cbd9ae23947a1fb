package apc40

// LEDMode is the value written to a pad or button LED.  Buttons other
// than the pads only distinguish off from on.
type LEDMode byte

const (
	LEDOff         LEDMode = 0
	LEDGreen       LEDMode = 1
	LEDGreenBlink  LEDMode = 2
	LEDRed         LEDMode = 3
	LEDRedBlink    LEDMode = 4
	LEDYellow      LEDMode = 5
	LEDYellowBlink LEDMode = 6
	LEDOn          LEDMode = 127
)

var (
	ThreeColors = []LEDMode{
		LEDGreen,
		LEDRed,
		LEDYellow,
	}
)

func Blink(m LEDMode) LEDMode {
	switch m {
	case LEDGreen, LEDRed, LEDYellow:
		return m + 1
	}
	return m
}

// Setting is one interpretation of a control's value byte: a
// RawValue, an LEDMode, a KnobMode or an LEDCount.
type Setting interface {
	resolve(c Control) (Control, byte, bool)
}

// RawValue is written unchanged to any control.
type RawValue byte

func (v RawValue) resolve(c Control) (Control, byte, bool) {
	return c, byte(v), Valid(c)
}

// LEDMode applies to pads and to buttons with an LED.
func (m LEDMode) resolve(c Control) (Control, byte, bool) {
	if !HasOutput(c) || isKnob(c) {
		return ControlInvalid, 0, false
	}
	return c, byte(m), true
}
