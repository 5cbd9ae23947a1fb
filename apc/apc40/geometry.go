package apc40

const (
	ringWidth  = NumTracks // scene launch column excluded
	ringHeight = PadSizeY

	// CircumferenceLength is the number of pads on the border of the
	// 8x10 track grid.
	CircumferenceLength = 2*ringWidth + 2*ringHeight - 4
)

// PadCircumferencePosition maps pos, walking clockwise from the top
// left clip pad around the border of the track grid, to pad
// coordinates.
func PadCircumferencePosition(pos int) (x, y int, ok bool) {
	switch {
	case pos < 0 || pos >= CircumferenceLength:
		return 0, 0, false
	case pos < ringWidth: // top, left to right
		return pos, 0, true
	case pos < ringWidth+ringHeight-1: // right, downward
		return ringWidth - 1, pos - ringWidth + 1, true
	case pos < 2*ringWidth+ringHeight-2: // bottom, right to left
		return 2*ringWidth + ringHeight - 3 - pos, ringHeight - 1, true
	default: // left, upward
		return 0, CircumferenceLength - pos, true
	}
}
