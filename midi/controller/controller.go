package controller

type Control int

type Value uint8

// Callback is invoked for every decoded input event.  Pressed is only
// meaningful for buttons and pads.
type Callback func(control Control, value Value, pressed bool)

// Surface is a control surface whose display state is set by control
// and written to the device by Flush.
type Surface interface {
	AddCallback(con Control, cb Callback)

	SetDesired(con Control, v Value) bool

	Flush() error
}

func (v Value) Float() float64 {
	switch {
	case v == 0:
		return 0
	case v == 64:
		return 0.5
	case v >= 127:
		return 1
	case v < 64:
		return float64(v) / 128
	default:
		return float64(v-1) / 126
	}
}

// SplitMessages expands a stream of channel voice messages, possibly
// using running status, into complete messages.  System exclusive
// frames are returned whole.  Data bytes with no preceding status are
// dropped.
func SplitMessages(stream []byte) [][]byte {
	var (
		msgs   [][]byte
		status byte
	)
	for i := 0; i < len(stream); {
		b := stream[i]
		if b == 0xf0 {
			end := i + 1
			for end < len(stream) && stream[end] != 0xf7 {
				end++
			}
			if end < len(stream) {
				end++
			}
			msgs = append(msgs, stream[i:end])
			status = 0
			i = end
			continue
		}
		if b&0x80 != 0 {
			switch {
			case b < 0xf0:
				status = b
			case b < 0xf8:
				// System common cancels running status; realtime does not.
				status = 0
			}
			i++
			continue
		}
		if status == 0 {
			i++
			continue
		}
		n := dataLength(status)
		if i+n > len(stream) {
			break
		}
		msg := make([]byte, 0, n+1)
		msg = append(msg, status)
		msg = append(msg, stream[i:i+n]...)
		msgs = append(msgs, msg)
		i += n
	}
	return msgs
}

func dataLength(status byte) int {
	switch status & 0xf0 {
	case 0xc0, 0xd0:
		return 1
	default:
		return 2
	}
}
