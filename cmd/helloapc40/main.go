package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/jmacd/apcmidi/apc/apc40"
	"github.com/jmacd/apcmidi/midi/pmport"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var (
	port          = flag.String("port", apc40.DeviceName, "port name prefix")
	backend       = flag.String("backend", "gomidi", "gomidi or portmidi")
	mode          = flag.Int("mode", int(apc40.ModeFullCtl), "operating mode sent at startup")
	runningStatus = flag.Bool("running-status", false, "omit repeated status bytes (portmidi backend only)")
	duration      = flag.Duration("duration", 30*time.Second, "how long to run")
)

func open() (apc40.Input, apc40.Output, func(), error) {
	if *backend == "portmidi" {
		in, out, err := pmport.Open(*port)
		if err != nil {
			return nil, nil, nil, err
		}
		return in, out, func() {
			in.Close()
			out.Close()
		}, nil
	}

	in, err := midi.FindInPort(*port)
	if err != nil {
		return nil, nil, nil, err
	}
	out, err := midi.FindOutPort(*port)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := in.Open(); err != nil {
		return nil, nil, nil, err
	}
	if err := out.Open(); err != nil {
		return nil, nil, nil, err
	}
	return in, out, func() {
		in.Close()
		out.Close()
		midi.CloseDriver()
	}, nil
}

func main() {
	flag.Parse()

	in, out, closeFn, err := open()
	if err != nil {
		log.Fatalf("error while opening connection to %s: %v", *port, err)
	}
	defer closeFn()

	l := apc40.New(in, out, apc40.Config{
		RunningStatus: *runningStatus && *backend == "portmidi",
	})
	defer l.Close()

	if err := l.Init(apc40.Mode(*mode)); err != nil {
		log.Fatalf("error initializing %s: %v", *port, err)
	}

	// Light pressed pads; turning a track knob moves its ring.
	l.AddCallback(apc40.AllControls, func(c apc40.Control, v apc40.Value, pressed bool) {
		switch apc40.StripToCategory(c) {
		case apc40.ControlPad:
			if pressed {
				l.Set(c, apc40.LEDRed)
			} else {
				l.Set(c, apc40.LEDOff)
			}
		case apc40.ControlKnobTrackValue, apc40.ControlKnobDeviceValue:
			l.SetDesired(c, v)
		default:
			log.Printf("%d (id %d) = %d (%.2f)", c, apc40.UnpackID(c), v, v.Float())
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	for i, c := range apc40.ControlKnobTrackModes {
		if i%2 == 0 {
			l.Set(c, apc40.KnobVolume)
		} else {
			l.Set(c, apc40.KnobPan)
		}
		l.Set(apc40.ControlKnobDeviceModes[i], apc40.KnobSingle)
	}

	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()

		for pos := 0; ; pos = (pos + 1) % apc40.CircumferenceLength {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			x, y, _ := apc40.PadCircumferencePosition(pos)
			px, py, _ := apc40.PadCircumferencePosition((pos + apc40.CircumferenceLength - 1) % apc40.CircumferenceLength)
			l.Set(apc40.PackXY(apc40.ControlPad, px, py), apc40.LEDOff)
			l.Set(apc40.PackXY(apc40.ControlPad, x, y), apc40.ThreeColors[pos%len(apc40.ThreeColors)])

			for i, c := range apc40.ControlKnobTrackValues {
				if i%2 == 0 {
					l.State().SetKnobLEDCount(c, apc40.KnobVolume, pos%(apc40.MaxVolumeCount+1))
				} else {
					l.State().SetKnobLEDCount(c, apc40.KnobPan, pos%(2*apc40.MaxPanCount+1)+apc40.MinPanCount)
				}
			}
			if err := l.Flush(); err != nil {
				log.Printf("flush: %v", err)
			}
		}
	}()

	if err := l.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatal("error running apc40: ", err)
	}

	l.State().ResetDesired()
	if err := l.Flush(); err != nil {
		log.Printf("flush: %v", err)
	}
}
