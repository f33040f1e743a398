// Command gbcore is a thin host wrapper around the core: it loads a ROM
// (and optional boot ROM / save file), wires up a Bus, and drives frames.
// Grounded on the teacher's cmd/goboy/main.go for flag shape and the
// load-then-run structure, stripped of the fyne windowing/audio-device
// layers spec.md 6 places outside the core's concern ("No CLI is part of
// the core. Host wrappers ... provide windowing, audio device selection,
// ROM loading").
//
// This module ships no SM83 instruction decoder (spec.md 1's Non-goals),
// so there is no real CPU to plug in here; noopCPU stands in for one so
// this command can demonstrate the full load/wire/run/save lifecycle
// end-to-end. A host that wants to actually play a game supplies its own
// machine.CPU implementation in place of noopCPU.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thelolagemann/gbcore/internal/bus"
	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/loader"
	"github.com/thelolagemann/gbcore/internal/machine"
)

// noopCPU advances the clock without decoding any instructions, so a Bus
// can be driven through real frames for demonstration/smoke-testing
// purposes without this module carrying an SM83 decoder.
type noopCPU struct{}

func (noopCPU) Step(b *bus.Bus) int { return 4 }

// logVideoSink logs one line every 60th frame instead of drawing anything,
// since this command has no windowing layer.
type logVideoSink struct {
	log    *logrus.Entry
	frames int
}

func (s *logVideoSink) Draw(frame []byte) {
	s.frames++
	if s.frames%60 == 0 {
		s.log.WithField("frames", s.frames).Info("rendered")
	}
}

func main() {
	romPath := flag.String("rom", "", "path to a .gb/.gbc ROM, or a .zip/.7z archive containing one")
	bootPath := flag.String("boot", "", "optional path to a boot ROM")
	savePath := flag.String("save", "", "optional path to a battery-RAM save file")
	model := flag.String("model", "auto", "hardware to emulate: auto, dmg, or cgb")
	frames := flag.Int("frames", 0, "number of frames to run with the placeholder CPU before exiting")
	flag.Parse()

	log := logrus.NewEntry(logrus.StandardLogger())

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "gbcore: -rom is required")
		os.Exit(2)
	}

	rom, err := loader.LoadROM(*romPath)
	if err != nil {
		log.WithError(err).Fatal("loading rom")
	}

	cart, err := cartridge.NewCartridge(rom, log)
	if err != nil {
		log.WithError(err).Fatal("parsing cartridge header")
	}
	log.WithField("header", cart.Header().String()).Info("loaded cartridge")

	if *savePath != "" && cart.HasBattery() {
		if sd, err := loader.LoadSave(*savePath, cart.Header().RAMSize); err != nil {
			log.WithError(err).Warn("no existing save restored")
		} else {
			if err := cart.ReloadRAM(sd.RAM); err != nil {
				log.WithError(err).Warn("save ram did not match cartridge ram size")
			}
			if cart.HasRTC() && !sd.HasRTC {
				log.Warn("save file has no valid rtc trailer, rtc starts from zero")
			}
			loader.RestoreRTC(cart, sd)
		}
	}

	var bootROM []byte
	if *bootPath != "" {
		bootROM, err = loader.LoadROM(*bootPath)
		if err != nil {
			log.WithError(err).Fatal("loading boot rom")
		}
	}

	isCGB := cart.Header().GameboyColor()
	switch *model {
	case "dmg":
		isCGB = false
	case "cgb":
		isCGB = true
	}

	b, err := bus.New(cart, bootROM, silentAudioSink{}, isCGB, log)
	if err != nil {
		log.WithError(err).Fatal("constructing bus")
	}
	m := machine.New(b, noopCPU{})
	m.Video = &logVideoSink{log: log}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; *frames == 0 || i < *frames; i++ {
			select {
			case <-stop:
				return
			default:
				m.RunFrame()
			}
		}
	}()

	select {
	case <-done:
	case <-stop:
	}

	writeSave(log, *savePath, cart)
}

func writeSave(log *logrus.Entry, savePath string, cart *cartridge.Cartridge) {
	if savePath == "" || !cart.HasBattery() {
		return
	}
	if err := loader.WriteSave(savePath, cart.RAMSnapshot(), cart, time.Now()); err != nil {
		log.WithError(err).Error("writing save file")
		return
	}
	log.WithField("path", savePath).Info("save written")
}

// silentAudioSink discards samples; this command has no audio device
// layer, per spec.md 6's explicit exclusion of audio device selection
// from the core.
type silentAudioSink struct{}

func (silentAudioSink) PushSample(l, r float32) {}
