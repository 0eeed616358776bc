package main

import (
	"fmt"
	"io"

	"github.com/bluetuith-org/bluectl/api/eventbus"
	"github.com/rs/zerolog"
)

// watchProgress reports the progress of a create operation while it runs.
// Found devices are printed to w, everything else is logged at debug level.
// The returned function stops watching, after every pending event is reported.
func watchProgress(w io.Writer, log zerolog.Logger) func() {
	found := eventbus.Subscribe(eventbus.DeviceFound)
	scans := eventbus.Subscribe(eventbus.ScanStarted)
	pairs := eventbus.Subscribe(eventbus.PairAttempt)
	saves := eventbus.Subscribe(eventbus.ProfileSaved)

	foundC, scansC, pairsC, savesC := found.Receive(), scans.Receive(), pairs.Receive(), saves.Receive()

	done := make(chan struct{})
	go func() {
		defer close(done)

		for foundC != nil || scansC != nil || pairsC != nil || savesC != nil {
			select {
			case ev, ok := <-foundC:
				if !ok {
					foundC = nil
					continue
				}

				fmt.Fprintf(w, "Found %s %s\n", ev.Device.Address, ev.Device.Label)

			case ev, ok := <-scansC:
				if !ok {
					scansC = nil
					continue
				}

				log.Debug().Str("duration", ev.Duration).Msg("scan started")

			case ev, ok := <-pairsC:
				if !ok {
					pairsC = nil
					continue
				}

				log.Debug().
					Stringer("device", ev.Address).
					Int("attempt", ev.Attempt).
					Bool("successful", ev.Successful).
					Msg("pairing attempt")

			case ev, ok := <-savesC:
				if !ok {
					savesC = nil
					continue
				}

				log.Debug().Str("profile", ev.Name).Str("path", ev.Path).Msg("profile saved")
			}
		}
	}()

	return func() {
		found.Unsubscribe()
		scans.Unsubscribe()
		pairs.Unsubscribe()
		saves.Unsubscribe()

		<-done
	}
}
