// Padlock reserves an XInput controller slot for a physical gamepad.
//
// Windows hands out controller slots first-come-first-served, which breaks
// games that key behavior to a fixed slot index. Padlock occupies every
// other slot with virtual ViGEm pads so the next physically connected
// controller is forced into the slot you asked for, then removes the
// virtual pads' claim on that slot and waits.
//
// Usage:
//
//	padlock [slot]
//
// The slot is a single digit 1-4; without an argument slot 1 is reserved.
// See 'padlock --help' for the watch view and flags.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tmarek/padlock/internal/logging"
	"github.com/tmarek/padlock/internal/xinput"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "usage: padlock [1-%d]\n", xinput.MaxSlots)
		} else {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		}
		os.Exit(1)
	}
}
