package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmarek/padlock/internal/config"
	"github.com/tmarek/padlock/internal/logging"
	"github.com/tmarek/padlock/internal/slots"
	"github.com/tmarek/padlock/internal/statusd"
	"github.com/tmarek/padlock/internal/ui"
	"github.com/tmarek/padlock/internal/version"
	"github.com/tmarek/padlock/internal/vigem"
	"github.com/tmarek/padlock/internal/xinput"
)

// errUsage marks an invalid slot argument; main prints the usage line for
// it instead of the FATAL prefix.
var errUsage = errors.New("invalid slot argument")

var (
	cfgPath    string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "padlock [slot]",
	Short: "Reserve an XInput slot for a physical controller",
	Long: `Reserve a specific XInput controller slot for a physical gamepad.

Padlock fills every other slot with virtual ViGEm pads, leaves the target
slot as the only vacancy and waits until a real controller claims it. The
slot argument is a single digit 1-4; without one, slot 1 is reserved (or
default_slot from the settings file).`,
	Example: `  # Reserve slot 1
  padlock

  # Reserve slot 2
  padlock 2

  # Reserve slot 2 with a live terminal view
  padlock watch 2

  # Serve the slot state for overlays while waiting
  padlock 1 --listen 127.0.0.1:8799`,
	Version:       version.Version,
	Args:          maxOneSlotArg,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReserve,
}

// maxOneSlotArg rejects extra positional arguments as a usage error, so
// main prints the usage line instead of FATAL.
func maxOneSlotArg(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errUsage
	}
	return nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Settings file path (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen", "", "Serve slot state on this address while waiting")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [slot]",
	Short: "Reserve a slot with a live terminal view",
	Long: `Reserve a slot like the root command, but show a live per-slot view
with the reserved slot highlighted while waiting for the controller.

Falls back to the plain output when stdout is not a terminal.`,
	Args:          maxOneSlotArg,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWatch,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the defaults",
	Long: `Write a settings file populated with the built-in defaults, as a
starting point for editing. Refuses to overwrite an existing file.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("settings file already exists: %s", path)
	}
	if err := config.Save(config.Defaults(), path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("padlock %s\n", version.Full())
	},
}

// parseTarget resolves the 0-based target slot from the optional positional
// argument, falling back to the configured default.
func parseTarget(args []string, defaultSlot int) (int, error) {
	if len(args) == 0 {
		if defaultSlot < 1 || defaultSlot > xinput.MaxSlots {
			return 0, fmt.Errorf("default_slot %d out of range [1, %d]", defaultSlot, xinput.MaxSlots)
		}
		return defaultSlot - 1, nil
	}
	arg := args[0]
	if len(arg) != 1 || arg[0] < '1' || arg[0] >= '1'+byte(xinput.MaxSlots) {
		return 0, errUsage
	}
	return int(arg[0] - '1'), nil
}

// session is the shared setup for the reserve and watch commands: settings,
// target slot, bus connection, slot manager and optional status server.
type session struct {
	settings *config.Settings
	target   int
	mgr      *slots.Manager
	status   *statusd.Server
	wait     time.Duration
}

func newSession(args []string) (*session, error) {
	if err := logging.InitializeFromEnv(); err != nil {
		return nil, err
	}

	settings, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	target, err := parseTarget(args, settings.DefaultSlot)
	if err != nil {
		return nil, err
	}

	bus, err := vigem.Connect()
	if err != nil {
		return nil, err
	}

	mgr, err := slots.New(xinput.New(), bus, slots.Options{
		SlotCount:    xinput.MaxSlots,
		PollAttempts: settings.PollAttempts,
		PollInterval: time.Duration(settings.PollIntervalMS) * time.Millisecond,
	})
	if err != nil {
		_ = bus.Close()
		return nil, err
	}

	s := &session{
		settings: settings,
		target:   target,
		mgr:      mgr,
		wait:     time.Duration(settings.WaitIntervalMS) * time.Millisecond,
	}

	addr := listenAddr
	if addr == "" {
		addr = settings.Listen
	}
	if addr != "" {
		s.status = statusd.New(addr)
		if err := s.status.Start(); err != nil {
			_ = mgr.Close()
			return nil, err
		}
	}

	return s, nil
}

// close releases everything the session owns. Deferred by the commands so
// the virtual pads and the bus connection go away on every exit path.
func (s *session) close() {
	if s.status != nil {
		_ = s.status.Close()
	}
	_ = s.mgr.Close()
}

// publish forwards a state line to the status server, if one is running.
func (s *session) publish(state string) {
	if s.status != nil {
		s.status.Publish(state)
	}
}

// printState emits the milestone state line and broadcasts it.
func (s *session) printState() {
	state := s.mgr.RenderState()
	fmt.Printf("State: %s\n", state)
	s.publish(state)
}

func runReserve(cmd *cobra.Command, args []string) error {
	s, err := newSession(args)
	if err != nil {
		return err
	}
	defer s.close()

	s.printState()
	if s.mgr.IsPlugged(s.target) {
		fmt.Printf("Pad %d already plugged\n", s.target+1)
		return nil
	}

	if err := s.mgr.FillAllButOne(s.target); err != nil {
		return err
	}
	fmt.Printf("Waiting pad on slot %d...\n", s.target+1)
	s.printState()

	for {
		time.Sleep(s.wait)
		if !s.mgr.UpdatePlugged() {
			continue
		}
		if s.mgr.IsPlugged(s.target) {
			break
		}
		// Fill again, in case an unmanaged gamepad has been unplugged
		if err := s.mgr.FillAllButOne(s.target); err != nil {
			return err
		}
		s.printState()
	}

	s.printState()
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return runReserve(cmd, args)
	}

	s, err := newSession(args)
	if err != nil {
		return err
	}
	defer s.close()

	if s.mgr.IsPlugged(s.target) {
		fmt.Printf("Pad %d already plugged\n", s.target+1)
		return nil
	}

	if err := s.mgr.FillAllButOne(s.target); err != nil {
		return err
	}

	var publish func(string)
	if s.status != nil {
		publish = s.status.Publish
	}
	return ui.RunWatch(s.mgr, s.target, s.wait, publish)
}
