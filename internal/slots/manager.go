package slots

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tmarek/padlock/internal/logging"
)

const (
	// DefaultSlotCount is the number of XInput controller slots.
	DefaultSlotCount = 4

	// DefaultPollAttempts bounds the discovery and free-confirmation
	// polls.
	DefaultPollAttempts = 100

	// DefaultPollInterval is the delay between probe attempts, so a full
	// poll spans about one second.
	DefaultPollInterval = 10 * time.Millisecond

	// maxSlotCount keeps rendered slot digits one character wide.
	maxSlotCount = 9
)

// Options configures a Manager. The zero value selects the defaults above
// with output on stdout/stderr.
type Options struct {
	// SlotCount is the number of slots to manage (default 4, max 9).
	SlotCount int

	// PollAttempts and PollInterval set the bound and cadence of the
	// discovery and free-confirmation polls.
	PollAttempts int
	PollInterval time.Duration

	// Out receives milestone and plug/unplug event lines. Err receives
	// lines with the WARNING: and ERROR: prefixes.
	Out io.Writer
	Err io.Writer
}

// Manager owns the slot registry and the reconciliation operations. It is
// constructed once per run and must be confined to a single goroutine.
type Manager struct {
	probe Prober
	bus   Bus

	pollAttempts int
	pollInterval time.Duration
	out          io.Writer
	errw         io.Writer

	slots []slot
}

// New builds a Manager and takes the initial probe snapshot. Slots that are
// already occupied are recorded silently: the initial state is the world as
// found, not a transition.
func New(probe Prober, bus Bus, opts Options) (*Manager, error) {
	if opts.SlotCount == 0 {
		opts.SlotCount = DefaultSlotCount
	}
	if opts.SlotCount < 1 || opts.SlotCount > maxSlotCount {
		return nil, fmt.Errorf("slot count %d out of range [1, %d]", opts.SlotCount, maxSlotCount)
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = DefaultPollAttempts
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	m := &Manager{
		probe:        probe,
		bus:          bus,
		pollAttempts: opts.PollAttempts,
		pollInterval: opts.PollInterval,
		out:          opts.Out,
		errw:         opts.Err,
		slots:        make([]slot, opts.SlotCount),
	}
	for i := range m.slots {
		m.slots[i].plugged = probe.Plugged(i)
	}
	return m, nil
}

// SlotCount returns the number of managed slots.
func (m *Manager) SlotCount() int {
	return len(m.slots)
}

// IsPlugged reports whether the slot was plugged at the last probe. An
// out-of-range index logs an error and reports false.
func (m *Manager) IsPlugged(index int) bool {
	if index < 0 || index >= len(m.slots) {
		m.recoverable(&Error{
			Severity: Recoverable,
			Op:       "isPlugged",
			Slot:     index + 1,
			Message:  fmt.Sprintf("invalid slot: %d", index+1),
		})
		return false
	}
	return m.slots[index].plugged
}

// RenderState returns the slot array rendered as one character per slot,
// left to right by index: 'x' virtual, 1-based digit physical, 'X'
// erroneous, '-' free. Pure: same slot state, same string.
func (m *Manager) RenderState() string {
	buf := make([]byte, len(m.slots))
	for i := range m.slots {
		buf[i] = m.slots[i].char(i)
	}
	return string(buf)
}

// States returns the derived state of every slot, by index.
func (m *Manager) States() []State {
	states := make([]State, len(m.slots))
	for i := range m.slots {
		states[i] = m.slots[i].state()
	}
	return states
}

// UpdatePlugged re-probes every slot in index order and records the result.
// A managed slot that the probe no longer sees is warned about (it has gone
// erroneous); an unmanaged flip is reported as a plugged/unplugged event.
// Returns true iff at least one slot's plugged bit changed. All N slots are
// always scanned so every transition is observed in one pass.
func (m *Manager) UpdatePlugged() bool {
	changed := false
	for i := range m.slots {
		plugged := m.probe.Plugged(i)
		s := &m.slots[i]
		if s.managed != nil {
			if !plugged {
				m.warnLine(i+1, fmt.Sprintf("virtual pad unplugged on slot %d", i+1))
			}
		} else if s.plugged != plugged {
			if plugged {
				m.eventLine(i+1, fmt.Sprintf("Pad %d plugged", i+1))
			} else {
				m.eventLine(i+1, fmt.Sprintf("Pad %d unplugged", i+1))
			}
		}
		changed = changed || s.plugged != plugged
		s.plugged = plugged
	}
	return changed
}

// Close destroys every device this Manager still holds and releases the
// bus. It is the guaranteed-cleanup path and must run on every exit,
// including after a fatal error.
func (m *Manager) Close() error {
	for i := range m.slots {
		if d := m.slots[i].managed; d != nil {
			_ = m.bus.DestroyDevice(d)
			m.slots[i].managed = nil
		}
	}
	return m.bus.Close()
}

// eventLine writes a plug/unplug event to the milestone stream and mirrors
// it to the structured log.
func (m *Manager) eventLine(slotNum int, msg string) {
	fmt.Fprintf(m.out, "%s\n", msg)
	logging.Info(msg, zap.Int("slot", slotNum))
}

// warnLine writes a WARNING: contract line and mirrors it to the
// structured log.
func (m *Manager) warnLine(slotNum int, msg string) {
	fmt.Fprintf(m.errw, "WARNING: %s\n", msg)
	logging.Warn(msg, zap.Int("slot", slotNum))
}

// recoverable converts a recoverable engine error into an ERROR: contract
// line at the point of detection; only fatal errors propagate to callers.
func (m *Manager) recoverable(e *Error) {
	fmt.Fprintf(m.errw, "ERROR: %s\n", e.Message)
	logging.Error(e.Error(), zap.Int("slot", e.Slot))
}
