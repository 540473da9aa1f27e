package slots

// Prober reports whether a controller slot is physically occupied from the
// operating system's point of view. Implementations must not panic for any
// index in [0, slot count).
type Prober interface {
	Plugged(index int) bool
}

// Device is an opaque handle to a virtual controller created by a Bus. A
// handle is owned by at most one slot between creation and destruction and
// is never reused afterwards.
type Device interface{}

// Bus creates and destroys virtual controller devices on the emulation bus.
type Bus interface {
	// CreateDevice registers a new virtual controller. The slot it lands
	// on must be established through the discovery poll, not through any
	// index the bus itself reports.
	CreateDevice() (Device, error)

	// DestroyDevice removes a device created by CreateDevice. Destroying
	// a device twice is harmless.
	DestroyDevice(d Device) error

	// Close destroys any remaining devices and releases the bus
	// connection.
	Close() error
}

// State is the derived state of a single slot.
type State int

const (
	// Free means the slot is neither plugged nor managed.
	Free State = iota
	// Physical means a real controller occupies the slot.
	Physical
	// Virtual means one of our virtual pads occupies the slot.
	Virtual
	// Erroneous means the slot is managed but the probe no longer sees
	// it. This is a fault to surface, never a target state.
	Erroneous
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Physical:
		return "physical"
	case Virtual:
		return "virtual"
	case Erroneous:
		return "erroneous"
	default:
		return "unknown"
	}
}

// slot is the stored per-slot state. The derived State is always computed,
// never stored.
type slot struct {
	plugged bool
	managed Device
}

func (s *slot) state() State {
	switch {
	case s.plugged && s.managed != nil:
		return Virtual
	case s.plugged:
		return Physical
	case s.managed != nil:
		return Erroneous
	default:
		return Free
	}
}

// char returns the single-character rendering of the slot at the given
// index: 'x' virtual, 1-based digit physical, 'X' erroneous, '-' free.
func (s *slot) char(index int) byte {
	switch s.state() {
	case Virtual:
		return 'x'
	case Physical:
		return byte('1' + index)
	case Erroneous:
		return 'X'
	default:
		return '-'
	}
}
