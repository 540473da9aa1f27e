package xinput

// MaxSlots is the number of XInput user slots (XUSER_MAX_COUNT).
const MaxSlots = 4

// Probe reports physical slot occupancy via XInputGetState. It implements
// the reconciliation engine's Prober interface.
type Probe struct{}

// New returns a Probe.
func New() *Probe {
	return &Probe{}
}

// Plugged reports whether the OS sees a controller on the given slot. It
// never panics; out-of-range indexes simply report unplugged (the API
// returns ERROR_BAD_ARGUMENTS for them).
func (p *Probe) Plugged(index int) bool {
	return plugged(index)
}
