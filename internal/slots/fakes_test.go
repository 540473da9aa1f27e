package slots

import (
	"bytes"
	"testing"
	"time"
)

// fakeProbe is a mutable snapshot of physical slot occupancy.
type fakeProbe struct {
	plugged []bool
}

func newFakeProbe(n int) *fakeProbe {
	return &fakeProbe{plugged: make([]bool, n)}
}

func (p *fakeProbe) Plugged(index int) bool {
	return index >= 0 && index < len(p.plugged) && p.plugged[index]
}

// fakePad is an opaque device handle for tests.
type fakePad struct {
	id int
}

// fakeBus emulates the OS allocator: a created device lands on the lowest
// slot the probe reports free, and destroying it vacates that slot.
type fakeBus struct {
	probe  *fakeProbe
	nextID int
	landed map[*fakePad]int // pad -> slot index, -1 when it never appeared

	created   int
	destroyed int
	closed    bool

	createErr error // returned by CreateDevice when set

	// landNowhere makes created devices never show up on the probe,
	// which forces a discovery timeout.
	landNowhere bool

	// landAt overrides the landing slot when set.
	landAt func() int

	// stickyDestroy keeps the probe reporting a destroyed device's slot
	// as plugged, to exercise the free-confirmation timeout.
	stickyDestroy bool
}

func newFakeBus(probe *fakeProbe) *fakeBus {
	return &fakeBus{probe: probe, landed: make(map[*fakePad]int)}
}

func (b *fakeBus) CreateDevice() (Device, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.created++
	pad := &fakePad{id: b.nextID}
	b.nextID++

	index := -1
	switch {
	case b.landNowhere:
	case b.landAt != nil:
		index = b.landAt()
	default:
		for i, plugged := range b.probe.plugged {
			if !plugged {
				index = i
				break
			}
		}
	}
	if index >= 0 {
		b.probe.plugged[index] = true
	}
	b.landed[pad] = index
	return pad, nil
}

func (b *fakeBus) DestroyDevice(d Device) error {
	pad, ok := d.(*fakePad)
	if !ok {
		return nil
	}
	index, live := b.landed[pad]
	if !live {
		return nil // idempotent
	}
	if index >= 0 && !b.stickyDestroy {
		b.probe.plugged[index] = false
	}
	delete(b.landed, pad)
	b.destroyed++
	return nil
}

func (b *fakeBus) Close() error {
	for pad := range b.landed {
		_ = b.DestroyDevice(pad)
	}
	b.closed = true
	return nil
}

// testEnv bundles a manager with its fakes and captured output.
type testEnv struct {
	probe *fakeProbe
	bus   *fakeBus
	mgr   *Manager
	out   *bytes.Buffer
	errw  *bytes.Buffer
}

// newTestEnv builds a 4-slot manager over fresh fakes with a fast poll so
// bounded-timeout tests finish quickly.
func newTestEnv(t *testing.T, setup func(p *fakeProbe, b *fakeBus)) *testEnv {
	t.Helper()

	probe := newFakeProbe(4)
	bus := newFakeBus(probe)
	if setup != nil {
		setup(probe, bus)
	}

	out := &bytes.Buffer{}
	errw := &bytes.Buffer{}
	mgr, err := New(probe, bus, Options{
		SlotCount:    4,
		PollAttempts: 3,
		PollInterval: time.Millisecond,
		Out:          out,
		Err:          errw,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &testEnv{probe: probe, bus: bus, mgr: mgr, out: out, errw: errw}
}
