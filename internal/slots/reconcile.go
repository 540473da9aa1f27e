package slots

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tmarek/padlock/internal/logging"
)

// FillAll creates one virtual device per currently free slot and attributes
// each to a slot through the discovery poll. A device that lands on a slot
// already managed or already plugged is a collision: it is destroyed with a
// warning and that iteration is abandoned (the next FillAll retries the
// deficit). After the loop the registry is re-probed once and any slot left
// unplugged is warned about.
//
// The returned error is always fatal: device creation failed, or the
// discovery poll timed out and the new device cannot be attributed.
func (m *Manager) FillAll() error {
	free := 0
	for i := range m.slots {
		if !m.slots[i].plugged {
			free++
		}
	}

	for n := 0; n < free; n++ {
		dev, err := m.bus.CreateDevice()
		if err != nil {
			return fatalf("fillAll", err, "failed to create virtual pad")
		}

		index, err := m.discoverSlot()
		if err != nil {
			// The device stays registered on the bus; Close tears
			// it down with the rest.
			return err
		}

		s := &m.slots[index]
		switch {
		case s.managed != nil:
			m.warnLine(index+1, fmt.Sprintf("virtual pad created on an already managed slot: %d", index+1))
			_ = m.bus.DestroyDevice(dev)
		case s.plugged:
			m.warnLine(index+1, fmt.Sprintf("virtual pad created on an already plugged slot: %d", index+1))
			_ = m.bus.DestroyDevice(dev)
		default:
			s.plugged = true
			s.managed = dev
			logging.Debug("virtual pad attributed", zap.Int("slot", index+1))
		}
	}

	// Surface anything that failed to end up plugged. Best effort, not
	// retried within this call.
	m.UpdatePlugged()
	for i := range m.slots {
		if !m.slots[i].plugged {
			m.warnLine(i+1, fmt.Sprintf("slot %d still unplugged", i+1))
		}
	}
	return nil
}

// discoverSlot learns which slot a just-created device landed on. The bus
// driver's own index query is unreliable, so instead the slots that were
// not plugged before the creation are polled until one flips to plugged.
// Exceeding the bound is fatal: continuing without knowing the index could
// silently corrupt a slot's ownership record.
func (m *Manager) discoverSlot() (int, error) {
	for try := 0; try < m.pollAttempts; try++ {
		for i := range m.slots {
			if m.slots[i].plugged {
				continue
			}
			if m.probe.Plugged(i) {
				return i, nil
			}
		}
		time.Sleep(m.pollInterval)
	}
	return 0, fatalf("fillAll", nil, "failed to get index of new virtual pad (timeout)")
}

// FreeSlot destroys the virtual device backing the given slot and waits,
// bounded, for the probe to stop reporting it. Out-of-range indexes and
// unmanaged slots are recoverable: logged, nothing done. A slot still
// reporting plugged when the bound elapses gets a warning and is left to
// eventual consistency; the managed handle is cleared regardless.
func (m *Manager) FreeSlot(index int) {
	if index < 0 || index >= len(m.slots) {
		m.recoverable(&Error{
			Severity: Recoverable,
			Op:       "freeSlot",
			Slot:     index + 1,
			Message:  fmt.Sprintf("invalid slot: %d", index+1),
		})
		return
	}
	s := &m.slots[index]
	if s.managed == nil {
		m.recoverable(&Error{
			Severity: Recoverable,
			Op:       "freeSlot",
			Slot:     index + 1,
			Message:  fmt.Sprintf("cannot free unmanaged slot: %d", index+1),
		})
		return
	}

	_ = m.bus.DestroyDevice(s.managed)
	s.managed = nil

	// A destroyed pad can take a moment to leave the OS's view.
	for try := 0; try < m.pollAttempts; try++ {
		s.plugged = m.probe.Plugged(index)
		if !s.plugged {
			break
		}
		time.Sleep(m.pollInterval)
	}
	if s.plugged {
		m.warnLine(index+1, fmt.Sprintf("managed slot %d has been freed but is still plugged", index+1))
	}
}

// FillAllButOne leaves the target slot as the only vacancy: every other
// slot ends up occupied, physically or virtually, so the OS allocator has
// to hand the target to the next connecting controller. A no-op unless some
// non-target slot is currently free, which makes consecutive calls with no
// intervening physical change idempotent.
func (m *Manager) FillAllButOne(target int) error {
	for i := range m.slots {
		if i != target && !m.slots[i].plugged {
			if err := m.FillAll(); err != nil {
				return err
			}
			// FillAll may have filled the target as well.
			m.FreeSlot(target)
			return nil
		}
	}
	return nil
}
