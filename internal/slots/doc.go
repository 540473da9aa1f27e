// Package slots implements the controller slot reconciliation engine.
//
// The operating system assigns XInput controller slots on a first-come
// basis. To reserve a specific slot for a physical controller, the engine
// occupies every other slot with virtual controllers so the next physical
// connection is forced into the remaining vacancy.
//
// # Slot States
//
// Each of the N slots is tracked with two bits of state: whether the OS
// probe reports it plugged, and whether this process backs it with a
// virtual device. The four derived states:
//
//   - Free: not plugged, not managed
//   - Physical: plugged, not managed (a real controller)
//   - Virtual: plugged and managed (one of our virtual pads)
//   - Erroneous: managed but not plugged (the virtual pad vanished)
//
// # Discovery
//
// The bus driver's own user-index query is unreliable, so the engine never
// trusts it. After creating a virtual device it instead polls the slots
// that were unplugged before the creation and attributes the device to the
// first one whose probe flips to plugged. The poll is bounded; exceeding
// the bound is fatal because misattribution would corrupt slot ownership.
//
// # Concurrency
//
// The engine is single-threaded by design. A Manager must be confined to
// one goroutine; the bounded polls block that goroutine between probe
// attempts.
package slots
