// Package vigem is a client for the ViGEmBus virtual gamepad driver.
//
// It wraps ViGEmClient.dll to register and remove virtual Xbox 360
// controllers. The pads it creates are inert - padlock only needs them to
// occupy XInput slots, not to emit input.
//
// The driver can report which user index a pad was assigned
// (vigem_target_x360_get_user_index), but that call is unreliable in
// practice. It is exposed as QueryUserIndex for diagnostics only; slot
// attribution must go through the reconciliation engine's discovery poll.
package vigem
