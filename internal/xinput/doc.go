// Package xinput probes physical controller slot occupancy.
//
// The probe is a thin wrapper over XInputGetState from xinput1_4.dll: a
// slot is plugged exactly when the call reports success. On non-Windows
// platforms the probe always reports unplugged; the tool refuses to run
// there anyway because the virtual pad bus is Windows-only.
package xinput
