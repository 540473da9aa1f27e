//go:build windows

package xinput

import (
	"syscall"
	"unsafe"
)

var (
	xinputDLL          = syscall.NewLazyDLL("xinput1_4.dll")
	procXInputGetState = xinputDLL.NewProc("XInputGetState")
)

// xinputState mirrors XINPUT_STATE.
type xinputState struct {
	PacketNumber uint32
	Gamepad      xinputGamepad
}

// xinputGamepad mirrors XINPUT_GAMEPAD.
type xinputGamepad struct {
	Buttons      uint16
	LeftTrigger  byte
	RightTrigger byte
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

func plugged(index int) bool {
	var state xinputState
	ret, _, _ := procXInputGetState.Call(uintptr(uint32(index)), uintptr(unsafe.Pointer(&state)))
	return ret == 0 // ERROR_SUCCESS
}
