//go:build !windows

package xinput

// XInput does not exist off Windows; every slot reads as unplugged.
func plugged(index int) bool {
	return false
}
