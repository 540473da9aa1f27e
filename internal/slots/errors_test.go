package slots

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := &Error{
		Severity: Recoverable,
		Op:       "freeSlot",
		Slot:     2,
		Message:  "cannot free unmanaged slot",
	}

	got := err.Error()
	if !strings.Contains(got, "freeSlot") {
		t.Errorf("Error() = %q, want op name", got)
	}
	if !strings.Contains(got, "slot 2") {
		t.Errorf("Error() = %q, want slot number", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("bus went away")
	err := fatalf("fillAll", cause, "failed to create virtual pad")

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "bus went away") {
		t.Errorf("Error() = %q, want wrapped cause in message", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("IsFatal(nil) = true, want false")
	}
	if !IsFatal(fatalf("fillAll", nil, "timeout")) {
		t.Error("IsFatal(fatal error) = false, want true")
	}
	recoverable := &Error{Severity: Recoverable, Op: "freeSlot", Message: "skipped"}
	if IsFatal(recoverable) {
		t.Error("IsFatal(recoverable error) = true, want false")
	}
	// Unknown errors are not something the engine can continue past.
	if !IsFatal(errors.New("unclassified")) {
		t.Error("IsFatal(plain error) = false, want true")
	}
}

func TestSeverity_String(t *testing.T) {
	if Recoverable.String() != "recoverable" {
		t.Errorf("Recoverable.String() = %q", Recoverable.String())
	}
	if Fatal.String() != "fatal" {
		t.Errorf("Fatal.String() = %q", Fatal.String())
	}
}
