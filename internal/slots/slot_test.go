package slots

import "testing"

func TestSlotStateDerivation(t *testing.T) {
	pad := &fakePad{id: 1}

	cases := []struct {
		name    string
		plugged bool
		managed Device
		want    State
		char    byte
	}{
		{"free", false, nil, Free, '-'},
		{"physical", true, nil, Physical, '3'},
		{"virtual", true, pad, Virtual, 'x'},
		{"erroneous", false, pad, Erroneous, 'X'},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := slot{plugged: tc.plugged, managed: tc.managed}
			if got := s.state(); got != tc.want {
				t.Errorf("state() = %v, want %v", got, tc.want)
			}
			// Rendered at index 2, so the physical digit is '3'.
			if got := s.char(2); got != tc.char {
				t.Errorf("char(2) = %q, want %q", got, tc.char)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	cases := map[State]string{
		Free:      "free",
		Physical:  "physical",
		Virtual:   "virtual",
		Erroneous: "erroneous",
		State(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
