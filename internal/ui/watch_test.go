package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmarek/padlock/internal/slots"
)

// fakeRec is a canned Reconciler for driving the watch model.
type fakeRec struct {
	changed bool
	plugged map[int]bool
	fillErr error
	fills   int
	states  []slots.State
}

func (r *fakeRec) UpdatePlugged() bool { return r.changed }

func (r *fakeRec) IsPlugged(index int) bool { return r.plugged[index] }

func (r *fakeRec) FillAllButOne(target int) error { r.fills++; return r.fillErr }

func (r *fakeRec) RenderState() string { return "-xxx" }

func (r *fakeRec) States() []slots.State { return r.states }

func newFakeRec() *fakeRec {
	return &fakeRec{
		plugged: make(map[int]bool),
		states:  []slots.State{slots.Free, slots.Virtual, slots.Virtual, slots.Virtual},
	}
}

func tickModel(t *testing.T, m WatchModel) (WatchModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(tickMsg(time.Now()))
	next, ok := updated.(WatchModel)
	if !ok {
		t.Fatalf("Update() returned %T, want WatchModel", updated)
	}
	return next, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestWatch_TickWithoutChangeKeepsWaiting(t *testing.T) {
	rec := newFakeRec()
	m := NewWatch(rec, 0, time.Millisecond, nil)

	next, cmd := tickModel(t, m)
	if next.Done() {
		t.Error("Done() = true without any change")
	}
	if isQuit(cmd) {
		t.Error("model quit without the target being plugged")
	}
	if rec.fills != 0 {
		t.Errorf("fills = %d, want 0", rec.fills)
	}
}

func TestWatch_TickFinishesWhenTargetPlugged(t *testing.T) {
	rec := newFakeRec()
	rec.changed = true
	rec.plugged[0] = true

	var published []string
	m := NewWatch(rec, 0, time.Millisecond, func(s string) {
		published = append(published, s)
	})

	next, cmd := tickModel(t, m)
	if !next.Done() {
		t.Error("Done() = false after the target was plugged")
	}
	if !isQuit(cmd) {
		t.Error("model should quit once the target is plugged")
	}
	if len(published) == 0 {
		t.Error("final state was not published")
	}
}

func TestWatch_TickRefillsAfterUnplug(t *testing.T) {
	rec := newFakeRec()
	rec.changed = true // something changed, but not the target

	m := NewWatch(rec, 0, time.Millisecond, nil)
	next, cmd := tickModel(t, m)

	if rec.fills != 1 {
		t.Errorf("fills = %d, want 1 (vacancy must be restored)", rec.fills)
	}
	if next.Done() {
		t.Error("Done() = true while the target is still free")
	}
	if isQuit(cmd) {
		t.Error("model quit while the target is still free")
	}
}

func TestWatch_TickStopsOnFatalError(t *testing.T) {
	rec := newFakeRec()
	rec.changed = true
	rec.fillErr = errors.New("failed to get index of new virtual pad (timeout)")

	m := NewWatch(rec, 0, time.Millisecond, nil)
	next, cmd := tickModel(t, m)

	if next.Err() == nil {
		t.Error("Err() = nil, want the fatal fill error")
	}
	if !isQuit(cmd) {
		t.Error("model should quit on a fatal error")
	}
}

func TestWatch_QuitKey(t *testing.T) {
	rec := newFakeRec()
	m := NewWatch(rec, 0, time.Millisecond, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !isQuit(cmd) {
		t.Error("pressing q should quit")
	}
}

func TestWatch_ViewShowsTargetAndStates(t *testing.T) {
	rec := newFakeRec()
	m := NewWatch(rec, 1, time.Millisecond, nil)

	view := m.View()
	if !strings.Contains(view, "reserving slot 2") {
		t.Errorf("View() missing title, got:\n%s", view)
	}
	if !strings.Contains(view, "Waiting pad on slot 2") {
		t.Errorf("View() missing waiting line, got:\n%s", view)
	}
}

func TestWatch_ViewHonorsWindowWidth(t *testing.T) {
	rec := newFakeRec()
	m := NewWatch(rec, 0, time.Millisecond, nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 12, Height: 24})
	next, ok := updated.(WatchModel)
	if !ok {
		t.Fatalf("Update() returned %T, want WatchModel", updated)
	}

	for _, line := range strings.Split(next.View(), "\n") {
		if w := lipgloss.Width(line); w > 12 {
			t.Errorf("line width = %d, want <= 12: %q", w, line)
		}
	}
}

func TestRenderSlots_OneCellPerSlot(t *testing.T) {
	states := []slots.State{slots.Physical, slots.Virtual, slots.Erroneous, slots.Free}
	out := RenderSlots(states, 3)

	for _, label := range []string{"1", "x", "X", "-"} {
		if !strings.Contains(out, label) {
			t.Errorf("RenderSlots() missing label %q", label)
		}
	}
}

func TestSlotLabel(t *testing.T) {
	if got := slotLabel(slots.Physical, 2); got != "3" {
		t.Errorf("slotLabel(Physical, 2) = %q, want %q", got, "3")
	}
	if got := slotLabel(slots.Virtual, 0); got != "x" {
		t.Errorf("slotLabel(Virtual, 0) = %q, want %q", got, "x")
	}
	if got := slotLabel(slots.Erroneous, 0); got != "X" {
		t.Errorf("slotLabel(Erroneous, 0) = %q, want %q", got, "X")
	}
	if got := slotLabel(slots.Free, 0); got != "-" {
		t.Errorf("slotLabel(Free, 0) = %q, want %q", got, "-")
	}
}
