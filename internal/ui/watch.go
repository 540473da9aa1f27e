package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmarek/padlock/internal/slots"
)

// Reconciler is the slice of the engine the watch view drives.
type Reconciler interface {
	UpdatePlugged() bool
	IsPlugged(index int) bool
	FillAllButOne(target int) error
	RenderState() string
	States() []slots.State
}

// tickMsg requests one reconciliation pass.
type tickMsg time.Time

// WatchModel is the Bubble Tea model for the watch view. One engine pass
// runs per tick, on the program goroutine.
type WatchModel struct {
	rec      Reconciler
	target   int // 0-based
	interval time.Duration
	publish  func(string) // optional status broadcast, may be nil

	spin  spinner.Model
	done  bool
	err   error
	width int
}

// NewWatch creates a watch model for the given target slot.
func NewWatch(rec Reconciler, target int, interval time.Duration, publish func(string)) WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)

	return WatchModel{
		rec:      rec,
		target:   target,
		interval: interval,
		publish:  publish,
		spin:     s,
		width:    GetTerminalWidth(),
	}
}

// Err returns the fatal engine error that ended the view, if any.
func (m WatchModel) Err() error {
	return m.err
}

// Done reports whether the target slot was claimed by a physical pad.
func (m WatchModel) Done() bool {
	return m.done
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model
func (m WatchModel) Init() tea.Cmd {
	if m.publish != nil {
		m.publish(m.rec.RenderState())
	}
	return tea.Batch(m.spin.Tick, m.tick())
}

// Update implements tea.Model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		if !m.rec.UpdatePlugged() {
			return m, m.tick()
		}
		if m.rec.IsPlugged(m.target) {
			m.done = true
			if m.publish != nil {
				m.publish(m.rec.RenderState())
			}
			return m, tea.Quit
		}
		// A pad was unplugged; restore the one-vacancy layout.
		if err := m.rec.FillAllButOne(m.target); err != nil {
			m.err = err
			return m, tea.Quit
		}
		if m.publish != nil {
			m.publish(m.rec.RenderState())
		}
		return m, m.tick()
	}

	return m, nil
}

// View implements tea.Model
func (m WatchModel) View() string {
	var b []string

	b = append(b, "")
	b = append(b, TitleStyle.Render(fmt.Sprintf("padlock - reserving slot %d", m.target+1)))
	b = append(b, "")
	b = append(b, " "+RenderSlots(m.rec.States(), m.target))
	b = append(b, "")

	switch {
	case m.err != nil:
		b = append(b, WaitingStyle.Render("stopping: "+m.err.Error()))
	case m.done:
		b = append(b, SuccessStyle.Render(fmt.Sprintf("Controller connected on slot %d", m.target+1)))
	default:
		b = append(b, WaitingStyle.Render(fmt.Sprintf("%s Waiting pad on slot %d...", m.spin.View(), m.target+1)))
	}

	b = append(b, "")
	b = append(b, HelpStyle.Render("q: quit"))
	b = append(b, "")

	out := ""
	for _, line := range b {
		out += line + "\n"
	}
	if m.width > 0 {
		// Keep every line inside the terminal so the slot boxes do not
		// wrap and tear on narrow windows.
		return lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

// RunWatch runs the watch view until the target slot is physically
// occupied, a fatal engine error occurs, or the user quits. The returned
// error is the fatal engine error, if any.
func RunWatch(rec Reconciler, target int, interval time.Duration, publish func(string)) error {
	model := NewWatch(rec, target, interval, publish)
	p := tea.NewProgram(model)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("watch view failed: %w", err)
	}
	if m, ok := final.(WatchModel); ok {
		return m.Err()
	}
	return nil
}
