// Package tui is the terminal view of the tracker: a toolbar with the
// transport state, the list of tracks and a menu for adding tracks. It only
// talks to the tracker.Model, through its actions.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vsariola/multitrack"
	"github.com/vsariola/multitrack/tracker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	toolbarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#000000")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6C757D")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)

const tickInterval = 50 * time.Millisecond

type (
	// Model is the Bubble Tea model of the view.
	Model struct {
		model      *tracker.Model
		keys       keyMap
		help       help.Model
		menuOpen   bool
		menuCursor int
		prevUpdate time.Time
		width      int
		shown      int // tracks that have been announced with TrackAppeared
	}

	appearedMsg struct{}

	eventMsg struct {
		event tracker.Event
	}

	tickMsg time.Time
)

func New(model *tracker.Model) Model {
	return Model{model: model, keys: defaultKeys, help: help.New(), prevUpdate: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return appearedMsg{} },
		waitForEvent(m.model.Broker()),
		tick(),
	)
}

// waitForEvent blocks until the adapter reports something. It only reads the
// channel; the event is processed in Update, on the UI goroutine.
func waitForEvent(broker *tracker.Broker) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-broker.ToModel
		if !ok {
			return nil
		}
		return eventMsg{event: e}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.showTracks()
	return next, cmd
}

// showTracks dispatches TrackAppeared once for every track added since the
// last update.
func (m *Model) showTracks() {
	n := len(m.model.Song().Tracks)
	for ; m.shown < n; m.shown++ {
		m.model.Track(m.shown, tracker.TrackAppeared{}).Do()
	}
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case appearedMsg:
		m.model.Appeared().Do()
	case eventMsg:
		m.model.ProcessEvent(msg.event)
		return m, waitForEvent(m.model.Broker())
	case tickMsg:
		now := time.Time(msg)
		m.model.Alerts().Update(now.Sub(m.prevUpdate))
		m.prevUpdate = now
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.menuOpen {
		types := multitrack.InstrumentTypes()
		switch {
		case key.Matches(msg, m.keys.Up):
			m.menuCursor = (m.menuCursor + len(types) - 1) % len(types)
		case key.Matches(msg, m.keys.Down):
			m.menuCursor = (m.menuCursor + 1) % len(types)
		case key.Matches(msg, m.keys.Select):
			m.model.AddTrack(types[m.menuCursor]).Do()
			m.menuOpen = false
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Menu):
			m.menuOpen = false
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Play):
		m.model.TogglePlay().Do()
	case key.Matches(msg, m.keys.AddDrum):
		m.model.AddTrack(multitrack.Drum).Do()
	case key.Matches(msg, m.keys.AddMelodic):
		m.model.AddTrack(multitrack.Melodic).Do()
	case key.Matches(msg, m.keys.AddAudio):
		m.model.AddTrack(multitrack.Audio).Do()
	case key.Matches(msg, m.keys.Menu):
		m.menuOpen = true
		m.menuCursor = 0
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) View() string {
	song := m.model.Song()
	var b strings.Builder
	b.WriteString(m.viewToolbar(song))
	b.WriteString("\n\n")
	if len(song.Tracks) == 0 {
		b.WriteString(dimStyle.Render("No tracks. Press t to add one."))
		b.WriteString("\n")
	}
	for _, t := range song.Tracks {
		b.WriteString(viewTrack(t))
		b.WriteString("\n")
	}
	if m.menuOpen {
		b.WriteString("\n")
		b.WriteString(m.viewMenu())
		b.WriteString("\n")
	}
	if alerts := m.viewAlerts(); alerts != "" {
		b.WriteString("\n")
		b.WriteString(alerts)
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewToolbar(song multitrack.Song) string {
	state := "■ Stopped"
	if song.IsPlaying {
		state = "▶ Playing"
	}
	parts := []string{
		titleStyle.Render("multitrack"),
		state,
		fmt.Sprintf("%.0f BPM", song.Tempo),
		fmt.Sprintf("%d beats", song.LengthInBeats),
	}
	if song.EngineDegraded {
		parts = append(parts, warningStyle.Render("no audio"))
	}
	return toolbarStyle.Render(strings.Join(parts, "   "))
}

func viewTrack(t multitrack.Track) string {
	color := lipgloss.Color(t.Color)
	label := lipgloss.NewStyle().Foreground(color).Width(6).Render(t.Type.Icon())
	title := lipgloss.NewStyle().Foreground(color).Width(24).Render(t.Title)
	clip := lipgloss.NewStyle().Background(color).Render("      ")
	empty := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true).BorderForeground(color).Render("    ")
	return lipgloss.JoinHorizontal(lipgloss.Center, label, title, clip, " ", clip, " ", empty, "  ", viewStatus(t))
}

func viewStatus(t multitrack.Track) string {
	switch t.Status {
	case multitrack.StatusReady:
		return dimStyle.Render(t.Instrument)
	case multitrack.StatusFailed:
		return errorStyle.Render("broken")
	case multitrack.StatusNoInstrument:
		return dimStyle.Render("no instrument")
	}
	return dimStyle.Render("loading…")
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString("Add track\n")
	for i, t := range multitrack.InstrumentTypes() {
		line := fmt.Sprintf("  %-5s %s", t.Icon(), t.Name())
		if i == m.menuCursor {
			line = selectedStyle.Render("> " + line[2:])
		}
		b.WriteString(line)
		if i < int(multitrack.NumInstrumentTypes)-1 {
			b.WriteString("\n")
		}
	}
	return menuStyle.Render(b.String())
}

func (m Model) viewAlerts() string {
	var b strings.Builder
	for _, a := range m.model.Alerts().Iterate {
		style := infoStyle
		switch a.Priority {
		case tracker.Warning:
			style = warningStyle
		case tracker.Error:
			style = errorStyle
		}
		b.WriteString(style.Render(a.Message))
		b.WriteString("\n")
	}
	return b.String()
}
