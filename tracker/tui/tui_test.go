package tui_test

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vsariola/multitrack"
	"github.com/vsariola/multitrack/tracker"
	"github.com/vsariola/multitrack/tracker/tui"
)

func newView(t *testing.T) (tea.Model, *tracker.Model) {
	t.Helper()
	reducer, err := tracker.NewReducer(tracker.ReducerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	model := tracker.NewModel(tracker.NewBroker(16), reducer, multitrack.NewSong(120, 4))
	return tui.New(model), model
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestKeysDispatchIntents(t *testing.T) {
	view, model := newView(t)
	press(view, "d", "m", "a", "space")
	song := model.Song()
	if len(song.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(song.Tracks))
	}
	expected := []multitrack.InstrumentType{multitrack.Drum, multitrack.Melodic, multitrack.Audio}
	for i, typ := range expected {
		if song.Tracks[i].Type != typ {
			t.Errorf("track %d type = %v, expected %v", i, song.Tracks[i].Type, typ)
		}
	}
	if !song.IsPlaying {
		t.Errorf("space should toggle play")
	}
}

func TestAddTrackMenu(t *testing.T) {
	view, model := newView(t)
	view = press(view, "t")
	if !strings.Contains(view.View(), "Add track") {
		t.Errorf("menu should be shown")
	}
	view = press(view, "down", "enter")
	song := model.Song()
	if len(song.Tracks) != 1 || song.Tracks[0].Type != multitrack.Melodic {
		t.Fatalf("expected one melodic track, got %+v", song.Tracks)
	}
	if strings.Contains(view.View(), "Add track") {
		t.Errorf("menu should be closed after selecting")
	}
	view = press(view, "t", "esc")
	if len(model.Song().Tracks) != 1 {
		t.Errorf("closing the menu should not add a track")
	}
}

func TestViewShowsTracksAndFailures(t *testing.T) {
	view, model := newView(t)
	view = press(view, "d")
	if !strings.Contains(view.View(), "Drum track - 0") {
		t.Errorf("view should show the track title:\n%s", view.View())
	}
	model.ProcessEvent(tracker.InstrumentLoadFailed{ID: 0, Err: errors.New("bad preset")})
	out := view.View()
	if !strings.Contains(out, "broken") {
		t.Errorf("failed track should be marked:\n%s", out)
	}
	if !strings.Contains(out, "bad preset") {
		t.Errorf("failure should be alerted:\n%s", out)
	}
}

func TestQuit(t *testing.T) {
	view, _ := newView(t)
	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
}
