package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play       key.Binding
	AddDrum    key.Binding
	AddMelodic key.Binding
	AddAudio   key.Binding
	Menu       key.Binding
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	Back       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func binding(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

var defaultKeys = keyMap{
	Play:       binding("play/pause", "space", " "),
	AddDrum:    binding("add drum track", "d"),
	AddMelodic: binding("add melodic track", "m"),
	AddAudio:   binding("add audio track", "a"),
	Menu:       binding("add track menu", "t", "+"),
	Up:         binding("up", "up", "k"),
	Down:       binding("down", "down", "j"),
	Select:     binding("select", "enter"),
	Back:       binding("close menu", "esc"),
	Help:       binding("toggle help", "?"),
	Quit:       binding("quit", "q", "ctrl+c"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Menu, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Quit, k.Help},
		{k.AddDrum, k.AddMelodic, k.AddAudio},
		{k.Menu, k.Up, k.Down, k.Select, k.Back},
	}
}
