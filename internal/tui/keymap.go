package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the main screen. The URL input owns
// plain characters, so every action key is a chord or a non-text key.
type KeyMap struct {
	Submit       key.Binding
	Extract      key.Binding
	ProcessAudio key.Binding
	Language     key.Binding
	OpenAudio    key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "transcribe and summarize"),
		),
		Extract: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "extract audio only"),
		),
		ProcessAudio: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "transcribe extracted audio"),
		),
		Language: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch language"),
		),
		OpenAudio: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open audio link"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Extract, k.Language, k.Quit}
}

// FullHelp returns all bindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Extract, k.ProcessAudio},
		{k.Language, k.OpenAudio, k.Quit, k.ForceQuit},
	}
}
