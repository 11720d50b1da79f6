// Package menu presents the Start / Help / Exit selection shown before an
// attended update run. It is a thin collaborator: selecting Exit or Help
// short-circuits execution and nothing here touches the profile directory.
package menu

import (
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prefsync-dev/prefsync/internal/branding"
)

// Choice is the user's menu selection.
type Choice int

const (
	ChoiceStart Choice = iota
	ChoiceHelp
	ChoiceExit
)

var docStyle = lipgloss.NewStyle().Margin(1, 2)

type item struct {
	title  string
	desc   string
	choice Choice
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

// Model is the bubbletea model for the start menu.
type Model struct {
	list   list.Model
	choice Choice
	chosen bool
}

// NewModel builds the three-entry start menu.
func NewModel() Model {
	items := []list.Item{
		item{title: "Start", desc: "Fetch the latest user.js and update this profile", choice: ChoiceStart},
		item{title: "Help", desc: "Show the available options", choice: ChoiceHelp},
		item{title: "Exit", desc: "Leave without touching anything", choice: ChoiceExit},
	}

	l := list.New(items, list.NewDefaultDelegate(), 48, 14)
	l.Title = branding.DisplayName()
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{list: l, choice: ChoiceExit}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.choice = ChoiceExit
			m.chosen = true
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				m.choice = it.choice
				m.chosen = true
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return docStyle.Render(m.list.View())
}

// Choice returns the selection and whether one was actually made.
func (m Model) Choice() (Choice, bool) {
	return m.choice, m.chosen
}

// Run displays the menu on the terminal and blocks until the user picks an
// entry. Dismissing the menu counts as Exit.
func Run() (Choice, error) {
	final, err := tea.NewProgram(NewModel()).Run()
	if err != nil {
		return ChoiceExit, err
	}
	m, ok := final.(Model)
	if !ok {
		return ChoiceExit, nil
	}
	choice, _ := m.Choice()
	return choice, nil
}

// IsInteractive reports whether stdin is attached to a terminal. When it
// is not, callers should behave as if --unattended was passed.
func IsInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
