package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	var model tea.Model = m
	for _, k := range keys {
		model, _ = model.Update(keyMsg(k))
	}
	out, ok := model.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", model)
	}
	return out
}

func TestMenu_EnterSelectsFirstEntry(t *testing.T) {
	m := update(t, NewModel(), "enter")
	choice, chosen := m.Choice()
	if !chosen {
		t.Fatal("no choice recorded")
	}
	if choice != ChoiceStart {
		t.Errorf("choice = %d, want ChoiceStart", choice)
	}
}

func TestMenu_NavigateToHelp(t *testing.T) {
	m := update(t, NewModel(), "down", "enter")
	choice, chosen := m.Choice()
	if !chosen {
		t.Fatal("no choice recorded")
	}
	if choice != ChoiceHelp {
		t.Errorf("choice = %d, want ChoiceHelp", choice)
	}
}

func TestMenu_EscapeIsExit(t *testing.T) {
	m := update(t, NewModel(), "esc")
	choice, chosen := m.Choice()
	if !chosen {
		t.Fatal("no choice recorded")
	}
	if choice != ChoiceExit {
		t.Errorf("choice = %d, want ChoiceExit", choice)
	}
}

func TestMenu_QuitKeyIsExit(t *testing.T) {
	m := update(t, NewModel(), "q")
	choice, _ := m.Choice()
	if choice != ChoiceExit {
		t.Errorf("choice = %d, want ChoiceExit", choice)
	}
}
