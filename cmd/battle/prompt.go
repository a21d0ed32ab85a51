package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/battle-solver/internal/models"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

var errPromptCancelled = errors.New("input cancelled")

type promptField struct {
	label string
	hint  string
	value []rune
}

// promptModel asks for the three battle inputs, one line each
type promptModel struct {
	fields    []promptField
	focus     int
	done      bool
	cancelled bool
}

func newPromptModel(s models.Scenario) promptModel {
	return promptModel{
		fields: []promptField{
			{label: "Mine", hint: "Name#count;Name#count;...", value: []rune(s.Mine)},
			{label: "Opponent", hint: "platoons in lane order", value: []rune(s.Opponent)},
			{label: "Terrain", hint: "Default, Hill, Plains or Muddy per lane", value: []rune(s.Terrain)},
		},
	}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	field := &m.fields[m.focus]
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		if m.focus == len(m.fields)-1 {
			if key.Type != tea.KeyEnter {
				return m, nil
			}
			m.done = true
			return m, tea.Quit
		}
		m.focus++
	case tea.KeyShiftTab, tea.KeyUp:
		if m.focus > 0 {
			m.focus--
		}
	case tea.KeyBackspace:
		if len(field.value) > 0 {
			field.value = field.value[:len(field.value)-1]
		}
	case tea.KeyCtrlU:
		field.value = nil
	case tea.KeySpace:
		field.value = append(field.value, ' ')
	case tea.KeyRunes:
		field.value = append(field.value, key.Runes...)
	}
	return m, nil
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(bannerStyle.Render("Five-Lane Battle Solver"))
	b.WriteString("\n\n")
	for i, f := range m.fields {
		label := labelStyle.Render(fmt.Sprintf("%-9s", f.label))
		cursor := " "
		if i == m.focus {
			label = focusedStyle.Render(fmt.Sprintf("%-9s", f.label))
			cursor = "▌"
		}
		fmt.Fprintf(&b, "%s %s%s\n", label, string(f.value), cursor)
		b.WriteString(hintStyle.Render("          " + f.hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter: next/solve • shift+tab: back • ctrl+u: clear • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// scenario returns s with the answered inputs
func (m promptModel) scenario(s models.Scenario) models.Scenario {
	s.Mine = strings.TrimSpace(string(m.fields[0].value))
	s.Opponent = strings.TrimSpace(string(m.fields[1].value))
	s.Terrain = strings.TrimSpace(string(m.fields[2].value))
	return s
}

// promptScenario lets the user edit the battle inputs, prefilled from s
func promptScenario(s models.Scenario) (models.Scenario, error) {
	final, err := tea.NewProgram(newPromptModel(s)).Run()
	if err != nil {
		return s, fmt.Errorf("prompt failed: %w", err)
	}
	m, ok := final.(promptModel)
	if !ok || m.cancelled {
		return s, errPromptCancelled
	}
	return m.scenario(s), nil
}
