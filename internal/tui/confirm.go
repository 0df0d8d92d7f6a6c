// Package tui provides the full-screen confirmation view shown before an
// edit that requires approval is applied.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Padding(0, 1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	addStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	delStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

// ConfirmModel displays a pending diff in a scrollable viewport and waits
// for the user to approve or decline.
type ConfirmModel struct {
	title    string
	message  string
	diff     string
	viewport viewport.Model
	ready    bool
	approved bool
	answered bool
	quitting bool
}

// NewConfirmModel creates the confirmation view. message is the gate's
// combined confirmation message; diff is the pending unified diff.
func NewConfirmModel(title, message, diff string) ConfirmModel {
	return ConfirmModel{
		title:   title,
		message: message,
		diff:    diff,
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update handles key and resize events. y approves; n, esc and ctrl+c
// decline; arrows and page keys scroll the diff.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		footerHeight := lipgloss.Height(m.footerView())
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.renderDiff())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.approved = true
			m.answered = true
			m.quitting = true
			return m, tea.Quit
		case "n", "N", "esc", "ctrl+c", "q":
			m.answered = true
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.footerView()
}

func (m ConfirmModel) headerView() string {
	return titleStyle.Render(m.title) + "\n" + messageStyle.Render(m.message)
}

func (m ConfirmModel) footerView() string {
	return footerStyle.Render("y apply · n cancel · ↑/↓ scroll")
}

func (m ConfirmModel) renderDiff() string {
	lines := strings.Split(strings.TrimSuffix(m.diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			lines[i] = addStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = delStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Approved reports whether the user approved the edit.
func (m ConfirmModel) Approved() bool {
	return m.approved
}

// Answered reports whether the user made any choice (vs. the program being
// interrupted).
func (m ConfirmModel) Answered() bool {
	return m.answered
}

// Confirm runs the confirmation view and returns the user's choice.
func Confirm(title, message, diff string) (bool, error) {
	p := tea.NewProgram(NewConfirmModel(title, message, diff), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(ConfirmModel)
	return final.Answered() && final.Approved(), nil
}
