package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PublishArtifact is one packed archive awaiting publication
type PublishArtifact struct {
	Name   string
	Size   int64
	Digest string
}

// PublishPrompt is the information shown by the publish gate
type PublishPrompt struct {
	Workspace string
	Version   string
	Command   []string
	Artifacts []PublishArtifact
}

// gateKeyMap defines the keyboard shortcuts for the publish gate
type gateKeyMap struct {
	Approve key.Binding
	Reject  key.Binding
}

var gateKeys = gateKeyMap{
	Approve: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "publish"),
	),
	Reject: key.NewBinding(
		key.WithKeys("n", "N", "q", "esc", "ctrl+c"),
		key.WithHelp("n", "abort"),
	),
}

// publishModel is the bubbletea model for the publish gate
type publishModel struct {
	prompt   PublishPrompt
	approved bool
	quitting bool
}

// ShowPublishGate displays the artifacts about to be pushed and waits
// for the user's decision
func ShowPublishGate(p PublishPrompt) (bool, error) {
	program := tea.NewProgram(publishModel{prompt: p})

	finalModel, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("run publish gate: %w", err)
	}

	return finalModel.(publishModel).approved, nil
}

func (m publishModel) Init() tea.Cmd {
	return nil
}

func (m publishModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, gateKeys.Approve):
			m.approved = true
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, gateKeys.Reject):
			m.approved = false
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m publishModel) View() string {
	if m.quitting {
		if m.approved {
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Render("✓ Publishing approved.") + "\n"
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Render("✗ Publish aborted.") + "\n"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("Publish artifacts") + "\n\n")
	b.WriteString(fmt.Sprintf("Workspace: %s\n", headerStyle.Render(m.prompt.Workspace)))
	b.WriteString(fmt.Sprintf("Version:   %s\n\n", headerStyle.Render(m.prompt.Version)))

	b.WriteString(labelStyle.Render(fmt.Sprintf("Artifacts (%d):", len(m.prompt.Artifacts))) + "\n")
	for _, a := range m.prompt.Artifacts {
		line := fmt.Sprintf("  %s  %s", a.Name, labelStyle.Render(formatSize(a.Size)))
		if a.Digest != "" {
			line += "  " + labelStyle.Render(shortDigest(a.Digest))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	if len(m.prompt.Command) > 0 {
		b.WriteString(labelStyle.Render("Command:") + "\n")
		b.WriteString(fmt.Sprintf("  %s\n\n", strings.Join(m.prompt.Command, " ")))
	}

	b.WriteString(titleStyle.Render("Push these artifacts?") + " ")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("(y)") + " / ")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("(n)"))
	b.WriteString(": ")

	return b.String()
}

// formatSize renders a byte count in a human-readable unit
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// shortDigest truncates a hex digest for display
func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}
