package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/humanizer/internal/cli"
	"github.com/charmbracelet/lipgloss"
)

const excerptRadius = 80

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}

	switch m.state {
	case StateDone:
		sections = append(sections, m.renderDone())
	default:
		sections = append(sections, m.renderMatch(), m.renderOptions())
		if m.state == StateCustom {
			sections = append(sections, m.customInput.View())
		}
	}

	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Reviewing " + m.source)
	position := len(m.matches)
	if m.state != StateDone {
		position = m.cursor + 1
	}
	status := m.theme.Muted.Render(fmt.Sprintf("match %d/%d · %d changes", position, len(m.matches), len(m.choices)))
	return title + "  " + status + "\n"
}

func (m Model) renderMatch() string {
	match := m.current()
	before, matched, after := cli.Excerpt(m.text, match.Location, excerptRadius)

	meta := m.theme.Subtitle.Render(fmt.Sprintf("%s · %s · %s", match.RuleName, match.Category, match.Severity))

	var marked string
	if choice, ok := m.choices[m.cursor]; ok {
		marked = m.theme.Severity(match.Severity).Strikethrough(true).Render(matched) +
			m.theme.Replacement.Render(choice)
	} else {
		marked = m.theme.Severity(match.Severity).Render(matched)
	}

	body := before + marked + after
	if m.width > 4 {
		body = lipgloss.NewStyle().Width(m.width - 4).Render(body)
	}

	return meta + "\n" + m.theme.RoundedBox.Render(body)
}

func (m Model) renderOptions() string {
	match := m.current()
	choice, chosen := m.choices[m.cursor]

	var b strings.Builder
	for i, opt := range match.ReplacementOptions {
		line := fmt.Sprintf("[%d] %s", i+1, opt)
		if chosen && choice == opt {
			line = m.theme.Selected.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	deleteLine := "[d] delete"
	if chosen && choice == "" {
		b.WriteString(m.theme.Selected.Render("› "+deleteLine) + "\n")
	} else {
		b.WriteString("  " + deleteLine + "\n")
	}

	if chosen && choice != "" && !contains(match.ReplacementOptions, choice) {
		b.WriteString(m.theme.Selected.Render("› custom: "+choice) + "\n")
	}

	return b.String()
}

func (m Model) renderDone() string {
	if len(m.matches) == 0 {
		return m.theme.StatusSuccess.Render("No AI patterns found.") + "\n"
	}
	msg := fmt.Sprintf("All %d matches reviewed. %d changes chosen.", len(m.matches), len(m.choices))
	return m.theme.StatusSuccess.Render(msg) + "\n" +
		m.theme.Muted.Render("w writes the result, u undoes, ← goes back, q quits without saving.") + "\n"
}

func contains(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}
