// Package tui implements the interactive match review screen.
package tui

import (
	"sort"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
	"github.com/Veraticus/humanizer/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	StateReviewing State = iota
	StateCustom
	StateDone
)

// decision is one undoable change to the choices map.
type decision struct {
	prev   *string
	index  int
	state  State
	cursor int
}

// Model holds the review state. Matches are the non-overlapping subset of
// the detection result, so every choice can be applied together.
type Model struct {
	theme       themes.Theme
	choices     map[int]string
	help        help.Model
	customInput textinput.Model
	keymap      KeyMap
	source      string
	text        string
	matches     []model.PatternMatch
	history     []decision
	width       int
	height      int
	cursor      int
	state       State
	saved       bool
	quitting    bool
}

// NewModel creates a review model for text.
func NewModel(source, text string, result model.DetectionResult, theme themes.Theme) Model {
	customInput := textinput.New()
	customInput.Placeholder = "Replacement text (empty deletes)..."
	customInput.CharLimit = 200

	m := Model{
		theme:       theme,
		choices:     make(map[int]string),
		help:        help.New(),
		customInput: customInput,
		keymap:      DefaultKeyMap(),
		source:      source,
		text:        text,
		matches:     pattern.NonOverlapping(result.Matches),
		state:       StateReviewing,
	}
	if len(m.matches) == 0 {
		m.state = StateDone
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.state == StateCustom {
			return m.updateCustom(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Write):
		m.saved = true
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.Undo):
		m.undo()
	case key.Matches(msg, m.keymap.Prev):
		m.move(-1)
	case m.state == StateDone:
		// Only navigation, undo, write and quit apply once every match is reviewed.
	case key.Matches(msg, m.keymap.Next):
		m.move(1)
	case key.Matches(msg, m.keymap.Accept):
		options := m.current().ReplacementOptions
		if len(options) > 0 {
			m.decide(options[0])
		} else {
			m.decide("")
		}
	case key.Matches(msg, m.keymap.Option):
		n := int(msg.String()[0] - '0')
		if options := m.current().ReplacementOptions; n <= len(options) {
			m.decide(options[n-1])
		}
	case key.Matches(msg, m.keymap.Delete):
		m.decide("")
	case key.Matches(msg, m.keymap.Skip):
		m.skip()
	case key.Matches(msg, m.keymap.Custom):
		m.state = StateCustom
		if choice, ok := m.choices[m.cursor]; ok {
			m.customInput.SetValue(choice)
		}
		return m, m.customInput.Focus()
	}

	return m, nil
}

func (m Model) updateCustom(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := m.customInput.Value()
		m.customInput.Blur()
		m.customInput.SetValue("")
		m.state = StateReviewing
		m.decide(value)
		return m, nil
	case tea.KeyEsc:
		m.customInput.Blur()
		m.customInput.SetValue("")
		m.state = StateReviewing
		return m, nil
	}

	var cmd tea.Cmd
	m.customInput, cmd = m.customInput.Update(msg)
	return m, cmd
}

func (m *Model) current() model.PatternMatch {
	return m.matches[m.cursor]
}

func (m *Model) record() {
	d := decision{index: m.cursor, cursor: m.cursor, state: m.state}
	if prev, ok := m.choices[m.cursor]; ok {
		d.prev = &prev
	}
	m.history = append(m.history, d)
}

func (m *Model) decide(replacement string) {
	m.record()
	m.choices[m.cursor] = replacement
	m.advance()
}

func (m *Model) skip() {
	m.record()
	delete(m.choices, m.cursor)
	m.advance()
}

func (m *Model) advance() {
	if m.cursor < len(m.matches)-1 {
		m.cursor++
		return
	}
	m.state = StateDone
}

func (m *Model) move(delta int) {
	if len(m.matches) == 0 {
		return
	}
	if m.state == StateDone {
		if delta < 0 {
			m.state = StateReviewing
			m.cursor = len(m.matches) - 1
		}
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.matches)-1)
}

func (m *Model) undo() {
	if len(m.history) == 0 {
		return
	}
	last := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]

	if last.prev != nil {
		m.choices[last.index] = *last.prev
	} else {
		delete(m.choices, last.index)
	}
	m.cursor = last.cursor
	m.state = last.state
}

// Selections returns the chosen replacements in text order.
func (m Model) Selections() []model.Selection {
	indices := make([]int, 0, len(m.choices))
	for i := range m.choices {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	selections := make([]model.Selection, 0, len(indices))
	for _, i := range indices {
		selections = append(selections, model.Selection{
			Match:       m.matches[i],
			Replacement: m.choices[i],
		})
	}
	return selections
}

// Preview returns the text with the current choices applied.
func (m Model) Preview() string {
	return pattern.ApplyReplacements(m.text, m.Selections())
}

// Saved reports whether the user chose to write the result.
func (m Model) Saved() bool {
	return m.saved
}

// State returns the current state.
func (m Model) State() State {
	return m.state
}
