package tui

import (
	"strings"
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewText = "We delve into it. Moreover, we delve again."

func reviewResult() model.DetectionResult {
	mk := func(id string, start, end int, options ...string) model.PatternMatch {
		return model.PatternMatch{
			RuleID:             id,
			RuleName:           id,
			Category:           model.CategoryWordVariety,
			Severity:           model.SeverityMedium,
			MatchedText:        reviewText[start:end],
			ReplacementOptions: options,
			Location:           model.Location{Start: start, End: end},
		}
	}
	return model.DetectionResult{
		Matches: []model.PatternMatch{
			mk("delve", 3, 8, "explore", "examine"),
			mk("moreover", 18, 27),
			mk("delve-overlap", 20, 25, "x"),
			mk("delve", 31, 36, "explore", "examine"),
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.Update(msg)
	}
	result, ok := next.(Model)
	require.True(t, ok)
	return result, cmd
}

func TestNewModel_DropsOverlaps(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)
	assert.Len(t, m.matches, 3)
	assert.Equal(t, StateReviewing, m.State())

	empty := NewModel("post.md", "", model.DetectionResult{}, themes.Default)
	assert.Equal(t, StateDone, empty.State())
}

func TestModel_ChooseDeleteAndWrite(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)

	m, _ = press(t, m, runes("2"), runes("d"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateDone, m.State())
	assert.Equal(t, "We examine into it.  we explore again.", m.Preview())

	m, cmd := press(t, m, runes("w"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Saved())
	assert.Len(t, m.Selections(), 3)
}

func TestModel_SkipAndUndo(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)

	m, _ = press(t, m, runes("1"), runes("s"))
	assert.Equal(t, 2, m.cursor)
	assert.Len(t, m.Selections(), 1)

	m, _ = press(t, m, runes("u"), runes("u"))
	assert.Equal(t, 0, m.cursor)
	assert.Empty(t, m.Selections())

	// Undo with no history is a no-op.
	m, _ = press(t, m, runes("u"))
	assert.Equal(t, 0, m.cursor)
}

func TestModel_UndoAfterDone(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)

	m, _ = press(t, m, runes("s"), runes("s"), runes("1"))
	require.Equal(t, StateDone, m.State())

	m, _ = press(t, m, runes("u"))
	assert.Equal(t, StateReviewing, m.State())
	assert.Equal(t, 2, m.cursor)
	assert.Empty(t, m.Selections())
}

func TestModel_CustomReplacement(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)

	m, _ = press(t, m, runes("c"))
	require.Equal(t, StateCustom, m.State())

	m, _ = press(t, m, runes("p"), runes("r"), runes("o"), runes("b"), runes("e"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateReviewing, m.State())
	assert.Equal(t, 1, m.cursor)
	require.Len(t, m.Selections(), 1)
	assert.Equal(t, "probe", m.Selections()[0].Replacement)

	m, _ = press(t, m, runes("c"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateReviewing, m.State())
	assert.Len(t, m.Selections(), 1)
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.cursor)

	m, _ = press(t, m, runes("l"), runes("l"), runes("l"))
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, StateReviewing, m.State())

	m, _ = press(t, m, runes("h"))
	assert.Equal(t, 1, m.cursor)
}

func TestModel_OptionOutOfRangeIgnored(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)

	m, _ = press(t, m, runes("9"))
	assert.Equal(t, 0, m.cursor)
	assert.Empty(t, m.Selections())
}

func TestModel_QuitWithoutSaving(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)

	m, cmd := press(t, m, runes("1"), runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.Saved())
	assert.Empty(t, m.View())
}

func TestModel_View(t *testing.T) {
	m := NewModel("post.md", reviewText, reviewResult(), themes.Default)
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Reviewing post.md")
	assert.Contains(t, view, "match 1/3")
	assert.Contains(t, view, "[1] explore")
	assert.Contains(t, view, "[d] delete")

	m, _ = press(t, m, runes("s"), runes("s"), runes("s"))
	assert.True(t, strings.Contains(m.View(), "All 3 matches reviewed"))
}
