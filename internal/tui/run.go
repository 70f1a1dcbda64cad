package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configures Review.
type Options struct {
	Input  io.Reader
	Output io.Writer
	Theme  themes.Theme
	// AltScreen runs the UI in the terminal's alternate screen buffer.
	AltScreen bool
}

// Review runs the interactive review for text and returns the chosen
// selections. saved is false when the user quit without writing.
func Review(ctx context.Context, source, text string, result model.DetectionResult, opts Options) ([]model.Selection, bool, error) {
	theme := opts.Theme
	if theme.Name == "" {
		theme = themes.Default
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(NewModel(source, text, result, theme), programOpts...)
	final, err := p.Run()
	if err != nil {
		return nil, false, fmt.Errorf("review UI failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, false, fmt.Errorf("review UI returned unexpected model %T", final)
	}
	if !m.Saved() {
		return nil, false, nil
	}
	return m.Selections(), true, nil
}
