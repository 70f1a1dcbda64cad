package pattern

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Veraticus/humanizer/internal/model"
)

// Selection errors.
var (
	ErrOverlappingSelections = errors.New("selections overlap")
	ErrSelectionOutOfRange   = errors.New("selection outside text")
)

// ApplyReplacement returns text with the match span replaced. An empty
// replacement deletes the span.
func ApplyReplacement(text string, match Match, replacement string) string {
	start := clamp(match.Location.Start, len(text))
	end := clamp(match.Location.End, len(text))
	return text[:start] + replacement + text[end:]
}

// ApplyReplacements applies every selection to text in one pass. Selections
// are applied from the highest start offset down so earlier splice points stay
// valid. Overlapping selections are not rejected; call ValidateSelections
// first when the input is untrusted.
func ApplyReplacements(text string, selections []model.Selection) string {
	ordered := make([]model.Selection, len(selections))
	copy(ordered, selections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Match.Location.Start > ordered[j].Match.Location.Start
	})

	for _, sel := range ordered {
		text = ApplyReplacement(text, sel.Match, sel.Replacement)
	}
	return text
}

// ValidateSelections checks that every selection lies inside a text of
// textLen bytes and that no two selections overlap.
func ValidateSelections(selections []model.Selection, textLen int) error {
	ordered := make([]model.Selection, len(selections))
	copy(ordered, selections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Match.Location.Start < ordered[j].Match.Location.Start
	})

	for i, sel := range ordered {
		loc := sel.Match.Location
		if loc.Start < 0 || loc.End > textLen || loc.Start > loc.End {
			return fmt.Errorf("%w: [%d,%d) in %d bytes", ErrSelectionOutOfRange, loc.Start, loc.End, textLen)
		}
		if i > 0 {
			prev := ordered[i-1].Match.Location
			if loc.Start < prev.End {
				return fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlappingSelections,
					prev.Start, prev.End, loc.Start, loc.End)
			}
		}
	}
	return nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
