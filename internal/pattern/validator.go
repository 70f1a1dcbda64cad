package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/humanizer/internal/model"
)

// ErrInvalidRule indicates a rule that cannot be stored or evaluated.
var ErrInvalidRule = errors.New("invalid rule")

// ValidateRule checks that a rule is well formed before it is stored.
func ValidateRule(rule *Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule cannot be nil", ErrInvalidRule)
	}
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRule)
	}
	if !rule.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRule, rule.Category)
	}
	if !rule.PatternType.Valid() {
		return fmt.Errorf("%w: unknown pattern type %q", ErrInvalidRule, rule.PatternType)
	}
	if rule.Severity != "" && !rule.Severity.Valid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidRule, rule.Severity)
	}

	// Semantic rules carry prompt text evaluated elsewhere.
	if !rule.PatternType.Executable() {
		return nil
	}

	if rule.Pattern == "" {
		return fmt.Errorf("%w: %s rule needs a pattern", ErrInvalidRule, rule.PatternType)
	}
	if rule.PatternType == model.PatternTypeRegex {
		if _, err := CompileRegex(rule.Pattern); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
	}

	return nil
}
