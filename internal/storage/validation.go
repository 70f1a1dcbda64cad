package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidLimit   = errors.New("limit must not be negative")
	ErrSelfOverride   = errors.New("rule cannot override itself")
	ErrGlobalOverride = errors.New("global rules cannot override other rules")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePatternRule validates a rule before it is written.
func validatePatternRule(rule *model.PatternRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if err := pattern.ValidateRule(rule); err != nil {
		return err
	}
	if rule.OverridesID != "" {
		if rule.TeamID == "" {
			return ErrGlobalOverride
		}
		if rule.OverridesID == rule.ID {
			return ErrSelfOverride
		}
	}
	return nil
}

// validateDetection validates a detection record before it is written.
func validateDetection(detection *model.Detection) error {
	if detection == nil {
		return fmt.Errorf("%w: detection", ErrNilParameter)
	}
	if err := validateString(detection.Source, "source"); err != nil {
		return err
	}
	if detection.AIScore < 0 || detection.AIScore > 100 {
		return fmt.Errorf("ai score %d out of range [0,100]", detection.AIScore)
	}
	return nil
}
