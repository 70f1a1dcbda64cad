package pattern

import (
	"testing"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateRule(t *testing.T) {
	tests := []struct {
		modify  func(*Rule)
		name    string
		wantErr bool
	}{
		{name: "valid exact rule", modify: func(*Rule) {}},
		{name: "valid regex rule", modify: func(r *Rule) {
			r.PatternType = model.PatternTypeRegex
			r.Pattern = `\bdelve(s|d)?\b`
		}},
		{name: "semantic rule without pattern", modify: func(r *Rule) {
			r.PatternType = model.PatternTypeSemantic
			r.Pattern = ""
		}},
		{name: "empty severity allowed", modify: func(r *Rule) { r.Severity = "" }},
		{name: "missing name", modify: func(r *Rule) { r.Name = "  " }, wantErr: true},
		{name: "bad category", modify: func(r *Rule) { r.Category = "style" }, wantErr: true},
		{name: "bad pattern type", modify: func(r *Rule) { r.PatternType = "glob" }, wantErr: true},
		{name: "bad severity", modify: func(r *Rule) { r.Severity = "critical" }, wantErr: true},
		{name: "exact rule without pattern", modify: func(r *Rule) { r.Pattern = "" }, wantErr: true},
		{name: "regex that does not compile", modify: func(r *Rule) {
			r.PatternType = model.PatternTypeRegex
			r.Pattern = "(unclosed"
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := exactRule("1", "delve")
			rule.Severity = model.SeverityLow
			tt.modify(&rule)

			err := ValidateRule(&rule)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRule)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateRule_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateRule(nil), ErrInvalidRule)
}
