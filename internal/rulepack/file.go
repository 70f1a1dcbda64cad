package rulepack

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Veraticus/humanizer/internal/model"
	"github.com/Veraticus/humanizer/internal/pattern"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// FileVersion is the rule file format version written by Write.
const FileVersion = 1

// File is the on-disk layout of a rule file.
type File struct {
	Version int        `yaml:"version"`
	Rules   []fileRule `yaml:"rules"`
}

// fileRule mirrors model.PatternRule but lets is_active be omitted,
// in which case the rule is active.
type fileRule struct {
	Active             *bool    `yaml:"is_active,omitempty"`
	ID                 string   `yaml:"id,omitempty"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description,omitempty"`
	Category           string   `yaml:"category"`
	PatternType        string   `yaml:"pattern_type"`
	Pattern            string   `yaml:"pattern"`
	Severity           string   `yaml:"severity,omitempty"`
	OverridesID        string   `yaml:"overrides_id,omitempty"`
	ReplacementOptions []string `yaml:"replacement_options,omitempty"`
}

// Load reads and validates a rule file.
func Load(path string) ([]model.PatternRule, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied rule file
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rules, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// Decode parses rules from YAML. Missing ids are generated, missing
// severities default to medium, and every rule is validated.
func Decode(r io.Reader) ([]model.PatternRule, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return []model.PatternRule{}, nil
		}
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	if file.Version > FileVersion {
		return nil, fmt.Errorf("unsupported rule file version %d (max %d)", file.Version, FileVersion)
	}

	rules := make([]model.PatternRule, 0, len(file.Rules))
	seen := make(map[string]bool, len(file.Rules))
	for i, fr := range file.Rules {
		rule, err := fr.toModel()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, fr.Name, err)
		}
		if err := pattern.ValidateRule(&rule); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, fr.Name, err)
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("rule %d (%s): duplicate id %q", i+1, fr.Name, rule.ID)
		}
		seen[rule.ID] = true
		rules = append(rules, rule)
	}

	return rules, nil
}

func (fr fileRule) toModel() (model.PatternRule, error) {
	category, err := model.ParseCategory(fr.Category)
	if err != nil {
		return model.PatternRule{}, err
	}
	patternType, err := model.ParsePatternType(fr.PatternType)
	if err != nil {
		return model.PatternRule{}, err
	}
	severity, err := model.ParseSeverity(fr.Severity)
	if err != nil {
		return model.PatternRule{}, err
	}

	id := fr.ID
	if id == "" {
		id = ulid.Make().String()
	}
	active := true
	if fr.Active != nil {
		active = *fr.Active
	}

	return model.PatternRule{
		ID:                 id,
		Name:               fr.Name,
		Description:        fr.Description,
		Category:           category,
		PatternType:        patternType,
		Pattern:            fr.Pattern,
		Severity:           severity,
		OverridesID:        fr.OverridesID,
		ReplacementOptions: fr.ReplacementOptions,
		IsActive:           active,
	}, nil
}

// Encode writes rules as YAML.
func Encode(w io.Writer, rules []model.PatternRule) error {
	file := File{Version: FileVersion, Rules: make([]fileRule, 0, len(rules))}
	for _, r := range rules {
		active := r.IsActive
		file.Rules = append(file.Rules, fileRule{
			Active:             &active,
			ID:                 r.ID,
			Name:               r.Name,
			Description:        r.Description,
			Category:           string(r.Category),
			PatternType:        string(r.PatternType),
			Pattern:            r.Pattern,
			Severity:           string(r.EffectiveSeverity()),
			OverridesID:        r.OverridesID,
			ReplacementOptions: r.ReplacementOptions,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}
	return enc.Close()
}

// Write saves rules to path, creating parent directories as needed.
func Write(path string, rules []model.PatternRule) error {
	var buf bytes.Buffer
	if err := Encode(&buf, rules); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create rule directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}
	return nil
}
