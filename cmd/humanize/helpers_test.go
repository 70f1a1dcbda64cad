package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/humanizer/internal/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRulesYAML = `version: 1
rules:
  - id: delve
    name: Delve
    category: word_variety
    pattern_type: exact
    pattern: delve
    severity: high
    replacement_options: [explore, examine]
  - id: moreover
    name: Moreover
    category: transition_words
    pattern_type: regex
    pattern: '\bmoreover,\s*'
    severity: low
`

// setupConfig resets global configuration to a fresh database in a temp dir.
func setupConfig(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	viper.Set("database.path", filepath.Join(dir, "humanize.db"))
	viper.Set("detection.workers", 2)
	return dir
}

// writeTestFile creates a file under dir and returns its path.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs cmd with args and stdin and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.md", "alpha")
	b := writeTestFile(t, dir, "docs/b.md", "beta")
	writeTestFile(t, dir, "docs/deep/c.md", "gamma")
	writeTestFile(t, dir, "docs/notes.txt", "skip")

	t.Run("stdin by default", func(t *testing.T) {
		inputs, err := readInputs(strings.NewReader("from stdin"), nil)
		require.NoError(t, err)
		require.Len(t, inputs, 1)
		assert.Equal(t, stdinSource, inputs[0].Source)
		assert.Equal(t, "from stdin", inputs[0].Text)
	})

	t.Run("plain files", func(t *testing.T) {
		inputs, err := readInputs(nil, []string{a, b})
		require.NoError(t, err)
		require.Len(t, inputs, 2)
		assert.Equal(t, "alpha", inputs[0].Text)
		assert.Equal(t, "beta", inputs[1].Text)
	})

	t.Run("recursive glob", func(t *testing.T) {
		inputs, err := readInputs(nil, []string{filepath.Join(dir, "docs", "**", "*.md")})
		require.NoError(t, err)
		var texts []string
		for _, in := range inputs {
			texts = append(texts, in.Text)
		}
		assert.ElementsMatch(t, []string{"beta", "gamma"}, texts)
	})

	t.Run("duplicates are read once", func(t *testing.T) {
		inputs, err := readInputs(nil, []string{a, filepath.Join(dir, "*.md")})
		require.NoError(t, err)
		assert.Len(t, inputs, 1)
	})

	t.Run("no matches", func(t *testing.T) {
		_, err := readInputs(nil, []string{filepath.Join(dir, "*.rst")})
		assert.ErrorIs(t, err, common.ErrNoInput)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := readInputs(nil, []string{dir})
		assert.ErrorIs(t, err, common.ErrNoInput)
	})
}

func TestLoadRules(t *testing.T) {
	dir := setupConfig(t)
	ctx := context.Background()

	t.Run("seeds built-in rules into an empty database", func(t *testing.T) {
		cfg, err := loadConfig()
		require.NoError(t, err)

		store, err := initStorage(ctx, cfg)
		require.NoError(t, err)
		defer closeStorage(store)

		rules, err := loadRules(ctx, cfg, store)
		require.NoError(t, err)
		assert.NotEmpty(t, rules)
	})

	t.Run("rules file wins", func(t *testing.T) {
		viper.Set("detection.rules_file", writeTestFile(t, dir, "rules.yaml", testRulesYAML))
		defer viper.Set("detection.rules_file", "")

		cfg, err := loadConfig()
		require.NoError(t, err)

		rules, err := loadRules(ctx, cfg, nil)
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "delve", rules[0].ID)
	})
}

func TestWriteFile_KeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, writeFile(path, "new"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}
