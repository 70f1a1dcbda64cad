package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestSelections(t *testing.T) {
	delve := exactRule("delve", "delve")
	delve.ReplacementOptions = []string{"explore", "examine"}
	moreover := regexRule("moreover", `moreover,\s*`)
	// No options: only removed under StrategyDeleteBare.
	deep := exactRule("deep-dive", "delve deeper")

	text := "Delve in. Moreover, delve deeper."
	result := Detect(text, []Rule{delve, moreover, deep})

	t.Run("first option", func(t *testing.T) {
		selections := SuggestSelections(result, StrategyFirstOption)
		require.Len(t, selections, 2)
		assert.Equal(t, "Explore", selections[0].Replacement)
		assert.Equal(t, "explore", selections[1].Replacement)
		assert.NoError(t, ValidateSelections(selections, len(text)))
	})

	t.Run("delete bare", func(t *testing.T) {
		selections := SuggestSelections(result, StrategyDeleteBare)
		require.Len(t, selections, 3)
		assert.Equal(t, "moreover", selections[1].Match.RuleID)
		assert.Empty(t, selections[1].Replacement)
	})
}

func TestAutoFix(t *testing.T) {
	delve := exactRule("delve", "delve")
	delve.ReplacementOptions = []string{"dig"}
	filler := regexRule("filler", `it is important to note that\s*`)

	text := "It is important to note that we delve."
	result := Detect(text, []Rule{delve, filler})

	fixed, applied := AutoFix(text, result, StrategyDeleteBare)
	assert.Equal(t, "we dig.", fixed)
	assert.Len(t, applied, 2)

	fixed, applied = AutoFix(text, result, StrategyFirstOption)
	assert.Equal(t, "It is important to note that we dig.", fixed)
	assert.Len(t, applied, 1)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyFirstOption, s)

	s, err = ParseStrategy("delete-bare")
	require.NoError(t, err)
	assert.Equal(t, StrategyDeleteBare, s)

	_, err = ParseStrategy("random")
	assert.Error(t, err)
}

func TestPreserveCase(t *testing.T) {
	assert.Equal(t, "Explore", preserveCase("Delve", "explore"))
	assert.Equal(t, "explore", preserveCase("delve", "explore"))
	assert.Equal(t, "", preserveCase("Delve", ""))
}
