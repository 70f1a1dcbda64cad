package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeRules(t *testing.T) {
	global := []Rule{exactRule("g1", "delve"), exactRule("g2", "tapestry")}

	override := exactRule("t1", "delve into")
	override.TeamID = "acme"
	override.OverridesID = "g1"

	disabled := exactRule("t2", "tapestry")
	disabled.TeamID = "acme"
	disabled.OverridesID = "g2"
	disabled.IsActive = false

	custom := exactRule("t3", "synergy")
	custom.TeamID = "acme"

	dangling := exactRule("t4", "leverage")
	dangling.TeamID = "acme"
	dangling.OverridesID = "missing"

	tests := []struct {
		name   string
		global []Rule
		team   []Rule
		want   []string
	}{
		{
			name:   "no team rules",
			global: global,
			want:   []string{"g1", "g2"},
		},
		{
			name:   "override replaces in place",
			global: global,
			team:   []Rule{override},
			want:   []string{"t1", "g2"},
		},
		{
			name:   "custom rules are appended",
			global: global,
			team:   []Rule{custom, override},
			want:   []string{"t1", "g2", "t3"},
		},
		{
			name:   "last override wins",
			global: global,
			team:   []Rule{override, func() Rule { r := override; r.ID = "t1b"; return r }()},
			want:   []string{"t1b", "g2"},
		},
		{
			name:   "override of unknown rule is kept as custom",
			global: global,
			team:   []Rule{dangling},
			want:   []string{"g1", "g2", "t4"},
		},
		{
			name:   "override can deactivate a global rule",
			global: global,
			team:   []Rule{disabled},
			want:   []string{"g1", "t2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergedIDs(MergeRules(tt.global, tt.team)))
		})
	}

	// The global slice must not be modified.
	assert.Equal(t, []string{"g1", "g2"}, mergedIDs(global))
}

func TestMergeRules_DisabledOverrideSuppressesMatches(t *testing.T) {
	disabled := exactRule("t2", "tapestry")
	disabled.OverridesID = "g2"
	disabled.IsActive = false

	rules := MergeRules([]Rule{exactRule("g2", "tapestry")}, []Rule{disabled})
	assert.Equal(t, 0, Detect("a rich tapestry", rules).TotalMatches)
}

func mergedIDs(rules []Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.ID)
	}
	return out
}
