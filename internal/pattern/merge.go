package pattern

// MergeRules resolves a team's rules against the global rule set.
// A team rule that names a global rule in OverridesID replaces it in place;
// when several team rules override the same global, the last one wins.
// Team rules without an override target are appended in order.
func MergeRules(global, team []Rule) []Rule {
	merged := make([]Rule, len(global))
	copy(merged, global)

	index := make(map[string]int, len(global))
	for i, rule := range merged {
		index[rule.ID] = i
	}

	for _, rule := range team {
		if rule.OverridesID != "" {
			if i, ok := index[rule.OverridesID]; ok {
				merged[i] = rule
				continue
			}
		}
		merged = append(merged, rule)
	}

	return merged
}
