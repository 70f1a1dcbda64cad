// Package rulepack provides the built-in AI-phrasing rules and reads and
// writes rule files.
package rulepack

import "github.com/Veraticus/humanizer/internal/model"

// BuiltinPrefix marks ids of rules shipped with the application.
const BuiltinPrefix = "builtin-"

// Default returns the built-in rule set.
func Default() []model.PatternRule {
	rules := []model.PatternRule{
		// Vocabulary that language models overuse
		{
			ID:                 "delve",
			Name:               "Delve",
			Description:        "One of the most recognizable model-favored verbs.",
			Category:           model.CategoryWordVariety,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\bdelv(e|es|ed|ing)\b`,
			ReplacementOptions: []string{"explore", "examine", "dig into"},
			Severity:           model.SeverityHigh,
		},
		{
			ID:                 "tapestry",
			Name:               "Tapestry",
			Description:        "Figurative 'rich tapestry' filler.",
			Category:           model.CategoryWordVariety,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\b(rich |vibrant |intricate )?tapestry\b`,
			ReplacementOptions: []string{"mix", "range"},
			Severity:           model.SeverityHigh,
		},
		{
			ID:                 "testament",
			Name:               "A testament to",
			Category:           model.CategoryPhraseReplacement,
			PatternType:        model.PatternTypeExact,
			Pattern:            "a testament to",
			ReplacementOptions: []string{"proof of", "evidence of"},
			Severity:           model.SeverityHigh,
		},
		{
			ID:                 "realm",
			Name:               "In the realm of",
			Category:           model.CategoryPhraseReplacement,
			PatternType:        model.PatternTypeExact,
			Pattern:            "in the realm of",
			ReplacementOptions: []string{"in", "within"},
			Severity:           model.SeverityMedium,
		},
		{
			ID:                 "landscape",
			Name:               "Ever-evolving landscape",
			Category:           model.CategoryPhraseReplacement,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\bever[- ](evolving|changing) landscape\b`,
			ReplacementOptions: []string{"field", "market"},
			Severity:           model.SeverityHigh,
		},
		{
			ID:                 "leverage",
			Name:               "Leverage",
			Category:           model.CategoryWordVariety,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\bleverag(e|es|ed|ing)\b`,
			ReplacementOptions: []string{"use"},
			Severity:           model.SeverityLow,
		},
		{
			ID:                 "seamless",
			Name:               "Seamless / seamlessly",
			Category:           model.CategoryWordVariety,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\bseamless(ly)?\b`,
			ReplacementOptions: []string{"smooth", "easy"},
			Severity:           model.SeverityLow,
		},
		{
			ID:                 "game-changer",
			Name:               "Game-changer",
			Category:           model.CategoryToneAdjustment,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\bgame[- ]chang(er|ing)\b`,
			ReplacementOptions: []string{"major shift", "big improvement"},
			Severity:           model.SeverityMedium,
		},
		{
			ID:                 "unlock-potential",
			Name:               "Unlock the potential",
			Category:           model.CategoryToneAdjustment,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\bunlock(ing)? (the|its|your) (full )?potential\b`,
			ReplacementOptions: []string{"get more out of it"},
			Severity:           model.SeverityMedium,
		},

		// Openers and filler phrases
		{
			ID:          "fast-paced-world",
			Name:        "In today's fast-paced world",
			Description: "Stock opener; usually safe to delete.",
			Category:    model.CategoryPhraseReplacement,
			PatternType: model.PatternTypeRegex,
			Pattern:     `\bin today's (fast-paced|digital|modern|ever-changing) (world|age|landscape),?\s*`,
			Severity:    model.SeverityHigh,
		},
		{
			ID:          "important-to-note",
			Name:        "It's important to note",
			Category:    model.CategoryPhraseReplacement,
			PatternType: model.PatternTypeRegex,
			Pattern:     `\bit(’|')?s (important|worth) (to note|noting) that\s*`,
			Severity:    model.SeverityMedium,
		},
		{
			ID:          "in-conclusion",
			Name:        "In conclusion",
			Category:    model.CategoryParagraphFlow,
			PatternType: model.PatternTypeRegex,
			Pattern:     `\bin (conclusion|summary),\s*`,
			Severity:    model.SeverityMedium,
		},
		{
			ID:                 "dive-into",
			Name:               "Let's dive in",
			Category:           model.CategoryToneAdjustment,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\blet(’|')?s dive (in|into|deeper)\b`,
			ReplacementOptions: []string{"here's how it works"},
			Severity:           model.SeverityMedium,
		},
		{
			ID:          "navigate-complexities",
			Name:        "Navigate the complexities",
			Category:    model.CategoryPhraseReplacement,
			PatternType: model.PatternTypeRegex,
			Pattern:     `\bnavigat(e|ing) the (complexities|intricacies)\b`,
			ReplacementOptions: []string{
				"handle the details",
				"work through the details",
			},
			Severity: model.SeverityMedium,
		},

		// Transitions
		{
			ID:                 "moreover",
			Name:               "Moreover / Furthermore",
			Category:           model.CategoryTransitionWords,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\b(moreover|furthermore|additionally),`,
			ReplacementOptions: []string{"Also,"},
			Severity:           model.SeverityLow,
		},
		{
			ID:                 "however-opener",
			Name:               "That being said",
			Category:           model.CategoryTransitionWords,
			PatternType:        model.PatternTypeRegex,
			Pattern:            `\b(that being said|having said that|with that in mind),`,
			ReplacementOptions: []string{"Still,", "But"},
			Severity:           model.SeverityMedium,
		},

		// Structure and punctuation
		{
			ID:          "not-just-but",
			Name:        "Not just X, but Y",
			Category:    model.CategorySentenceStructure,
			PatternType: model.PatternTypeRegex,
			Pattern:     `\bnot (just|only) [^,.;]{1,40}, but( also)?\b`,
			Severity:    model.SeverityMedium,
		},
		{
			ID:                 "em-dash",
			Name:               "Em dash",
			Description:        "Heavy em dash use reads as generated text.",
			Category:           model.CategoryPunctuation,
			PatternType:        model.PatternTypeExact,
			Pattern:            "—",
			ReplacementOptions: []string{", ", ". "},
			Severity:           model.SeverityLow,
		},
		{
			ID:                 "semicolon-however",
			Name:               "; however,",
			Category:           model.CategoryPunctuation,
			PatternType:        model.PatternTypeExact,
			Pattern:            "; however,",
			ReplacementOptions: []string{". However,", ", but"},
			Severity:           model.SeverityLow,
		},
		{
			ID:          "rhetorical-question",
			Name:        "But what does this mean?",
			Category:    model.CategorySentenceStructure,
			PatternType: model.PatternTypeRegex,
			Pattern:     `\b(but )?what does (this|that) (really )?mean( for you)?\?\s*`,
			Severity:    model.SeverityMedium,
		},

		// Reserved for external analysis
		{
			ID:          "uniform-rhythm",
			Name:        "Uniform sentence rhythm",
			Description: "Flags paragraphs whose sentences all have similar length.",
			Category:    model.CategoryParagraphFlow,
			PatternType: model.PatternTypeSemantic,
			Pattern:     "Identify paragraphs where every sentence has nearly the same length and structure.",
			Severity:    model.SeverityLow,
		},
		{
			ID:          "model-classifier",
			Name:        "Model classifier",
			Category:    model.CategoryCustom,
			PatternType: model.PatternTypeAIDetection,
			Pattern:     "classifier",
			Severity:    model.SeverityMedium,
		},
	}

	for i := range rules {
		rules[i].ID = BuiltinPrefix + rules[i].ID
		rules[i].IsActive = true
	}

	return rules
}
