package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/Veraticus/humanizer/internal/model"
)

// MaxMatchesPerRule bounds how many occurrences a single rule may report.
const MaxMatchesPerRule = 50

// maxCachedPatterns bounds the compiled regex cache.
const maxCachedPatterns = 1024

// ErrInvalidPattern indicates a rule pattern that cannot be evaluated.
var ErrInvalidPattern = errors.New("invalid pattern")

// regexCache holds compiled case-insensitive regexes keyed by source pattern.
type regexCache struct {
	compiled map[string]*regexp.Regexp
	mu       sync.RWMutex
}

var compiledPatterns = &regexCache{compiled: make(map[string]*regexp.Regexp)}

func (c *regexCache) get(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.compiled[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.compiled) >= maxCachedPatterns {
		c.compiled = make(map[string]*regexp.Regexp)
	}
	c.compiled[pattern] = re
	c.mu.Unlock()

	return re, nil
}

// CompileRegex compiles a rule pattern with the same flags the matcher uses.
func CompileRegex(pattern string) (*regexp.Regexp, error) {
	re, err := compiledPatterns.get(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

// MatchRule finds every occurrence of rule in text, up to MaxMatchesPerRule.
// Rules whose type needs an external model return no matches and no error.
func MatchRule(text string, rule Rule) ([]Match, error) {
	if text == "" || rule.Pattern == "" {
		return nil, nil
	}

	var spans []model.Location
	switch rule.PatternType {
	case model.PatternTypeRegex:
		re, err := CompileRegex(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		spans = regexSpans(re, text)
	case model.PatternTypeExact:
		spans = exactSpans(text, rule.Pattern)
	case model.PatternTypeSemantic, model.PatternTypeAIDetection:
		return nil, nil
	default:
		return nil, fmt.Errorf("rule %s: %w: unknown pattern type %q", rule.ID, ErrInvalidPattern, rule.PatternType)
	}

	if len(spans) == 0 {
		return nil, nil
	}

	severity := rule.EffectiveSeverity()
	matches := make([]Match, 0, len(spans))
	for _, loc := range spans {
		matches = append(matches, Match{
			RuleID:             rule.ID,
			RuleName:           rule.Name,
			Category:           rule.Category,
			Severity:           severity,
			MatchedText:        text[loc.Start:loc.End],
			ReplacementOptions: rule.ReplacementOptions,
			Location:           loc,
		})
	}

	return matches, nil
}

// regexSpans collects non-empty leftmost matches in scan order.
// Empty matches still count against FindAllStringIndex's limit, so the
// limit is widened until enough non-empty spans are found or the text is
// exhausted. RE2 keeps each pass linear in the input.
func regexSpans(re *regexp.Regexp, text string) []model.Location {
	limit := MaxMatchesPerRule
	for {
		found := re.FindAllStringIndex(text, limit)
		spans := make([]model.Location, 0, len(found))
		for _, idx := range found {
			if idx[1] <= idx[0] {
				continue
			}
			spans = append(spans, model.Location{Start: idx[0], End: idx[1]})
			if len(spans) == MaxMatchesPerRule {
				return spans
			}
		}
		if len(found) < limit {
			return spans
		}
		limit *= 2
	}
}

// exactSpans finds case-insensitive occurrences of pattern, restarting one
// character after each hit so overlapping occurrences are all reported.
func exactSpans(text, pattern string) []model.Location {
	first, _ := utf8.DecodeRuneInString(pattern)

	var spans []model.Location
	for i := 0; i < len(text) && len(spans) < MaxMatchesPerRule; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if equalFoldRune(r, first) {
			if n, ok := foldPrefix(text[i:], pattern); ok {
				spans = append(spans, model.Location{Start: i, End: i + n})
			}
		}
		i += size
	}
	return spans
}

// foldPrefix reports whether s starts with prefix under simple case folding,
// returning the number of bytes of s consumed.
func foldPrefix(s, prefix string) (int, bool) {
	consumed := 0
	for _, pr := range prefix {
		if consumed >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[consumed:])
		if !equalFoldRune(sr, pr) {
			return 0, false
		}
		consumed += size
	}
	return consumed, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}
