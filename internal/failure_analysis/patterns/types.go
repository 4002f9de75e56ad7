package patterns

import (
	"fmt"
	"regexp"
)

// Rule pairs a compiled match predicate with a canonicalizing template.
// Replacement uses regexp template syntax (${1}, ${2}) for captured groups.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

func NewRule(name, expr, replacement string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("patterns: rule %q: %w", name, err)
	}
	return Rule{Name: name, Pattern: re, Replacement: replacement}, nil
}

func MustRule(name, expr, replacement string) Rule {
	r, err := NewRule(name, expr, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rule) Match(s string) bool {
	return r.Pattern.MatchString(s)
}

// ReplaceFirst rewrites only the leftmost match and keeps the surrounding text.
func (r Rule) ReplaceFirst(s string) string {
	loc := r.Pattern.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	out := make([]byte, 0, len(s)+len(r.Replacement))
	out = append(out, s[:loc[0]]...)
	out = r.Pattern.ExpandString(out, r.Replacement, s, loc)
	out = append(out, s[loc[1]:]...)
	return string(out)
}

func (r Rule) ReplaceAll(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}
