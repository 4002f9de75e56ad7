package patterns

// RuleSet is an immutable two-tier rule table.
type RuleSet struct {
	specific []Rule
	generic  []Rule
}

var defaultSet = New(specificRules, genericRules)

// Default returns the built-in rule set. Rules are compiled once at init.
func Default() *RuleSet { return defaultSet }

func New(specific, generic []Rule) *RuleSet {
	return &RuleSet{
		specific: append([]Rule(nil), specific...),
		generic:  append([]Rule(nil), generic...),
	}
}

func (rs *RuleSet) Specific() []Rule { return append([]Rule(nil), rs.specific...) }

func (rs *RuleSet) Generic() []Rule { return append([]Rule(nil), rs.generic...) }

// MatchSpecific returns the first specific rule matching msg.
func (rs *RuleSet) MatchSpecific(msg string) (Rule, bool) {
	for _, r := range rs.specific {
		if r.Match(msg) {
			return r, true
		}
	}
	return Rule{}, false
}

// Normalize applies every generic rule to s in order.
func (rs *RuleSet) Normalize(s string) string {
	for _, r := range rs.generic {
		s = r.ReplaceAll(s)
	}
	return s
}
