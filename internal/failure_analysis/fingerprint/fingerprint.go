// Package fingerprint turns a failure record into a (message, code location) key.
// Every function here is pure and total: absent fields degrade to fixed fallback strings.
package fingerprint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/patterns"
)

const (
	unknownTest          = "Unknown test"
	noStackTrace         = "(No stack trace)"
	noTestFileInTrace    = "(No test file location in trace)"
	unhandledErrorPrefix = "unhandled error"
)

// specFrame finds the first "at ..." frame pointing into a *.spec.<ext> file.
var specFrame = regexp.MustCompile(`at .*?((?:[/\\A-Za-z0-9_-]+\.)+spec\.(?:ts|js|tsx|jsx):\d+:\d+)`)

type Generator struct {
	rules *patterns.RuleSet
}

// New returns a generator over rules; nil means patterns.Default().
func New(rules *patterns.RuleSet) *Generator {
	if rules == nil {
		rules = patterns.Default()
	}
	return &Generator{rules: rules}
}

func (g *Generator) Generate(r domain.FailureRecord) domain.Fingerprint {
	return domain.Fingerprint{
		MessageKey:      g.MessageKey(r),
		CodeLocationKey: CodeLocationKey(r.Trace),
	}
}

func (g *Generator) MessageKey(r domain.FailureRecord) string {
	if r.Message == "" {
		return fmt.Sprintf("(No message found in: %s)", testName(r))
	}

	if rule, ok := g.rules.MatchSpecific(r.Message); ok {
		return strings.TrimSpace(firstLine(rule.ReplaceFirst(r.Message)))
	}

	key := firstNonBlankLine(r.Message)
	if key == "" || strings.HasPrefix(strings.ToLower(key), unhandledErrorPrefix) {
		return fmt.Sprintf("Unhandled Error in Test: %s", testName(r))
	}

	return g.rules.Normalize(key)
}

// CodeLocationKey returns the spec file (directory stripped) with line and column.
func CodeLocationKey(trace string) string {
	if trace == "" {
		return noStackTrace
	}
	m := specFrame.FindStringSubmatch(trace)
	if m == nil {
		return noTestFileInTrace
	}
	return baseName(m[1])
}

func testName(r domain.FailureRecord) string {
	if r.Name != "" {
		return r.Name
	}
	return unknownTest
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func firstNonBlankLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
