package markov

import (
	"fmt"
	"strings"
)

// RuleKind distinguishes the two variants of a rewrite rule.
type RuleKind uint8

const (
	// Continue rules rewrite the buffer and let evaluation proceed.
	Continue RuleKind = iota

	// Halt rules rewrite the buffer and stop evaluation immediately.
	Halt
)

// String returns the name of the rule kind.
func (k RuleKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Halt:
		return "halt"
	default:
		return fmt.Sprintf("RuleKind(%d)", uint8(k))
	}
}

// separator returns the text placed between pattern and replacement
// when a rule of this kind is rendered.
func (k RuleKind) separator() string {
	switch k {
	case Halt:
		return "::"
	default:
		return ":"
	}
}

// Rule is a single rewrite rule: replace the leftmost occurrence of
// Pattern with Replacement. Rules are plain values and never mutated.
type Rule struct {
	Kind        RuleKind
	Pattern     string
	Replacement string
}

// NewContinue creates a Continue rule.
func NewContinue(pattern, replacement string) Rule {
	return Rule{Kind: Continue, Pattern: pattern, Replacement: replacement}
}

// NewHalt creates a Halt rule.
func NewHalt(pattern, replacement string) Rule {
	return Rule{Kind: Halt, Pattern: pattern, Replacement: replacement}
}

// IsHalt reports whether applying r terminates evaluation.
func (r Rule) IsHalt() bool {
	return r.Kind == Halt
}

// Apply rewrites the leftmost occurrence of the rule's pattern in line.
// The boolean is false when the pattern does not occur, in which case
// line is returned unchanged. An empty pattern matches at offset 0.
func (r Rule) Apply(line string) (string, bool) {
	i := strings.Index(line, r.Pattern)
	if i < 0 {
		return line, false
	}
	return line[:i] + r.Replacement + line[i+len(r.Pattern):], true
}

// String renders the rule as "pattern:replacement" for Continue rules
// and "pattern::replacement" for Halt rules.
func (r Rule) String() string {
	return r.Pattern + r.Kind.separator() + r.Replacement
}

// ParseRule parses the textual form produced by Rule.String.
//
// The first ':' splits pattern from replacement; a second ':' directly
// after it marks a Halt rule. Patterns therefore cannot contain ':'.
func ParseRule(s string) (Rule, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return Rule{}, fmt.Errorf("%w: missing ':' in %q", ErrInvalidRule, s)
	}
	pattern, rest := s[:i], s[i+1:]
	if strings.HasPrefix(rest, ":") {
		return NewHalt(pattern, rest[1:]), nil
	}
	return NewContinue(pattern, rest), nil
}
