package markov

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleApply(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		in      string
		want    string
		applied bool
	}{
		{"leftmost occurrence", NewContinue("ab", "X"), "cabab", "cXab", true},
		{"no occurrence", NewContinue("zz", "X"), "abc", "abc", false},
		{"empty pattern prepends", NewContinue("", "X"), "abc", "Xabc", true},
		{"empty pattern on empty input", NewHalt("", "X"), "", "X", true},
		{"deletion", NewContinue("b", ""), "abc", "ac", true},
		{"whole buffer", NewHalt("abc", "cba"), "abc", "cba", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rule.Apply(tt.in)
			assert.Equal(t, tt.applied, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_FixedPoint(t *testing.T) {
	prg := Program{NewContinue("x", "y"), NewHalt("zz", "")}
	for _, in := range []string{"", "abc", "ABCABC", "z"} {
		got, err := prg.Eval(in, 10, 100)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}

func TestEval_Rewrites(t *testing.T) {
	sortABC := Program{NewContinue("CA", "AC"), NewContinue("BA", "AB"), NewContinue("CB", "BC")}
	tests := map[string]string{
		"ABC":    "ABC",
		"ACB":    "ABC",
		"CAB":    "ABC",
		"BCABBA": "AABBBC",
		"CCBBAA": "AABBCC",
	}
	for in, want := range tests {
		got, err := Evaluate(sortABC, in, 5000, 5000)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

// TestEval_HaltStopsImmediately checks that a Halt rule ends evaluation
// after its single rewrite even though Continue rules still apply.
func TestEval_HaltStopsImmediately(t *testing.T) {
	prg := Program{NewHalt("a", "b"), NewContinue("b", "c")}
	got, err := prg.Eval("aaa", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, "baa", got)

	// The Continue rule fires first until only the Halt rule applies.
	prg = Program{NewContinue("b", "c"), NewHalt("a", "b")}
	got, err = prg.Eval("abb", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, "bcc", got)
}

func TestEval_FirstRuleWins(t *testing.T) {
	prg := Program{NewContinue("b", "x"), NewContinue("a", "y")}
	got, err := prg.Eval("ab", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, "yx", got)
}

func TestEval_StepLimit(t *testing.T) {
	loop := Program{NewContinue("a", "b"), NewContinue("b", "a")}
	_, err := loop.Eval("a", 5000, 5000)
	assert.ErrorIs(t, err, ErrStepLimit)

	// A zero step budget fails before the first step.
	_, err = Program{NewContinue("x", "y")}.Eval("abc", 0, 100)
	assert.ErrorIs(t, err, ErrStepLimit)

	// Three rewrites need four steps: the fourth finds the fixed point.
	count := Program{NewContinue("a", "b")}
	_, err = count.Eval("aaa", 3, 100)
	assert.ErrorIs(t, err, ErrStepLimit)
	got, err := count.Eval("aaa", 4, 100)
	require.NoError(t, err)
	assert.Equal(t, "bbb", got)
}

func TestEval_LengthLimit(t *testing.T) {
	grow := Program{NewContinue("", "AB")}
	_, err := grow.Eval("", 5000, 5000)
	assert.ErrorIs(t, err, ErrLengthLimit)

	// The input itself is checked before the first step.
	_, err = Program{NewContinue("x", "y")}.Eval(strings.Repeat("a", 11), 100, 10)
	assert.ErrorIs(t, err, ErrLengthLimit)

	// A buffer exactly at the bound is allowed.
	got, err := Program{NewContinue("x", "y")}.Eval(strings.Repeat("a", 10), 100, 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

// TestEval_HaltResultIsNotLengthChecked checks that the buffer produced
// by a Halt rule is returned even when it exceeds the length bound.
func TestEval_HaltResultIsNotLengthChecked(t *testing.T) {
	got, err := Program{NewHalt("a", "aaaa")}.Eval("a", 10, 2)
	require.NoError(t, err)
	assert.Equal(t, "aaaa", got)
}

func TestTrace(t *testing.T) {
	prg := Program{NewContinue("ba", "ab"), NewHalt("c", "C")}
	states, err := prg.Trace("bac", 100, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"bac", "abc", "abC"}, states)

	states, err = Program{NewContinue("a", "b"), NewContinue("b", "a")}.Trace("a", 4, 100)
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, []string{"a", "b", "a", "b", "a"}, states)
}
