package markov

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRule is returned when rule text cannot be parsed.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrStepLimit is returned when evaluation runs out of steps before
	// reaching a fixed point or a Halt rule.
	ErrStepLimit = errors.New("step limit exceeded")

	// ErrLengthLimit is returned when the buffer grows past the length bound.
	ErrLengthLimit = errors.New("length limit exceeded")
)

// Program is an ordered list of rules. On every step the first rule
// whose pattern occurs in the buffer fires.
type Program []Rule

// Lines returns the number of rules in the program.
func (p Program) Lines() int {
	return len(p)
}

// Equal reports whether p and other contain the same rules in the same order.
func (p Program) Equal(other Program) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the program one rule per line, each line terminated
// by a newline.
func (p Program) String() string {
	var sb strings.Builder
	for _, r := range p {
		sb.WriteString(r.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseProgram parses one rule per non-blank line. Lines starting with
// '#' are ignored.
func ParseProgram(text string) (Program, error) {
	var prg Program
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r, err := ParseRule(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		prg = append(prg, r)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(prg) == 0 {
		return nil, fmt.Errorf("%w: empty program", ErrInvalidRule)
	}
	return prg, nil
}
