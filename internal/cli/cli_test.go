package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gomarkov/pkg/markov"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Execute(&out, args)
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const swapPuzzle = `
alphabet: [a, b]
tests:
  - {input: ab, expected: ba}
max_steps: 100
max_len: 100
min_lines: 1
max_lines: 1
ceiling: 1000
`

func TestSearchCommand(t *testing.T) {
	cfg := writeFile(t, "swap.yaml", swapPuzzle)

	out, err := run(t, "search", "-c", cfg, "--quiet", "--stats", "--metrics-exporter", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Found!! lines=1 idx=100\nab:ba\n")
	assert.Contains(t, out, "candidates=101 pruned=10 evaluated=91")
}

func TestSearchCommand_ShowsCandidates(t *testing.T) {
	cfg := writeFile(t, "swap.yaml", swapPuzzle)

	out, err := run(t, "search", "-c", cfg, "--interval", "0", "--metrics-exporter", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "Trying lines=1 idx=")
	assert.Contains(t, out, "Found!! lines=1 idx=100")
}

func TestSearchCommand_Exhausted(t *testing.T) {
	cfg := writeFile(t, "swap.yaml", swapPuzzle)

	out, err := run(t, "search", "-c", cfg, "-q", "--ceiling", "50", "--metrics-exporter", "none")
	assert.ErrorIs(t, err, markov.ErrExhausted)
	assert.Contains(t, out, "Not found")
}

func TestSearchCommand_InvalidFlags(t *testing.T) {
	_, err := run(t, "search", "--lines", "0")
	assert.ErrorIs(t, err, markov.ErrInvalidConfig)

	_, err = run(t, "search", "--log-level", "loud")
	assert.Error(t, err)
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "decode", "-n", "3", "3", "5784956")
	require.NoError(t, err)
	assert.Equal(t,
		"# lines=3 idx=3 prune=no-op\n:AB\n:\n:\n"+
			"# lines=3 idx=5784956 prune=none\nCB:BC\nCA:AC\nBA:AB\n",
		out)

	_, err = run(t, "decode", "minus-one")
	assert.Error(t, err)
}

func TestDecodeCommand_AlphabetOverride(t *testing.T) {
	out, err := run(t, "decode", "--alphabet", "a,b", "-n", "1", "100")
	require.NoError(t, err)
	assert.Equal(t, "# lines=1 idx=100 prune=none\nab:ba\n", out)
}

func TestEvalCommand_Tests(t *testing.T) {
	out, err := run(t, "eval", "-r", "CB:BC", "-r", "CA:AC", "-r", "BA:AB")
	require.NoError(t, err)
	assert.Contains(t, out, "ok   BCABBA -> AABBBC (want AABBBC)")

	out, err = run(t, "eval", "-r", "CB:BC")
	assert.ErrorIs(t, err, ErrTestsFailed)
	assert.Contains(t, out, "FAIL CAB -> CAB (want ABC)")
}

func TestEvalCommand_Inputs(t *testing.T) {
	prg := writeFile(t, "sort.mk", "CB:BC\nCA:AC\nBA:AB\n")

	out, err := run(t, "eval", "-f", prg, "CAB", "BCABBA")
	require.NoError(t, err)
	assert.Equal(t, "CAB -> ABC\nBCABBA -> AABBBC\n", out)

	out, err = run(t, "eval", "-f", prg, "--trace", "CAB")
	require.NoError(t, err)
	assert.Equal(t, "   0  CAB\n   1  ACB\n   2  ABC\n", out)

	out, err = run(t, "eval", "-r", ":AB", "--max-len", "10", "x")
	require.NoError(t, err)
	assert.Equal(t, "x -> error: length limit exceeded\n", out)
}

func TestEvalCommand_ProgramErrors(t *testing.T) {
	_, err := run(t, "eval")
	assert.Error(t, err)

	_, err = run(t, "eval", "-r", "AB:BA", "-f", "prog.mk")
	assert.Error(t, err)

	_, err = run(t, "eval", "-r", "nonsense")
	assert.ErrorIs(t, err, markov.ErrInvalidRule)
}
