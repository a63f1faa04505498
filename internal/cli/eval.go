package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gomarkov/pkg/markov"
)

// ErrTestsFailed is returned by eval when a config test case does not pass.
var ErrTestsFailed = errors.New("test cases failed")

func newEvalCommand(root *rootOptions) *cobra.Command {
	var (
		programFile string
		rules       []string
		trace       bool
	)

	cmd := &cobra.Command{
		Use:   "eval [INPUT...]",
		Short: "Run a program on inputs, or on the configured test cases",
		Long: `Runs a rewrite program given with --rule or --file. Rules use the
form "pattern:replacement" (continue) or "pattern::replacement" (halt).
Without inputs the program is checked against the configured tests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			prg, err := readProgram(programFile, rules)
			if err != nil {
				return err
			}
			if markov.Prune(prg) {
				root.logger.Warn("program would be pruned", zap.Stringer("reason", markov.Check(prg)))
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, in := range args {
					evalOne(out, prg, in, cfg, trace)
				}
				return nil
			}

			failed := 0
			for _, tc := range cfg.Tests {
				got, err := prg.Eval(tc.Input, cfg.MaxSteps, cfg.MaxLen)
				status := "ok"
				switch {
				case err != nil:
					status, got = "FAIL", err.Error()
					failed++
				case got != tc.Expected:
					status = "FAIL"
					failed++
				}
				fmt.Fprintf(out, "%-4s %s -> %s (want %s)\n", status, tc.Input, got, tc.Expected)
			}
			if failed > 0 {
				return errors.Wrapf(ErrTestsFailed, "%d of %d", failed, len(cfg.Tests))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&programFile, "file", "f", "", "Read the program from this file, one rule per line")
	f.StringArrayVarP(&rules, "rule", "r", nil, "Program rule; repeat for each line")
	f.BoolVarP(&trace, "trace", "t", false, "Print every intermediate buffer")
	return cmd
}

func readProgram(path string, rules []string) (markov.Program, error) {
	switch {
	case path != "" && len(rules) > 0:
		return nil, errors.New("use either --file or --rule, not both")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read program")
		}
		return markov.ParseProgram(string(data))
	case len(rules) > 0:
		return markov.ParseProgram(strings.Join(rules, "\n"))
	default:
		return nil, errors.New("no program given; use --file or --rule")
	}
}

func evalOne(out io.Writer, prg markov.Program, input string, cfg *markov.Config, trace bool) {
	if !trace {
		got, err := prg.Eval(input, cfg.MaxSteps, cfg.MaxLen)
		if err != nil {
			fmt.Fprintf(out, "%s -> error: %v\n", input, err)
			return
		}
		fmt.Fprintf(out, "%s -> %s\n", input, got)
		return
	}

	states, err := prg.Trace(input, cfg.MaxSteps, cfg.MaxLen)
	for i, s := range states {
		fmt.Fprintf(out, "%4d  %s\n", i, s)
	}
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
	}
}
