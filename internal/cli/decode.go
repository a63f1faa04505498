package cli

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gitrdm/gomarkov/pkg/markov"
)

func newDecodeCommand(root *rootOptions) *cobra.Command {
	var lines int

	cmd := &cobra.Command{
		Use:   "decode INDEX...",
		Short: "Print the program numbered by each index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("lines") {
				lines = cfg.MinLines
			}
			if lines < 1 {
				return errors.Errorf("lines must be positive, got %d", lines)
			}

			enc := markov.NewEncoder(cfg.Alphabet, markov.NewCache(cfg.CacheLimit))
			out := cmd.OutOrStdout()
			for _, arg := range args {
				idx, err := strconv.ParseUint(arg, 10, 64)
				if err != nil {
					return errors.Wrapf(err, "parse index %q", arg)
				}
				prg := enc.Program(lines, idx)
				fmt.Fprintf(out, "# lines=%d idx=%d prune=%s\n", lines, idx, markov.Check(prg))
				fmt.Fprint(out, prg)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Program length (defaults to the config's min_lines)")
	return cmd
}
