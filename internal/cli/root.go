// Package cli implements the gomarkov command tree.
package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gomarkov/pkg/markov"
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	cfgFile  string
	logLevel string

	alphabet []string
	maxSteps int
	maxLen   int

	logger *zap.Logger
}

// NewRootCommand builds the command tree writing program output to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "gomarkov",
		Short:         "gomarkov - search for Markov rewrite programs that fit examples",
		Version:       markov.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "config", "c", "", "YAML config file (defaults to the ABC sorting puzzle)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringSliceVar(&opts.alphabet, "alphabet", nil, "Comma-separated alphabet words (overrides config)")
	pf.IntVar(&opts.maxSteps, "max-steps", 0, "Step bound per evaluation (overrides config)")
	pf.IntVar(&opts.maxLen, "max-len", 0, "Length bound per evaluation (overrides config)")

	root.AddCommand(newSearchCommand(opts))
	root.AddCommand(newDecodeCommand(opts))
	root.AddCommand(newEvalCommand(opts))
	return root
}

// Execute runs the command tree with args.
func Execute(out io.Writer, args []string) error {
	root := NewRootCommand(out)
	root.SetArgs(args)
	return root.Execute()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// loadConfig reads the config file, if any, and applies the shared
// flag overrides.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*markov.Config, error) {
	cfg := markov.DefaultConfig()
	if o.cfgFile != "" {
		loaded, err := markov.LoadConfig(o.cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("alphabet") {
		cfg.Alphabet = o.alphabet
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = o.maxSteps
	}
	if flags.Changed("max-len") {
		cfg.MaxLen = o.maxLen
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
