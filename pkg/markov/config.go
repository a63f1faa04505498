package markov

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// TestCase is one input/expected-output example.
type TestCase struct {
	Input    string `yaml:"input"`
	Expected string `yaml:"expected"`
}

// Config describes one search run. The alphabet and line counts must not
// change while a search is running since the memo cache depends on them.
type Config struct {
	// Alphabet lists the words strings are built from. Order matters:
	// it fixes the digits of the string numbering.
	Alphabet []string `yaml:"alphabet"`

	// Tests must all pass for a program to match.
	Tests []TestCase `yaml:"tests"`

	// MaxSteps and MaxLen bound every single evaluation.
	MaxSteps int `yaml:"max_steps"`
	MaxLen   int `yaml:"max_len"`

	// MinLines..MaxLines is the inclusive range of program lengths tried
	// for every index.
	MinLines int `yaml:"min_lines"`
	MaxLines int `yaml:"max_lines"`

	// Start is the first index searched, Ceiling the exclusive bound.
	Start   uint64 `yaml:"start"`
	Ceiling uint64 `yaml:"ceiling"`

	// CacheLimit bounds the memoized indices; 0 selects DefaultCacheLimit.
	CacheLimit uint64 `yaml:"cache_limit"`
}

// DefaultConfig returns the sorting puzzle over the letters A, B and C:
// every input must come out with its letters in order.
func DefaultConfig() *Config {
	return &Config{
		Alphabet: []string{"AB", "BA", "AC", "CA", "BC", "CB"},
		Tests: []TestCase{
			{Input: "ABC", Expected: "ABC"},
			{Input: "ACB", Expected: "ABC"},
			{Input: "CAB", Expected: "ABC"},
			{Input: "BCABBA", Expected: "AABBBC"},
		},
		MaxSteps:   5000,
		MaxLen:     5000,
		MinLines:   3,
		MaxLines:   3,
		Start:      0,
		Ceiling:    100_000_000_000,
		CacheLimit: DefaultCacheLimit,
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg, err := decodeConfig(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML document on top of DefaultConfig and
// validates the result.
func ParseConfig(data []byte) (*Config, error) {
	return decodeConfig(bytes.NewReader(data))
}

func decodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for values the search cannot run with.
func (c *Config) Validate() error {
	if len(c.Alphabet) == 0 {
		return errors.Wrap(ErrInvalidConfig, "alphabet is empty")
	}
	seen := make(map[string]bool, len(c.Alphabet))
	for _, w := range c.Alphabet {
		if w == "" {
			return errors.Wrap(ErrInvalidConfig, "alphabet contains an empty word")
		}
		if seen[w] {
			return errors.Wrapf(ErrInvalidConfig, "alphabet word %q repeated", w)
		}
		seen[w] = true
	}
	if len(c.Tests) == 0 {
		return errors.Wrap(ErrInvalidConfig, "no test cases")
	}
	if c.MaxSteps <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.MaxLen <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_len must be positive, got %d", c.MaxLen)
	}
	if c.MinLines < 1 || c.MaxLines < c.MinLines {
		return errors.Wrapf(ErrInvalidConfig, "line range %d..%d is empty", c.MinLines, c.MaxLines)
	}
	if c.Start >= c.Ceiling {
		return errors.Wrapf(ErrInvalidConfig, "start %d is not below ceiling %d", c.Start, c.Ceiling)
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Alphabet = append([]string(nil), c.Alphabet...)
	out.Tests = append([]TestCase(nil), c.Tests...)
	return &out
}
