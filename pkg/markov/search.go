package markov

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrExhausted is returned by Searcher.Run when no index below the
// ceiling yields a matching program.
var ErrExhausted = errors.New("search space exhausted")

// cancelCheckInterval is how many indices are visited between context checks.
const cancelCheckInterval = 4096

// Candidate is a program together with the index and line count it was
// built from.
type Candidate struct {
	Index   uint64
	Lines   int
	Program Program
}

// Matches reports whether p turns every test input into exactly the
// expected output within the bounds.
func Matches(p Program, tests []TestCase, maxSteps, maxLen int) bool {
	for _, tc := range tests {
		out, err := p.Eval(tc.Input, maxSteps, maxLen)
		if err != nil || out != tc.Expected {
			return false
		}
	}
	return true
}

// Searcher enumerates programs in index order and returns the first one
// that passes the whole test set.
//
// Thread safety: a Searcher runs on one goroutine; its monitor may be
// read from others.
type Searcher struct {
	cfg         *Config
	enc         *Encoder
	monitor     *SearchMonitor
	logger      *zap.Logger
	onCandidate func(Candidate)
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMonitor sets the statistics monitor.
func WithMonitor(m *SearchMonitor) Option {
	return func(s *Searcher) {
		if m != nil {
			s.monitor = m
		}
	}
}

// WithCache makes the searcher encode through c. The cache must not
// have been used with a different alphabet.
func WithCache(c *Cache) Option {
	return func(s *Searcher) {
		if c != nil {
			s.enc = NewEncoder(s.cfg.Alphabet, c)
		}
	}
}

// OnCandidate registers fn to be called with every evaluated program
// that did not match.
func OnCandidate(fn func(Candidate)) Option {
	return func(s *Searcher) {
		s.onCandidate = fn
	}
}

// NewSearcher validates cfg and creates a searcher for it. The config is
// copied, so later changes to cfg do not affect the searcher.
func NewSearcher(cfg *Config, opts ...Option) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	s := &Searcher{
		cfg:     cfg,
		monitor: NewSearchMonitor(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.enc == nil {
		s.enc = NewEncoder(cfg.Alphabet, NewCache(cfg.CacheLimit))
	}
	return s, nil
}

// Encoder returns the encoder the searcher builds programs with.
func (s *Searcher) Encoder() *Encoder {
	return s.enc
}

// Monitor returns the searcher's statistics monitor.
func (s *Searcher) Monitor() *SearchMonitor {
	return s.monitor
}

// Run searches indices from Start up to Ceiling, trying every line count
// in MinLines..MaxLines for each index. It returns the first matching
// candidate, ErrExhausted, or the context error if ctx is cancelled.
func (s *Searcher) Run(ctx context.Context) (*Candidate, error) {
	cfg := s.cfg
	s.monitor.Start()
	defer s.monitor.Stop()

	s.logger.Info("search started",
		zap.Strings("alphabet", cfg.Alphabet),
		zap.Int("tests", len(cfg.Tests)),
		zap.Int("min_lines", cfg.MinLines),
		zap.Int("max_lines", cfg.MaxLines),
		zap.Uint64("start", cfg.Start),
		zap.Uint64("ceiling", cfg.Ceiling),
	)

	for idx := cfg.Start; idx < cfg.Ceiling; idx++ {
		if (idx-cfg.Start)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				s.logger.Warn("search cancelled",
					zap.Uint64("index", idx),
					zap.Stringer("stats", s.monitor.GetStats()),
				)
				return nil, err
			}
		}
		for lines := cfg.MinLines; lines <= cfg.MaxLines; lines++ {
			c := Candidate{Index: idx, Lines: lines, Program: s.enc.Program(lines, idx)}
			if s.try(c) {
				s.logger.Info("match found",
					zap.Uint64("index", idx),
					zap.Int("lines", lines),
					zap.Stringer("program", c.Program),
					zap.Stringer("stats", s.monitor.GetStats()),
				)
				return &c, nil
			}
		}
	}

	s.logger.Warn("search space exhausted", zap.Stringer("stats", s.monitor.GetStats()))
	return nil, ErrExhausted
}

// try prunes and evaluates one candidate, recording statistics.
func (s *Searcher) try(c Candidate) bool {
	s.monitor.RecordCandidate(c.Index)
	if reason := Check(c.Program); reason != PruneNone {
		s.monitor.RecordPruned(reason)
		return false
	}

	s.monitor.RecordEvaluated()
	for _, tc := range s.cfg.Tests {
		out, err := c.Program.Eval(tc.Input, s.cfg.MaxSteps, s.cfg.MaxLen)
		ok := err == nil && out == tc.Expected
		s.monitor.RecordOutcome(err, ok)
		if !ok {
			if s.onCandidate != nil {
				s.onCandidate(c)
			}
			return false
		}
	}
	s.monitor.RecordMatch()
	return true
}
