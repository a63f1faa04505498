package markov

import (
	"math"
	"math/bits"
	"strings"
)

// Bijective numbering of programs.
//
// A program index is split into rule indices with the Cantor pairing
// function, a rule index is split by parity (Continue/Halt) and pairing
// into two string indices, and a string index is written as a bijective
// base-m numeral over the alphabet of words. Every level is a bijection
// onto its target set, so consecutive program indices walk all programs
// of a given length exactly once with small programs first.

// triangular returns i*(i+1)/2 and whether it fits in 64 bits.
func triangular(i uint64) (uint64, bool) {
	a, b := i, i+1
	if a%2 == 0 {
		a /= 2
	} else {
		b /= 2
	}
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// triangularRoot returns the largest i with triangular(i) <= n.
func triangularRoot(n uint64) uint64 {
	i := uint64((math.Sqrt(8*float64(n)+1) - 1) / 2)
	for {
		t, ok := triangular(i)
		if ok && t <= n {
			break
		}
		i--
	}
	for {
		t, _ := triangular(i)
		// n-t > i means triangular(i+1) = t+i+1 <= n.
		if n-t <= i {
			return i
		}
		i++
	}
}

// Unpair inverts the Cantor pairing function: n enumerates the pairs
// (0,0), (0,1), (1,0), (0,2), (1,1), (2,0), ... diagonal by diagonal.
func Unpair(n uint64) (x, y uint64) {
	i := triangularRoot(n)
	t, _ := triangular(i)
	x = n - t
	return x, i - x
}

// EncodeString returns the n-th string over the alphabet of words.
//
// 0 maps to the empty string. For n >= 1, n-1 is written as a bijective
// base-m numeral (m = len(alphabet)) whose digits are emitted least
// significant first, so every finite sequence of words has exactly one
// index. The alphabet must not be empty when n > 0.
func EncodeString(n uint64, alphabet []string) string {
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	writeWords(&sb, n-1, alphabet)
	return sb.String()
}

func writeWords(sb *strings.Builder, k uint64, alphabet []string) {
	m := uint64(len(alphabet))
	for {
		sb.WriteString(alphabet[k%m])
		k /= m
		if k == 0 {
			return
		}
		k--
	}
}

// EncodeRule returns the n-th rule: even indices give Continue rules,
// odd indices Halt rules, and Unpair(n/2) selects the pattern and
// replacement strings.
func EncodeRule(n uint64, alphabet []string) Rule {
	x, y := Unpair(n / 2)
	return makeRule(n, EncodeString(x, alphabet), EncodeString(y, alphabet))
}

func makeRule(n uint64, pattern, replacement string) Rule {
	if n%2 == 0 {
		return NewContinue(pattern, replacement)
	}
	return NewHalt(pattern, replacement)
}

// EncodeProgram returns the n-th program with the given number of lines.
// Each of the first lines-1 rules takes the second component of Unpair
// of the running index and passes the first component on; the last
// rule consumes what remains. lines <= 1 yields a single-rule program.
func EncodeProgram(lines int, n uint64, alphabet []string) Program {
	prg := make(Program, 0, max(lines, 1))
	index := n
	for i := 1; i < lines; i++ {
		x, y := Unpair(index)
		prg = append(prg, EncodeRule(y, alphabet))
		index = x
	}
	return append(prg, EncodeRule(index, alphabet))
}

// Encoder is the cache-backed form of the encoding functions for one
// fixed alphabet. A Cache must only ever be shared between Encoders
// over the same alphabet.
//
// Thread safety: Encoder is NOT safe for concurrent use.
type Encoder struct {
	alphabet []string
	cache    *Cache
}

// NewEncoder creates an encoder over alphabet. A nil cache gets a fresh
// cache with DefaultCacheLimit.
func NewEncoder(alphabet []string, cache *Cache) *Encoder {
	if cache == nil {
		cache = NewCache(DefaultCacheLimit)
	}
	return &Encoder{
		alphabet: append([]string(nil), alphabet...),
		cache:    cache,
	}
}

// Alphabet returns a copy of the encoder's alphabet.
func (e *Encoder) Alphabet() []string {
	return append([]string(nil), e.alphabet...)
}

// Cache returns the encoder's memo cache.
func (e *Encoder) Cache() *Cache {
	return e.cache
}

// Unpair is the memoized form of Unpair.
func (e *Encoder) Unpair(n uint64) (x, y uint64) {
	if p, ok := e.cache.pairs.load(n); ok {
		return p.x, p.y
	}
	x, y = Unpair(n)
	e.cache.pairs.store(n, pair{x, y})
	return x, y
}

// String is the memoized form of EncodeString.
func (e *Encoder) String(n uint64) string {
	if s, ok := e.cache.strs.load(n); ok {
		return s
	}
	s := EncodeString(n, e.alphabet)
	e.cache.strs.store(n, s)
	return s
}

// Rule is the memoized form of EncodeRule.
func (e *Encoder) Rule(n uint64) Rule {
	if r, ok := e.cache.rules.load(n); ok {
		return r
	}
	x, y := e.Unpair(n / 2)
	r := makeRule(n, e.String(x), e.String(y))
	e.cache.rules.store(n, r)
	return r
}

// Program is the memoized form of EncodeProgram. Programs themselves are
// not cached; their rules are.
func (e *Encoder) Program(lines int, n uint64) Program {
	prg := make(Program, 0, max(lines, 1))
	index := n
	for i := 1; i < lines; i++ {
		x, y := e.Unpair(index)
		prg = append(prg, e.Rule(y))
		index = x
	}
	return append(prg, e.Rule(index))
}
