package markov

// PruneReason explains why a program was rejected before evaluation.
type PruneReason uint8

const (
	// PruneNone means the program is worth evaluating.
	PruneNone PruneReason = iota

	// PruneNoOp means some rule replaces its pattern with itself.
	PruneNoOp

	// PruneDuplicatePattern means two rules share a pattern, so the later
	// one can never fire. The rule kinds are not compared.
	PruneDuplicatePattern
)

// String returns the name of the reason.
func (r PruneReason) String() string {
	switch r {
	case PruneNone:
		return "none"
	case PruneNoOp:
		return "no-op"
	case PruneDuplicatePattern:
		return "duplicate-pattern"
	default:
		return "unknown"
	}
}

// Check inspects p without running it and reports why it is useless,
// or PruneNone.
func Check(p Program) PruneReason {
	for _, r := range p {
		if r.Pattern == r.Replacement {
			return PruneNoOp
		}
	}
	for i := range p {
		for j := 0; j < i; j++ {
			if p[i].Pattern == p[j].Pattern {
				return PruneDuplicatePattern
			}
		}
	}
	return PruneNone
}

// Prune reports whether p can be skipped without evaluation.
func Prune(p Program) bool {
	return Check(p) != PruneNone
}
