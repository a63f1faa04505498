package markov

// step applies the first rule of p whose pattern occurs in buf.
// applied is false at a fixed point; live is true only when a Continue
// rule fired.
func (p Program) step(buf string) (next string, applied, live bool) {
	for _, r := range p {
		out, ok := r.Apply(buf)
		if !ok {
			continue
		}
		switch r.Kind {
		case Halt:
			return out, true, false
		case Continue:
			return out, true, true
		}
	}
	return buf, false, false
}

// Eval runs the program on input.
//
// Each step first checks the bounds: reaching maxSteps yields
// ErrStepLimit, and a buffer longer than maxLen bytes yields
// ErrLengthLimit. Otherwise the first applicable rule rewrites the
// buffer. Evaluation ends successfully when a Halt rule fires or when no
// rule applies (a fixed point).
func (p Program) Eval(input string, maxSteps, maxLen int) (string, error) {
	buf := input
	for t := 0; ; t++ {
		if t >= maxSteps {
			return "", ErrStepLimit
		}
		if len(buf) > maxLen {
			return "", ErrLengthLimit
		}
		var live bool
		buf, _, live = p.step(buf)
		if !live {
			return buf, nil
		}
	}
}

// Evaluate runs p on input under the given bounds. It is the function
// form of Program.Eval.
func Evaluate(p Program, input string, maxSteps, maxLen int) (string, error) {
	return p.Eval(input, maxSteps, maxLen)
}

// Trace runs the program like Eval but also returns every buffer state,
// starting with input. On failure the states seen so far are returned
// together with the error.
func (p Program) Trace(input string, maxSteps, maxLen int) ([]string, error) {
	buf := input
	states := []string{buf}
	for t := 0; ; t++ {
		if t >= maxSteps {
			return states, ErrStepLimit
		}
		if len(buf) > maxLen {
			return states, ErrLengthLimit
		}
		next, applied, live := p.step(buf)
		if applied {
			states = append(states, next)
		}
		buf = next
		if !live {
			return states, nil
		}
	}
}
