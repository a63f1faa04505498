package markov

import (
	"context"
	"fmt"
)

// ExampleEncodeProgram shows the programs numbered by a few indices.
func ExampleEncodeProgram() {
	alphabet := []string{"AB", "BA", "AC", "CA", "BC", "CB"}
	for _, n := range []uint64{3, 584, 5784956} {
		fmt.Printf("idx=%d\n%s", n, EncodeProgram(3, n, alphabet))
	}

	// Output:
	// idx=3
	// :AB
	// :
	// :
	// idx=584
	// BA:
	// AB:
	// :AB
	// idx=5784956
	// CB:BC
	// CA:AC
	// BA:AB
}

// ExampleUnpair walks the first diagonals of the pairing.
func ExampleUnpair() {
	for n := uint64(0); n < 6; n++ {
		x, y := Unpair(n)
		fmt.Printf("%d -> (%d, %d)\n", n, x, y)
	}

	// Output:
	// 0 -> (0, 0)
	// 1 -> (0, 1)
	// 2 -> (1, 0)
	// 3 -> (0, 2)
	// 4 -> (1, 1)
	// 5 -> (2, 0)
}

// ExampleProgram_Eval sorts letters with three swap rules.
func ExampleProgram_Eval() {
	prg, err := ParseProgram("CB:BC\nCA:AC\nBA:AB\n")
	if err != nil {
		panic(err)
	}
	out, err := prg.Eval("BCABBA", 5000, 5000)
	fmt.Println(out, err)

	_, err = Program{NewContinue("", "AB")}.Eval("", 5000, 5000)
	fmt.Println(err)

	// Output:
	// AABBBC <nil>
	// length limit exceeded
}

// ExampleSearcher finds the one-line program that swaps "ab".
func ExampleSearcher() {
	cfg := &Config{
		Alphabet: []string{"a", "b"},
		Tests:    []TestCase{{Input: "ab", Expected: "ba"}},
		MaxSteps: 100,
		MaxLen:   100,
		MinLines: 1,
		MaxLines: 1,
		Ceiling:  1000,
	}
	s, err := NewSearcher(cfg)
	if err != nil {
		panic(err)
	}
	found, err := s.Run(context.Background())
	if err != nil {
		panic(err)
	}
	fmt.Printf("Found!! lines=%d idx=%d\n%s", found.Lines, found.Index, found.Program)

	// Output:
	// Found!! lines=1 idx=100
	// ab:ba
}
