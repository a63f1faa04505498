// Command gomarkov searches for Markov rewrite programs that reproduce a
// set of input/output examples.
//
// Usage:
//
//	gomarkov search                       # the built-in ABC sorting puzzle
//	gomarkov search -c puzzle.yaml --stats
//	gomarkov search --metrics-addr :9090  # expose Prometheus metrics
//	gomarkov decode -n 3 0 1 2            # print programs by index
//	gomarkov eval -r 'CA:AC' -r 'BA:AB' -r 'CB:BC' --trace BCABBA
package main

import (
	"fmt"
	"os"

	"github.com/gitrdm/gomarkov/internal/cli"
)

func main() {
	if err := cli.Execute(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
