// Command rznode is the CLI front-end for the dataflow engine (spec
// component C8): it loads an HCL node-kind manifest and a JSON graph
// document, builds a NodeTree, drives one Execute pass through the
// Executor/Host pair, and reports per-node results.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Jerry-Shen0527/rznode/internal/cli"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, args []string) error {
	c := cli.New(out)
	root := c.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
