// Command langfeat resolves language feature flags against a feature catalog.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/langfeat/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "langfeat: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
