package main

import (
	"os"

	"github.com/Hooo1941/cwe-checker/internal/cli"
)

func main() {
	// Commands emit their own error output; main only maps the error to
	// an exit code.
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
