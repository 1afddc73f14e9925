package main

import (
	"fmt"
	"os"

	"github.com/lcars-computer/stackctl/cmd"
	"github.com/lcars-computer/stackctl/internal/ui"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError(err.Error(), "", ""))
		os.Exit(cmd.ExitCode(err))
	}
}
