// Command pointflow runs point-stream procs from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pointflow/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
