// Command zxb renders query definition files into SQL or vector-search
// request documents.
package main

import (
	"fmt"
	"os"

	"github.com/fndome/zxb/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Formatted output already went to stdout; stderr gets the summary.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
