// Command tbgen generates VHDL testbench skeletons from annotated entity
// declarations.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tbgen/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	err := cmd.Execute()
	code := cli.GetExitCode(err)
	if err != nil && !cli.Reported(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}
