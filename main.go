/*
 * Fluecheck decides whether a Kyungdong Navien gas boiler may have its supply/exhaust mode converted
 * and writes the appliance change confirmation of the converted boiler.
 * Run without arguments to get comprehensive help.
 */

package main

import (
	"os"

	"github.com/sihwankim2023/kd-boiler-checker/cmd"
)

// Runs the program
func main() {
	if cmd.RunRootCommand() != nil {
		os.Exit(1)
	}
}
