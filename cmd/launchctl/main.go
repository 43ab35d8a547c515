// Command launchctl runs and watches declarative launch descriptions
// (spec.md §4.H): `launchctl run <file>` executes one to completion;
// `launchctl watch <file>` does the same while live-reloading the file on
// every edit and rendering a dashboard of the running process table.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
