package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	RunE:  runVersionCommand,
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	headerColor.Printf("launchctl %s\n", Version)
	fmt.Println(strings.Repeat("=", 30))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetBorder(false)
	table.SetRowSeparator(" ")

	table.Append([]string{"Version:", Version})
	table.Append([]string{"Build Time:", BuildTime})
	table.Append([]string{"Git Commit:", GitCommit})
	table.Append([]string{"Go Version:", runtime.Version()})
	table.Append([]string{"Platform:", runtime.GOOS + "/" + runtime.GOARCH})

	table.Render()
	return nil
}
