package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flockgraph/flock"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(flock.FullVersion())
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
