package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(c *cobra.Command, args []string) {
		fmt.Printf("marketctl %s (%s)\n", version, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
