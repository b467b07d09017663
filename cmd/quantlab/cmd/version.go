package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the quantlab version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("quantlab", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
