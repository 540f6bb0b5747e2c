package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of fund-matcher",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fund-matcher %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
