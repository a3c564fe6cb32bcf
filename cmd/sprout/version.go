package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sprout "github.com/openbadge-labs/sprout"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sprout",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sprout version %s\n", strings.TrimSpace(sprout.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
