package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbadge-labs/sprout/internal/cli"
	"github.com/openbadge-labs/sprout/internal/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Probe the ledger and print the chain resolution",
	Long:  `Probes every resource in dependency order and prints a table of addresses, states and the next required step. Read-only.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := gatherOptions(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		logger := logging.New(opts.Config.SlogLevel())

		eng, _, err := cli.BuildEngine(opts, logger, nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		authority, err := opts.ResolveAuthority()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		if _, err := eng.StartSession(cmd.Context(), opts.SessionID, authority); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		if err := cli.PrintStatus(cmd.Context(), eng, opts.SessionID); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
