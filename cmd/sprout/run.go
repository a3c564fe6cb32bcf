package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openbadge-labs/sprout/internal/cli"
	"github.com/openbadge-labs/sprout/internal/logging"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive onboarding flow",
	Long:  `Starts the onboarding loop: probe the ledger, show the next missing resource, and create it on request.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := gatherOptions(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.Plain, _ = cmd.Flags().GetBool("plain")

		logger := logging.New(opts.Config.SlogLevel())

		eng, _, err := cli.BuildEngine(opts, logger, nil)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := cli.RunSession(ctx, eng, opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("fresh", false, "Discard the cached session state before starting")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")

	// Make 'run' the default when no subcommand is given.
	rootCmd.Run = runCmd.Run
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
