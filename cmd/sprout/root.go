package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbadge-labs/sprout/internal/cli"
	"github.com/openbadge-labs/sprout/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "sprout",
	Short: "Sprout walks an issuer through on-chain badge provisioning",
	Long: `Sprout is an interactive onboarding flow for the open badge program.
It probes the ledger for the account, issuer profile, achievement and
credential resources in dependency order and guides you through creating
whichever link is missing next.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "sprout.yaml", "Path to the config file")
	rootCmd.PersistentFlags().StringP("session", "s", "default", "Session identifier")
	rootCmd.PersistentFlags().String("authority", "", "Base58 authority address paying for the chain")
	rootCmd.PersistentFlags().Bool("demo", false, "Use an in-memory demo ledger instead of a real node")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for shared session state (overrides config)")
}

// gatherOptions resolves the persistent flags plus the config file into
// the shared CLI options.
func gatherOptions(cmd *cobra.Command) (cli.Options, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cli.Options{}, fmt.Errorf("failed to load config: %w", err)
	}

	sessionID, _ := cmd.Flags().GetString("session")
	authority, _ := cmd.Flags().GetString("authority")
	demo, _ := cmd.Flags().GetBool("demo")
	if redisAddr, _ := cmd.Flags().GetString("redis"); redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}

	return cli.Options{
		Config:    cfg,
		SessionID: sessionID,
		Authority: authority,
		Demo:      demo,
	}, nil
}
