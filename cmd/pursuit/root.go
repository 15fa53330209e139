package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bdwatch/pursuit/internal/api"
	"github.com/bdwatch/pursuit/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	flagServer  string
	flagConfig  string
	flagNoCache bool
	flagRev     int
)

var rootCmd = &cobra.Command{
	Use:   "pursuit",
	Short: "TUI browser for the solicitation catalog",
	Long: "pursuit browses the team's solicitation catalog: search, urgency and\n" +
		"agency charts with cross-filtering, and claim tracking, all in the terminal.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "skip the local catalog cache")

	requirementsCmd.Flags().IntVar(&flagRev, "rev", 0, "document version to fetch (0 = latest)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(requirementsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pursuit %s (commit: %s)\n", version, commit)
	},
}

// requirementsCmd is a thin view onto the shared requirements document:
// no args prints it, a file arg uploads a new version.
var requirementsCmd = &cobra.Command{
	Use:   "requirements [file]",
	Short: "Print the shared requirements document, or upload a new version from a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		server := cfg.ServerURL
		if flagServer != "" {
			server = flagServer
		}
		client := api.NewClient(server, cfg.Timeout())
		ctx := context.Background()

		if len(args) == 1 {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			if err := client.SaveRequirements(ctx, string(data)); err != nil {
				return fmt.Errorf("saving requirements: %w", err)
			}
			fmt.Println("requirements saved")
			return nil
		}

		doc, err := client.Requirements(ctx, flagRev)
		if err != nil {
			return fmt.Errorf("fetching requirements: %w", err)
		}
		if doc.ID > 0 {
			fmt.Fprintln(os.Stderr, "version "+strconv.Itoa(doc.ID))
		}
		fmt.Println(doc.Content)
		return nil
	},
}
