package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	traek "github.com/traek/traek-go"
	"github.com/traek/traek-go/internal/cli"
	"github.com/traek/traek-go/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "traek",
	Short: "Træk is a spatial branching conversation engine",
	Long:  `Træk manages branching AI conversations as a spatial tree: inspect, search, visualize and serve saved conversation snapshots.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelStr, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelStr)
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(level))
		return nil
	},
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
	rootCmd.PersistentFlags().StringP("snapshot", "s", "", "Path to a conversation snapshot (JSON)")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to an engine config file (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
}

// loadEngine builds an engine from the --snapshot and --config flags.
// Without a snapshot it returns an empty engine; config-file values
// override snapshot-embedded config.
func loadEngine(cmd *cobra.Command, args []string) (*traek.Engine, error) {
	snapshotPath, _ := cmd.Flags().GetString("snapshot")
	if snapshotPath == "" && len(args) > 0 {
		snapshotPath = args[0]
	}

	var opts []traek.Option
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, traek.WithConfig(cfg))
	}

	if snapshotPath == "" {
		return traek.New(opts...), nil
	}
	return cli.LoadEngine(snapshotPath, opts...)
}
