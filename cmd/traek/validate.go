package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traek/traek-go/internal/cli"
	"github.com/traek/traek-go/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [snapshot]",
	Short: "Check a conversation snapshot for validity",
	Long:  `Validates a snapshot file against the wire schema and reports every offending field path.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Snapshot is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("snapshot")
	if path == "" && len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no snapshot given (use --snapshot or an argument)")
	}

	snap, err := cli.ReadSnapshot(path)
	if err != nil {
		var agg *schema.AggregateError
		if errors.As(err, &agg) {
			for _, fe := range agg.Errors {
				fmt.Printf("  - %v\n", fe)
			}
			return fmt.Errorf("%d invalid fields", len(agg.Errors))
		}
		return err
	}

	fmt.Printf("version %d, %d nodes\n", snap.Version, len(snap.Nodes))
	return nil
}
