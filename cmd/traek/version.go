package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	traek "github.com/traek/traek-go"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of traek",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("traek version %s\n", strings.TrimSpace(traek.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
