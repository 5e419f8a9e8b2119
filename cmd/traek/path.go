package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/traek/traek-go/internal/presentation/tui"
)

var pathCmd = &cobra.Command{
	Use:   "path [snapshot]",
	Short: "Render the active context path",
	Long:  `Loads a snapshot and renders the root-to-active message chain (the context an AI agent would see) as markdown.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(cmd, args)
		if err != nil {
			fmt.Printf("Error loading conversation: %v\n", err)
			os.Exit(1)
		}

		path := engine.ContextPath()
		if len(path) == 0 {
			fmt.Println("No active node.")
			return
		}

		var sb strings.Builder
		for _, node := range path {
			fmt.Fprintf(&sb, "### %s\n\n%s\n\n", node.Role, node.Content)
		}

		render := tui.NewRenderer()
		out, err := render(sb.String())
		if err != nil {
			// Fall back to plain markdown when the terminal renderer
			// cannot initialize.
			fmt.Print(sb.String())
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(pathCmd)
}
