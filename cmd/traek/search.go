package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/traek/traek-go/internal/presentation/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search node content in a conversation",
	Long:  `Loads a snapshot and runs a case-insensitive substring search over node content, printing each match with the hit highlighted.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		engine, err := loadEngine(cmd, nil)
		if err != nil {
			fmt.Printf("Error loading conversation: %v\n", err)
			os.Exit(1)
		}

		engine.Search(query)
		matches := engine.SearchMatches()
		if len(matches) == 0 {
			fmt.Println("No matches.")
			return
		}

		fmt.Printf("%d matches for %q:\n\n", len(matches), engine.SearchQuery())
		for _, id := range matches {
			node := engine.Node(id)
			if node == nil {
				continue
			}
			fmt.Printf("%s [%s, depth %d]\n", node.ID, node.Role, engine.Depth(node.ID))
			fmt.Printf("  %s\n\n", tui.HighlightMatches(firstLine(node.Content), engine.SearchQuery()))
		}
	},
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
