package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traek/traek-go/pkg/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats [snapshot]",
	Short: "Show conversation tree statistics",
	Long:  `Loads a snapshot and prints node counts per role, branch structure and depth.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(cmd, args)
		if err != nil {
			fmt.Printf("Error loading conversation: %v\n", err)
			os.Exit(1)
		}

		nodes := engine.Nodes()
		roleCounts := map[domain.Role]int{}
		thoughts := 0
		branchPoints := 0
		for _, n := range nodes {
			roleCounts[n.Role]++
			if n.IsThought() {
				thoughts++
			}
			if len(engine.Children(n.ID)) > 1 {
				branchPoints++
			}
		}

		fmt.Printf("Nodes:         %d\n", len(nodes))
		fmt.Printf("  user:        %d\n", roleCounts[domain.RoleUser])
		fmt.Printf("  assistant:   %d\n", roleCounts[domain.RoleAssistant])
		fmt.Printf("  system:      %d\n", roleCounts[domain.RoleSystem])
		fmt.Printf("  thoughts:    %d\n", thoughts)
		fmt.Printf("Roots:         %d\n", len(engine.Roots()))
		fmt.Printf("Branch points: %d\n", branchPoints)
		fmt.Printf("Max depth:     %d\n", engine.MaxDepth())
		if active := engine.ActiveNodeID(); active != "" {
			fmt.Printf("Active node:   %s (depth %d)\n", active, engine.Depth(active))
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
