package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/traek/traek-go/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [snapshot]",
	Short: "Export the conversation tree visualization",
	Long:  `Loads a snapshot and outputs a Mermaid diagram (graph TD) of the conversation tree, with solid primary edges and dotted secondary edges.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := loadEngine(cmd, args)
		if err != nil {
			fmt.Printf("Error loading conversation: %v\n", err)
			os.Exit(1)
		}

		overlay := &graph.Overlay{ActiveNode: engine.ActiveNodeID()}
		for id := range engine.CollapsedNodes() {
			overlay.CollapsedNodes = append(overlay.CollapsedNodes, id)
		}

		fmt.Print(graph.GenerateMermaid(engine.Nodes(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
