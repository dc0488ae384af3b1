package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysstate/snapai/pkg/analyzers"
)

func NewAnalyzersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyzers",
		Short: "List the registered section analyzers",
		Run: func(cmd *cobra.Command, args []string) {
			registry := analyzers.Default()
			for _, name := range registry.Names() {
				analyzer, _ := registry.Lookup(name)
				mode := "standard"
				if analyzer.SupportsChunking() {
					mode = "chunked"
				}
				fmt.Printf("%-20s %s\n", name, mode)
			}
			fmt.Println("\nSections without a registered analyzer use a generic prompt.")
		},
	}
}
