package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sysstate/snapai/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snapai",
		Short: "LLM-powered Windows system snapshot analysis",
		Long: `snapai analyzes Windows system state snapshots with a local LLM to
identify configuration issues, security risks, and optimization
opportunities, producing a structured health report.`,
		SilenceUsage: true,
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		cmd.NewAnalyzeCmd(),
		cmd.NewAnalyzersCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("snapai version %s\n", version)
		},
	}
}
