package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysstate/snapai/pkg/analyze"
	"github.com/sysstate/snapai/pkg/analyzers"
	"github.com/sysstate/snapai/pkg/config"
	"github.com/sysstate/snapai/pkg/formatter"
	"github.com/sysstate/snapai/pkg/llm"
	"github.com/sysstate/snapai/pkg/llmlog"
	"github.com/sysstate/snapai/pkg/logging"
)

var (
	configPath   string
	provider     string
	serverURL    string
	model        string
	maxTokens    int
	temperature  float64
	focus        []string
	outputFile   string
	outputDir    string
	llmLogDir    string
	outputFormat string
	debugLog     bool
)

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze SNAPSHOT_PATH",
		Short: "Analyze a system state snapshot with a local LLM",
		Long: `Analyze a Windows system state snapshot directory using a local LLM
(LM Studio or Ollama) and produce a structured health report.

Examples:
  # Analyze a whole snapshot with the default LM Studio server
  snapai analyze ./snapshots/2026-08-27_093000

  # Analyze only specific sections
  snapai analyze ./snapshot -f Path -f DiskSpace

  # Use Ollama and save the full report
  snapai analyze ./snapshot --provider ollama --model llama3 -o report.json

  # Keep per-section artifacts and LLM interaction logs
  snapai analyze ./snapshot --output-dir ./analysis --llm-log-dir ./llm-logs`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider (lmstudio, ollama)")
	cmd.Flags().StringVarP(&serverURL, "server-url", "u", "", "URL of the LLM server")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model name to use")
	cmd.Flags().IntVarP(&maxTokens, "max-tokens", "t", 0, "Maximum number of tokens for each response")
	cmd.Flags().Float64Var(&temperature, "temperature", -1, "Temperature for generation (0.0-1.0)")
	cmd.Flags().StringSliceVarP(&focus, "focus", "f", nil, "Sections to focus analysis on")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Path to save the combined report (JSON)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory to save per-section analyses")
	cmd.Flags().StringVar(&llmLogDir, "llm-log-dir", "", "Directory to save LLM interaction logs")
	cmd.Flags().StringVar(&outputFormat, "format", "human", "Output format (human, json, yaml)")
	cmd.Flags().BoolVarP(&debugLog, "debug", "d", false, "Enable debug logging")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	snapshotPath := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	applyFlags(&cfg)
	if debugLog {
		cfg.Logging.Level = "debug"
	}

	log := logging.New(cfg.Logging)

	client, err := llm.NewFromConfig(cfg.LLM)
	if err != nil {
		return err
	}

	printHeader(snapshotPath, cfg)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Analyzing snapshot sections..."
	if outputFormat == "human" && !debugLog {
		s.Start()
	}

	interactions := llmlog.New(cfg.Output.LLMLogDir, log)
	analyzer := analyze.New(client, analyzers.Default(), log, interactions, cfg.LLM.ServerURL)

	rep, err := analyzer.AnalyzeSnapshot(snapshotPath, analyze.Options{
		Focus:     focus,
		OutputDir: cfg.Output.Dir,
	})
	s.Stop()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	printSuccess(fmt.Sprintf("Analyzed %d sections", len(rep.Sections)))

	if outputFile != "" {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("could not encode report: %w", err)
		}
		if err := os.WriteFile(outputFile, data, 0o644); err != nil {
			return fmt.Errorf("could not save report: %w", err)
		}
		printSuccess(fmt.Sprintf("Report saved to %s", outputFile))
	}

	return formatter.DisplayReport(rep, outputFormat)
}

// applyFlags overlays explicitly set command line flags on the config.
func applyFlags(cfg *config.Config) {
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if serverURL != "" {
		cfg.LLM.ServerURL = serverURL
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if maxTokens > 0 {
		cfg.LLM.MaxTokens = maxTokens
	}
	if temperature >= 0 {
		cfg.LLM.Temperature = temperature
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if llmLogDir != "" {
		cfg.Output.LLMLogDir = llmLogDir
	}
}

func printHeader(snapshotPath string, cfg config.Config) {
	if outputFormat != "human" {
		return
	}
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("🔍 System Snapshot Analyzer")
	fmt.Printf("📂 Snapshot: %s\n", snapshotPath)
	fmt.Printf("🤖 Provider: %s (%s)\n", cfg.LLM.Provider, cfg.LLM.ServerURL)
	if len(focus) > 0 {
		fmt.Printf("📊 Sections: %s\n", strings.Join(focus, ", "))
	} else {
		fmt.Println("📊 Sections: all")
	}
	fmt.Println()
}

func printSuccess(msg string) {
	if outputFormat != "human" {
		return
	}
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}
