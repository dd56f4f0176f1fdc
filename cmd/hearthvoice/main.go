// hearthvoice interprets household speech commands into structured tasks
// and tunes that interpretation with bootstrap few-shot demonstrations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hearthvoice/internal/config"
	"hearthvoice/internal/interpreter"
	"hearthvoice/internal/logging"
	"hearthvoice/internal/pipeline"
)

var (
	configPath string
	verbose    bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hearthvoice",
	Short: "Deterministic speech-to-task interpretation with demonstration optimization",
	Long: `hearthvoice turns short household speech commands ("Set timer for 20
minutes") into structured tasks using a deterministic rule-based
interpreter that simulates a language model, including realistic error
modes. A metrics engine scores predictions against ground truth, and a
bootstrap few-shot optimizer selects demonstrations that improve accuracy.

Everything is seeded and reproducible; no network calls are made.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Verbose = true
		}
		return logging.Init(cfg.Logging.Verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(interpretCmd)
}

// pipelineConfig maps the loaded run configuration onto the pipeline.
func pipelineConfig() pipeline.Config {
	return pipeline.Config{
		Interpreter: interpreter.Config{
			Accuracy: cfg.Interpreter.Accuracy,
			Seed:     cfg.Interpreter.Seed,
		},
		Mode:    pipeline.Mode(cfg.Pipeline.Mode),
		Workers: cfg.Pipeline.Workers,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
