package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hearthvoice/internal/dataset"
	"hearthvoice/internal/optimizer"
)

var (
	optData string
	optOut  string
	optK    int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Select few-shot demonstrations and compare baseline vs optimized",
	Long: `Optimize runs the full bootstrap few-shot workflow: baseline the
pipeline on the training split, select up to K demonstrations from its
own successful outputs (backfilled with ground truth), then re-evaluate
the dev split with and without those demonstrations and report the
per-metric delta.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		splits, err := dataset.Load(optData)
		if err != nil {
			return err
		}

		ocfg := optimizer.Config{
			K:                cfg.Optimizer.K,
			TargetMetric:     cfg.Optimizer.TargetMetric,
			SuccessThreshold: cfg.Optimizer.SuccessThreshold,
			Metrics:          cfg.MetricOptions(),
		}
		if cmd.Flags().Changed("k") {
			ocfg.K = optK
		}

		result, err := optimizer.Optimize(splits.Train, splits.Dev, pipelineConfig(), ocfg)
		if err != nil {
			return err
		}

		fmt.Println(heading("Baseline vs Optimized (dev split)"))
		fmt.Println(renderComparison(result.Baseline, result.Optimized, result.Delta))
		fmt.Printf("\nDemonstrations used: %d\n", len(result.Demonstrations))
		for _, d := range result.Demonstrations {
			fmt.Printf("  [%s] %q -> %s\n", d.Intent, d.Speech, d.Expected.Action)
		}
		if result.MalformedTrain+result.MalformedEval > 0 {
			fmt.Printf("\nMalformed inputs (coerced, not scored as interpretation): %d train, %d eval\n",
				result.MalformedTrain, result.MalformedEval)
		}
		for _, w := range result.Warnings {
			fmt.Println("Warning:", w)
		}

		if optOut != "" {
			if err := saveResult(result, optOut); err != nil {
				return err
			}
			fmt.Println("\nResults saved to", optOut)
		}
		return nil
	},
}

func saveResult(result *optimizer.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	optimizeCmd.Flags().StringVar(&optData, "data", "data/commands.json", "dataset path")
	optimizeCmd.Flags().StringVar(&optOut, "out", "", "optional path to save the optimization result JSON")
	optimizeCmd.Flags().IntVar(&optK, "k", 4, "maximum number of demonstrations")
}
