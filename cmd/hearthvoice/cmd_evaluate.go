package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hearthvoice/internal/command"
	"hearthvoice/internal/dataset"
	"hearthvoice/internal/metrics"
	"hearthvoice/internal/pipeline"
)

var (
	evalData  string
	evalSplit string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the pipeline over a dataset split and report metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		splits, err := dataset.Load(evalData)
		if err != nil {
			return err
		}
		examples, err := pickSplit(splits, evalSplit)
		if err != nil {
			return err
		}

		p := pipeline.New(pipelineConfig(), nil)
		preds := p.RunBatch(examples)

		opts := cfg.MetricOptions()
		scored := make([]metrics.ExampleScore, len(examples))
		for i := range examples {
			scored[i] = metrics.ExampleScore{
				Example:    examples[i],
				Prediction: preds[i],
				Score:      metrics.Compute(examples[i], preds[i], opts),
			}
		}
		report := metrics.Aggregate(scored, opts)

		fmt.Println(heading(fmt.Sprintf("Evaluation: %s split (%d examples)", evalSplit, len(examples))))
		fmt.Println(renderReport(report))
		if len(report.Errors) > 0 {
			fmt.Printf("\n%d low-scoring examples (worst first):\n", len(report.Errors))
			for _, e := range report.Errors {
				fmt.Printf("  %s: diverged on %s (overall %.0f%%)\n", e.ExampleID, e.Field, e.Overall*100)
			}
		}
		return nil
	},
}

func pickSplit(splits dataset.Splits, name string) ([]command.SpeechExample, error) {
	switch name {
	case "train":
		return splits.Train, nil
	case "dev":
		return splits.Dev, nil
	case "test":
		return splits.Test, nil
	}
	return nil, fmt.Errorf("unknown split %q (want train, dev, or test)", name)
}

func init() {
	evaluateCmd.Flags().StringVar(&evalData, "data", "data/commands.json", "dataset path")
	evaluateCmd.Flags().StringVar(&evalSplit, "split", "dev", "split to evaluate (train|dev|test)")
}
