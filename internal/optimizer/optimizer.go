// Package optimizer selects few-shot demonstrations that bias the
// interpreter toward previously successful outputs, then measures the
// before/after effect on a fixed evaluation split. The whole procedure is
// deterministic for a fixed seed, K, and input ordering.
package optimizer

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"hearthvoice/internal/command"
	"hearthvoice/internal/logging"
	"hearthvoice/internal/metrics"
	"hearthvoice/internal/pipeline"
)

// Config carries the optimization knobs.
type Config struct {
	// K bounds the demonstration sequence. K=0 makes the run a no-op: the
	// optimized report equals the baseline exactly.
	K int

	// TargetMetric ranks training examples for bootstrap selection.
	// Defaults to overall_accuracy.
	TargetMetric string

	// SuccessThreshold: a training example is a bootstrap success when its
	// exact_match is 1 or its target-metric score is at/above this value.
	SuccessThreshold float64

	// Metrics is the scoring policy shared by both passes.
	Metrics metrics.Options
}

// DefaultConfig returns the standard optimization policy.
func DefaultConfig() Config {
	return Config{
		K:                4,
		TargetMetric:     "overall_accuracy",
		SuccessThreshold: 0.9,
		Metrics:          metrics.DefaultOptions(),
	}
}

// Result is the immutable outcome of one optimization run.
type Result struct {
	Baseline       *metrics.Report         `json:"baseline"`
	Optimized      *metrics.Report         `json:"optimized"`
	Demonstrations []command.SpeechExample `json:"demonstrations"`
	Delta          map[string]float64      `json:"delta"`

	// Warnings records graceful degradations (e.g. a training set smaller
	// than K) separately from the metric tables.
	Warnings []string `json:"warnings,omitempty"`

	// Malformed counts inputs that were coerced to the default task rather
	// than scored against real interpretation, split by pass. Reported
	// apart from the metrics so data-quality issues are not mistaken for
	// model performance.
	MalformedTrain int `json:"malformed_train"`
	MalformedEval  int `json:"malformed_eval"`
}

// Optimize runs the bootstrap few-shot workflow: baseline the training
// split, select up to K demonstrations, then compare demonstration-biased
// and plain passes over the evaluation split. A schema violation in either
// split aborts the run; malformed speech is merely counted.
func Optimize(train, eval []command.SpeechExample, pcfg pipeline.Config, cfg Config) (*Result, error) {
	if cfg.TargetMetric == "" {
		cfg.TargetMetric = "overall_accuracy"
	}
	if cfg.K < 0 {
		return nil, fmt.Errorf("optimize: K must be non-negative, got %d", cfg.K)
	}
	if err := command.ValidateAll(train); err != nil {
		return nil, fmt.Errorf("optimize: training split: %w", err)
	}
	if err := command.ValidateAll(eval); err != nil {
		return nil, fmt.Errorf("optimize: evaluation split: %w", err)
	}

	log := logging.Named("optimizer")
	log.Info("starting optimization",
		zap.Int("train", len(train)), zap.Int("eval", len(eval)),
		zap.Int("k", cfg.K), zap.String("target_metric", cfg.TargetMetric))

	result := &Result{
		MalformedTrain: countMalformed(train),
		MalformedEval:  countMalformed(eval),
	}

	// Baseline pass over the training split feeds demonstration selection.
	trainScores := runAndScore(pipeline.New(pcfg, nil), train, cfg.Metrics)
	demos, warnings := selectDemonstrations(train, trainScores, cfg)
	result.Demonstrations = demos
	result.Warnings = warnings

	// Both evaluation reports come from the same split so the comparison
	// is fair: one pass without demonstrations, one with.
	result.Baseline = metrics.Aggregate(runAndScore(pipeline.New(pcfg, nil), eval, cfg.Metrics), cfg.Metrics)
	result.Optimized = metrics.Aggregate(runAndScore(pipeline.New(pcfg, demos), eval, cfg.Metrics), cfg.Metrics)
	result.Delta = metrics.Delta(result.Baseline, result.Optimized)

	log.Info("optimization complete",
		zap.Int("demonstrations", len(demos)),
		zap.Float64("baseline_overall", result.Baseline.OverallAccuracy),
		zap.Float64("optimized_overall", result.Optimized.OverallAccuracy))
	return result, nil
}

func countMalformed(examples []command.SpeechExample) int {
	n := 0
	for _, ex := range examples {
		if command.CheckSpeech(ex.Speech) != nil {
			n++
		}
	}
	return n
}

func runAndScore(p *pipeline.Pipeline, examples []command.SpeechExample, opts metrics.Options) []metrics.ExampleScore {
	preds := p.RunBatch(examples)
	scored := make([]metrics.ExampleScore, len(examples))
	for i := range examples {
		scored[i] = metrics.ExampleScore{
			Example:    examples[i],
			Prediction: preds[i],
			Score:      metrics.Compute(examples[i], preds[i], opts),
		}
	}
	return scored
}

// selectDemonstrations ranks training examples by the target metric and
// takes up to K bootstrap successes; remaining slots are backfilled with
// ground-truth examples in training-set order. Bootstrapped entries carry
// the interpreter's own (correct) output as their task so the sequence
// reflects achievable output style; no example appears twice.
func selectDemonstrations(train []command.SpeechExample, scored []metrics.ExampleScore, cfg Config) ([]command.SpeechExample, []string) {
	var warnings []string
	if cfg.K == 0 {
		return nil, nil
	}
	if len(train) < cfg.K {
		warnings = append(warnings, fmt.Sprintf(
			"insufficient training data: requested %d demonstrations, %d examples available",
			cfg.K, len(train)))
	}

	ranked := make([]int, 0, len(scored))
	for i, es := range scored {
		if es.Score.ExactMatch == 1.0 || es.Score.Metric(cfg.TargetMetric) >= cfg.SuccessThreshold {
			ranked = append(ranked, i)
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		sa := scored[ranked[a]].Score.Metric(cfg.TargetMetric)
		sb := scored[ranked[b]].Score.Metric(cfg.TargetMetric)
		if sa != sb {
			return sa > sb
		}
		return ranked[a] < ranked[b]
	})

	demos := make([]command.SpeechExample, 0, cfg.K)
	chosen := make(map[int]bool, cfg.K)
	for _, idx := range ranked {
		if len(demos) == cfg.K {
			break
		}
		demos = append(demos, bootstrapDemo(train[idx], scored[idx].Prediction))
		chosen[idx] = true
	}

	// Backfill with raw ground truth, in training-set order.
	for idx := range train {
		if len(demos) == cfg.K {
			break
		}
		if chosen[idx] || command.CheckSpeech(train[idx].Speech) != nil {
			continue
		}
		demos = append(demos, train[idx])
		chosen[idx] = true
	}
	return demos, warnings
}

// bootstrapDemo rebuilds the example around the interpreter's own output.
func bootstrapDemo(ex command.SpeechExample, pred command.Prediction) command.SpeechExample {
	return command.SpeechExample{
		ID:       ex.ID,
		Speech:   ex.Speech,
		Speaker:  ex.Speaker,
		Intent:   pred.Intent,
		Expected: pred.Task.Clone(),
	}
}
