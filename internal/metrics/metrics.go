// Package metrics scores predicted tasks against ground truth. Compute is a
// pure per-example function; Aggregate is a separate reduction, so batch
// scoring parallelizes trivially and the two stages stay independently
// testable.
package metrics

import (
	"sort"
	"strings"

	"hearthvoice/internal/command"
)

// Weights blend the component scores into overall_accuracy. The 50/30/20
// split is a policy choice inherited from the original evaluation, kept
// configurable rather than assumed optimal.
type Weights struct {
	Intent       float64 `json:"intent" yaml:"intent"`
	Parameters   float64 `json:"parameters" yaml:"parameters"`
	Completeness float64 `json:"completeness" yaml:"completeness"`
}

// DefaultWeights returns the standard 50/30/20 blend.
func DefaultWeights() Weights {
	return Weights{Intent: 0.5, Parameters: 0.3, Completeness: 0.2}
}

// Options carries the scoring policy knobs.
type Options struct {
	Weights Weights

	// FuzzyThreshold is the minimum token-overlap ratio for two parameter
	// values to count as matching.
	FuzzyThreshold float64

	// ErrorScoreThreshold: examples whose overall score falls below this
	// land in the report's error list.
	ErrorScoreThreshold float64

	// ErrorListCap bounds the error list; the lowest-scoring examples are
	// kept when more qualify.
	ErrorListCap int
}

// DefaultOptions returns the standard scoring policy.
func DefaultOptions() Options {
	return Options{
		Weights:             DefaultWeights(),
		FuzzyThreshold:      0.6,
		ErrorScoreThreshold: 0.5,
		ErrorListCap:        50,
	}
}

// Score is the per-example score vector. All values are in [0,1].
type Score struct {
	Intent     float64 `json:"intent_accuracy"`
	Action     float64 `json:"action_accuracy"`
	Parameter  float64 `json:"parameter_accuracy"`
	Priority   float64 `json:"priority_accuracy"`
	ExactMatch float64 `json:"exact_match"`
	Overall    float64 `json:"overall_accuracy"`
}

// Metric looks a score component up by its report field name.
func (s Score) Metric(name string) float64 {
	switch name {
	case "intent_accuracy":
		return s.Intent
	case "action_accuracy":
		return s.Action
	case "parameter_accuracy":
		return s.Parameter
	case "priority_accuracy":
		return s.Priority
	case "exact_match":
		return s.ExactMatch
	default:
		return s.Overall
	}
}

// Compute scores one prediction against its ground truth. Identical inputs
// always yield an identical vector.
func Compute(expected command.SpeechExample, pred command.Prediction, opts Options) Score {
	var s Score
	if pred.Intent == expected.Intent {
		s.Intent = 1.0
	}
	if pred.Task.Action == expected.Expected.Action {
		s.Action = 1.0
	}
	if pred.Task.Priority == expected.Expected.Priority {
		s.Priority = 1.0
	}
	s.Parameter = parameterScore(expected, pred.Task, opts.FuzzyThreshold)
	if s.Intent == 1.0 && s.Action == 1.0 && s.Priority == 1.0 && paramsIdentical(expected.Expected.Parameters, pred.Task.Parameters) {
		s.ExactMatch = 1.0
	}

	w := opts.Weights
	s.Overall = w.Intent*s.Intent + w.Parameters*s.Parameter + w.Completeness*completeness(expected.Intent, pred.Task)
	return s
}

// parameterScore checks each key the ground truth expects. A key outside
// the intent's schema is never scored; an example expecting zero
// parameters scores 1.0.
func parameterScore(expected command.SpeechExample, predicted command.Task, threshold float64) float64 {
	schema := command.Schema(expected.Intent)
	total := 0
	matched := 0
	for key, want := range expected.Expected.Parameters {
		if !schema.KnownParam(key) {
			continue
		}
		total++
		got, ok := predicted.Parameters[key]
		if ok && fuzzyEqual(want, got, threshold) {
			matched++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(matched) / float64(total)
}

// fuzzyEqual tolerates phrasing variation: normalized token-overlap ratio
// at/above the threshold, or one normalized value containing the other.
func fuzzyEqual(a, b string, threshold float64) bool {
	na, nb := normalizeValue(a), normalizeValue(b)
	if na == nb {
		return true
	}
	if na != "" && nb != "" && (strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return true
	}
	return tokenOverlap(na, nb) >= threshold
}

func normalizeValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// tokenOverlap is |intersection| / |union| over whitespace tokens.
func tokenOverlap(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	union := make(map[string]bool, len(ta)+len(tb))
	for _, t := range ta {
		union[t] = true
	}
	inter := 0
	seen := make(map[string]bool, len(tb))
	for _, t := range tb {
		union[t] = true
		if set[t] && !seen[t] {
			inter++
			seen[t] = true
		}
	}
	return float64(inter) / float64(len(union))
}

func paramsIdentical(want, got map[string]string) bool {
	if len(want) != len(got) {
		return false
	}
	for k, v := range want {
		if gv, ok := got[k]; !ok || gv != v {
			return false
		}
	}
	return true
}

// completeness is the fraction of the task's required fields that are
// non-empty and non-default in the prediction: action, priority, and the
// schema-required parameter keys of the expected intent.
func completeness(intent command.Intent, predicted command.Task) float64 {
	schema := command.Schema(intent)
	total := 2 + len(schema.RequiredParams)
	present := 0
	if predicted.Action != "" && predicted.Action != "unknown" {
		present++
	}
	if predicted.Priority != "" {
		present++
	}
	for _, key := range schema.RequiredParams {
		if v, ok := predicted.Parameters[key]; ok && strings.TrimSpace(v) != "" {
			present++
		}
	}
	return float64(present) / float64(total)
}

// =============================================================================
// AGGREGATION
// =============================================================================

// ExampleScore pairs one example with its prediction and score vector.
type ExampleScore struct {
	Example    command.SpeechExample
	Prediction command.Prediction
	Score      Score
}

// ErrorRecord annotates a low-scoring example with the field that diverged
// most (tie-break priority: intent > action > parameters > priority).
type ErrorRecord struct {
	ExampleID string       `json:"example_id"`
	Expected  command.Task `json:"expected"`
	Predicted command.Task `json:"predicted"`
	Field     string       `json:"field"`
	Overall   float64      `json:"overall_accuracy"`
}

// Report is the aggregated metric set over an example collection, with a
// per-intent-category breakdown and a bounded error list.
type Report struct {
	Examples          int                `json:"examples"`
	IntentAccuracy    float64            `json:"intent_accuracy"`
	ActionAccuracy    float64            `json:"action_accuracy"`
	ParameterAccuracy float64            `json:"parameter_accuracy"`
	PriorityAccuracy  float64            `json:"priority_accuracy"`
	ExactMatch        float64            `json:"exact_match"`
	OverallAccuracy   float64            `json:"overall_accuracy"`
	Categories        map[string]*Report `json:"categories,omitempty"`
	Errors            []ErrorRecord      `json:"errors,omitempty"`
}

// Metric looks an aggregate metric up by its serialized name.
func (r *Report) Metric(name string) float64 {
	switch name {
	case "intent_accuracy":
		return r.IntentAccuracy
	case "action_accuracy":
		return r.ActionAccuracy
	case "parameter_accuracy":
		return r.ParameterAccuracy
	case "priority_accuracy":
		return r.PriorityAccuracy
	case "exact_match":
		return r.ExactMatch
	default:
		return r.OverallAccuracy
	}
}

// MetricNames lists the aggregate metrics in report order.
func MetricNames() []string {
	return []string{
		"intent_accuracy", "action_accuracy", "parameter_accuracy",
		"priority_accuracy", "exact_match", "overall_accuracy",
	}
}

// Aggregate averages score vectors into a report. The per-category
// breakdown re-runs the same averaging restricted to each ground-truth
// intent; category sub-reports carry no nested categories or error lists.
func Aggregate(scored []ExampleScore, opts Options) *Report {
	report := averages(scored)

	byCategory := make(map[string][]ExampleScore)
	for _, es := range scored {
		cat := es.Example.Intent.String()
		byCategory[cat] = append(byCategory[cat], es)
	}
	if len(byCategory) > 0 {
		report.Categories = make(map[string]*Report, len(byCategory))
		for cat, subset := range byCategory {
			report.Categories[cat] = averages(subset)
		}
	}

	report.Errors = collectErrors(scored, opts)
	return report
}

func averages(scored []ExampleScore) *Report {
	r := &Report{Examples: len(scored)}
	if len(scored) == 0 {
		return r
	}
	for _, es := range scored {
		r.IntentAccuracy += es.Score.Intent
		r.ActionAccuracy += es.Score.Action
		r.ParameterAccuracy += es.Score.Parameter
		r.PriorityAccuracy += es.Score.Priority
		r.ExactMatch += es.Score.ExactMatch
		r.OverallAccuracy += es.Score.Overall
	}
	n := float64(len(scored))
	r.IntentAccuracy /= n
	r.ActionAccuracy /= n
	r.ParameterAccuracy /= n
	r.PriorityAccuracy /= n
	r.ExactMatch /= n
	r.OverallAccuracy /= n
	return r
}

// collectErrors keeps the lowest-scoring qualifying examples, ascending by
// overall score with input order as the tie-break, capped at ErrorListCap.
func collectErrors(scored []ExampleScore, opts Options) []ErrorRecord {
	type candidate struct {
		es    ExampleScore
		index int
	}
	var candidates []candidate
	for i, es := range scored {
		if es.Score.Overall < opts.ErrorScoreThreshold {
			candidates = append(candidates, candidate{es: es, index: i})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].es.Score.Overall != candidates[j].es.Score.Overall {
			return candidates[i].es.Score.Overall < candidates[j].es.Score.Overall
		}
		return candidates[i].index < candidates[j].index
	})
	if opts.ErrorListCap > 0 && len(candidates) > opts.ErrorListCap {
		candidates = candidates[:opts.ErrorListCap]
	}

	records := make([]ErrorRecord, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, ErrorRecord{
			ExampleID: c.es.Example.ID,
			Expected:  c.es.Example.Expected.Clone(),
			Predicted: c.es.Prediction.Task.Clone(),
			Field:     divergedField(c.es.Score),
			Overall:   c.es.Score.Overall,
		})
	}
	return records
}

func divergedField(s Score) string {
	switch {
	case s.Intent < 1.0:
		return "intent"
	case s.Action < 1.0:
		return "action"
	case s.Parameter < 1.0:
		return "parameters"
	case s.Priority < 1.0:
		return "priority"
	default:
		return "none"
	}
}

// Delta reports optimized minus baseline per metric.
func Delta(baseline, optimized *Report) map[string]float64 {
	delta := make(map[string]float64, 6)
	for _, name := range MetricNames() {
		delta[name] = optimized.Metric(name) - baseline.Metric(name)
	}
	return delta
}
