// Package interpreter implements the simulated language model: a
// deterministic rule evaluator over household speech commands with
// realistic, seeded error injection. For a fixed (speech, speaker, seed,
// accuracy) tuple the output is byte-identical across calls and across
// instances; there is no hidden generator state.
package interpreter

import (
	"hash/fnv"
	"math/rand"
	"strings"

	"hearthvoice/internal/command"
)

// Config carries the knobs the simulated model needs. It is immutable and
// threaded explicitly through every call.
type Config struct {
	// Accuracy in [0,1]: with probability 1-Accuracy the resolved intent is
	// swapped for a confusable one.
	Accuracy float64

	// Seed drives the error-injection stream. The per-call source mixes the
	// seed with a hash of the input so repeated calls are reproducible.
	Seed int64
}

// Result is one interpretation: resolved intent, match confidence, and the
// extracted parameters.
type Result struct {
	Intent     command.Intent
	Confidence float64
	Parameters map[string]string
	Priority   command.Priority
}

// confidenceFloor is the minimum confidence for any successful rule match.
const confidenceFloor = 0.5

var fillerTokens = map[string]bool{"um": true, "uh": true, "please": true}

// stopwords are excluded from demonstration keyword-overlap voting so
// function words do not let an unrelated demonstration outvote a
// same-category one.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "for": true, "at": true,
	"on": true, "in": true, "of": true, "my": true, "me": true, "is": true,
	"it": true, "can": true, "you": true, "i": true, "we": true, "and": true,
}

// normalize lowercases, trims, and strips filler tokens, returning the
// normalized text and its token list.
func normalize(speech string) (string, []string) {
	lowered := strings.ToLower(strings.TrimSpace(speech))
	fields := strings.Fields(lowered)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?")
		if f == "" || fillerTokens[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return strings.Join(tokens, " "), tokens
}

// rng derives the per-call generator: seed XOR an FNV-1a hash of the
// normalized speech. Mixing the input in keeps Interpret a pure function
// while still letting batch callers vary outcomes via per-example seeds.
func (c Config) rng(normalized string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(normalized))
	return rand.New(rand.NewSource(c.Seed ^ int64(h.Sum64())))
}

// Interpret resolves a speech command into an intent, a confidence score,
// and extracted parameters. The speaker role is accepted as an input
// feature; the rule table itself is speaker-independent.
func Interpret(speech string, speaker command.Speaker, cfg Config, demos []command.SpeechExample) Result {
	intent, confidence := ResolveIntent(speech, speaker, cfg, demos)
	if intent == command.IntentNone {
		return Result{Intent: command.IntentNone, Parameters: map[string]string{}, Priority: command.PriorityLow}
	}
	params := ExtractParameters(speech, intent)
	return Result{
		Intent:     intent,
		Confidence: confidence,
		Parameters: params,
		Priority:   resolvePriority(speech, intent),
	}
}

// ResolveIntent runs the ordered rule table and the seeded error injector.
// No match yields (IntentNone, 0.0), which is a normal outcome, not a
// fault. Confidence reflects the pre-substitution match: a degraded intent
// with high confidence is the intended failure signature.
func ResolveIntent(speech string, _ command.Speaker, cfg Config, demos []command.SpeechExample) (command.Intent, float64) {
	if command.CheckSpeech(speech) != nil {
		return command.IntentNone, 0.0
	}
	normalized, tokens := normalize(speech)

	resolved := command.IntentNone
	confidence := 0.0
	for _, r := range ruleTable {
		matched, total, ok := r.strength(normalized, tokens)
		if !ok {
			continue
		}
		resolved = r.intent
		confidence = matchConfidence(matched, total)
		break
	}
	if resolved == command.IntentNone {
		return command.IntentNone, 0.0
	}

	rng := cfg.rng(normalized)
	if rng.Float64() < 1.0-cfg.Accuracy {
		resolved = substituteIntent(resolved, tokens, demos, rng)
	}
	return resolved, confidence
}

// matchConfidence maps match strength into [floor,1].
func matchConfidence(matched, total int) float64 {
	if total == 0 {
		return confidenceFloor
	}
	conf := confidenceFloor + (1.0-confidenceFloor)*float64(matched)/float64(total)
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// substituteIntent models a realistic misclassification. Without
// demonstrations it draws a confusable intent from the static table. With
// demonstrations, candidates (the resolved intent plus its confusables) are
// voted on by demonstration ground-truth labels, weighted by keyword
// overlap with the input; strong support for the originally resolved intent
// suppresses the error entirely, which is how demonstration selection
// improves accuracy.
func substituteIntent(resolved command.Intent, tokens []string, demos []command.SpeechExample, rng *rand.Rand) command.Intent {
	alternatives := confusables[resolved]
	if len(alternatives) == 0 {
		return resolved
	}

	if len(demos) > 0 {
		candidates := append([]command.Intent{resolved}, alternatives...)
		weights := make(map[command.Intent]int, len(candidates))
		tokenSet := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			if !stopwords[t] {
				tokenSet[t] = true
			}
		}
		for _, demo := range demos {
			_, demoTokens := normalize(demo.Speech)
			overlap := 0
			seen := make(map[string]bool, len(demoTokens))
			for _, dt := range demoTokens {
				if tokenSet[dt] && !seen[dt] {
					overlap++
					seen[dt] = true
				}
			}
			if overlap > 0 {
				weights[demo.Intent] += overlap
			}
		}
		best := command.IntentNone
		bestWeight := 0
		for _, cand := range candidates {
			if w := weights[cand]; w > bestWeight {
				best = cand
				bestWeight = w
			}
		}
		if best != command.IntentNone {
			return best
		}
	}

	return alternatives[rng.Intn(len(alternatives))]
}

// GenerateTask materializes the task for an already-resolved intent: the
// second call of the two-step pipeline. It is fully deterministic; error
// injection only happens during intent resolution.
func GenerateTask(speech string, intent command.Intent) command.Task {
	if intent == command.IntentNone || command.CheckSpeech(speech) != nil {
		return command.DefaultTask()
	}
	return command.Task{
		Action:     command.ActionFor(intent),
		Parameters: ExtractParameters(speech, intent),
		Priority:   resolvePriority(speech, intent),
	}
}

// resolvePriority applies urgency keywords over the schema default.
func resolvePriority(speech string, intent command.Intent) command.Priority {
	normalized, _ := normalize(speech)
	switch {
	case strings.Contains(normalized, "urgent"), strings.Contains(normalized, "right now"):
		return command.PriorityHigh
	case strings.Contains(normalized, "when you can"),
		strings.Contains(normalized, "whenever"),
		strings.Contains(normalized, "maybe"):
		return command.PriorityLow
	}
	return command.Schema(intent).DefaultPriority
}
