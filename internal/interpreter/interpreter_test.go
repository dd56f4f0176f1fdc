package interpreter

import (
	"testing"

	"hearthvoice/internal/command"
)

func perfect() Config { return Config{Accuracy: 1.0, Seed: 42} }

func TestInterpret_TimerCommand(t *testing.T) {
	t.Parallel()

	res := Interpret("Set timer for 20 minutes", command.SpeakerParent, perfect(), nil)
	if res.Intent != command.IntentTimer {
		t.Fatalf("intent = %v, want timer", res.Intent)
	}
	if res.Confidence < 0.8 {
		t.Errorf("confidence = %v, want >= 0.8", res.Confidence)
	}
	if got := res.Parameters["duration"]; got != "20 minutes" {
		t.Errorf("duration = %q, want \"20 minutes\"", got)
	}
	if res.Priority != command.PriorityHigh {
		t.Errorf("priority = %v, want high", res.Priority)
	}
}

func TestInterpret_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Set timer for 20 minutes",
		"Remind me to feed the dog at 3pm",
		"We're out of milk",
		"Turn off the bedroom lights",
		"mumble mumble nothing",
	}
	cfg := Config{Accuracy: 0.3, Seed: 99}
	for _, speech := range inputs {
		first := Interpret(speech, command.SpeakerChild, cfg, nil)
		for i := 0; i < 5; i++ {
			again := Interpret(speech, command.SpeakerChild, cfg, nil)
			if again.Intent != first.Intent || again.Confidence != first.Confidence {
				t.Fatalf("%q: call %d diverged: %+v vs %+v", speech, i, again, first)
			}
			for k, v := range first.Parameters {
				if again.Parameters[k] != v {
					t.Fatalf("%q: parameter %q diverged", speech, k)
				}
			}
		}
	}
}

func TestResolveIntent_MatchConfidenceFloor(t *testing.T) {
	t.Parallel()

	// A single trigger hit with no support still clears the floor.
	intent, confidence := ResolveIntent("timer", command.SpeakerParent, perfect(), nil)
	if intent != command.IntentTimer {
		t.Fatalf("intent = %v, want timer", intent)
	}
	if confidence < 0.5 {
		t.Errorf("confidence = %v, want >= 0.5", confidence)
	}
}

func TestResolveIntent_NoMatch(t *testing.T) {
	t.Parallel()

	intent, confidence := ResolveIntent("gibberish banana spaceship", command.SpeakerTeen, perfect(), nil)
	if intent != command.IntentNone {
		t.Errorf("intent = %v, want none", intent)
	}
	if confidence != 0.0 {
		t.Errorf("confidence = %v, want 0.0", confidence)
	}
}

func TestResolveIntent_MalformedInput(t *testing.T) {
	t.Parallel()

	intent, confidence := ResolveIntent("   ", command.SpeakerParent, perfect(), nil)
	if intent != command.IntentNone || confidence != 0.0 {
		t.Errorf("got (%v, %v), want (none, 0.0)", intent, confidence)
	}
}

func TestResolveIntent_FillerWordsIgnored(t *testing.T) {
	t.Parallel()

	plain, _ := ResolveIntent("Set timer for 10 minutes", command.SpeakerParent, perfect(), nil)
	filled, _ := ResolveIntent("um please Set timer for 10 minutes", command.SpeakerParent, perfect(), nil)
	if plain != filled {
		t.Errorf("filler words changed the intent: %v vs %v", plain, filled)
	}
}

func TestResolveIntent_ErrorInjection(t *testing.T) {
	t.Parallel()

	// Accuracy 0 forces substitution on every call; the substituted
	// intent must come from the confusable table, never be arbitrary.
	cfg := Config{Accuracy: 0.0, Seed: 7}
	intent, confidence := ResolveIntent("Set timer for 20 minutes", command.SpeakerParent, cfg, nil)
	if intent == command.IntentTimer {
		t.Fatal("accuracy 0 should always substitute the intent")
	}
	allowed := map[command.Intent]bool{}
	for _, c := range confusables[command.IntentTimer] {
		allowed[c] = true
	}
	if !allowed[intent] {
		t.Errorf("substituted intent %v is not a confusable of timer", intent)
	}
	// Confidence reflects the pre-substitution match: degraded but
	// confident is the intended failure signature.
	if confidence < 0.5 {
		t.Errorf("confidence = %v, want the original match confidence", confidence)
	}
}

func TestResolveIntent_ErrorRateRoughlyTracksAccuracy(t *testing.T) {
	t.Parallel()

	// Across many distinct inputs (distinct derived rng streams), the
	// substitution rate should sit near 1-accuracy.
	cfg := Config{Accuracy: 0.8, Seed: 1}
	errs := 0
	n := 500
	for i := 0; i < n; i++ {
		speech := "Set timer for " + string(rune('a'+i%26)) + " minutes"
		intent, _ := ResolveIntent(speech, command.SpeakerParent, Config{Accuracy: cfg.Accuracy, Seed: int64(i)}, nil)
		if intent != command.IntentTimer {
			errs++
		}
	}
	rate := float64(errs) / float64(n)
	if rate < 0.1 || rate > 0.35 {
		t.Errorf("substitution rate = %v, want around 0.2", rate)
	}
}

func TestSubstituteIntent_DemonstrationBias(t *testing.T) {
	t.Parallel()

	// Timer demonstrations with strong keyword overlap should suppress
	// the injected error entirely.
	demos := []command.SpeechExample{
		{ID: "d1", Speech: "Set timer for 10 minutes", Speaker: command.SpeakerParent, Intent: command.IntentTimer},
		{ID: "d2", Speech: "Start a 5 minute timer", Speaker: command.SpeakerParent, Intent: command.IntentTimer},
	}
	cfg := Config{Accuracy: 0.0, Seed: 7}
	intent, _ := ResolveIntent("Set timer for 20 minutes", command.SpeakerParent, cfg, demos)
	if intent != command.IntentTimer {
		t.Errorf("intent = %v, want timer (error suppressed by demonstrations)", intent)
	}
}

func TestSubstituteIntent_DemosWithoutOverlapFallBack(t *testing.T) {
	t.Parallel()

	// Demonstrations sharing no content words leave the seeded
	// confusable draw untouched.
	demos := []command.SpeechExample{
		{ID: "d1", Speech: "What's the weather today", Speaker: command.SpeakerChild, Intent: command.IntentInformation},
	}
	cfg := Config{Accuracy: 0.0, Seed: 7}
	with, _ := ResolveIntent("Set timer for 20 minutes", command.SpeakerParent, cfg, demos)
	without, _ := ResolveIntent("Set timer for 20 minutes", command.SpeakerParent, cfg, nil)
	if with != without {
		t.Errorf("non-overlapping demos changed the outcome: %v vs %v", with, without)
	}
}

func TestGenerateTask_UnknownIntent(t *testing.T) {
	t.Parallel()

	task := GenerateTask("Set timer for 20 minutes", command.IntentNone)
	if task.Action != "unknown" {
		t.Errorf("action = %q, want unknown", task.Action)
	}
}

func TestConfusables_NeverSelfAndAlwaysCovered(t *testing.T) {
	t.Parallel()

	for _, intent := range command.Intents() {
		alts, ok := confusables[intent]
		if !ok || len(alts) == 0 {
			t.Errorf("intent %v has no confusables", intent)
			continue
		}
		for _, alt := range alts {
			if alt == intent {
				t.Errorf("intent %v lists itself as confusable", intent)
			}
		}
	}
}

func TestRuleTable_CoversEveryIntent(t *testing.T) {
	t.Parallel()

	seen := map[command.Intent]bool{}
	for _, r := range ruleTable {
		if seen[r.intent] {
			t.Errorf("intent %v appears twice in the rule table", r.intent)
		}
		seen[r.intent] = true
		if len(r.triggers) == 0 {
			t.Errorf("rule for %v has no trigger keywords", r.intent)
		}
	}
	for _, intent := range command.Intents() {
		if !seen[intent] {
			t.Errorf("intent %v has no rule", intent)
		}
	}
}
