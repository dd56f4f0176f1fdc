// Package command defines the shared data model for household speech
// commands: the closed intent enumeration, the task shape produced by the
// pipeline, and the per-intent parameter schema that interpreter, dataset
// generator, and metrics engine all agree on.
package command

import (
	"fmt"
	"strings"
)

// =============================================================================
// INTENT ENUMERATION
// =============================================================================

// Intent is the closed category of a spoken command. The enumeration is
// fixed; rule coverage and the confusable table are keyed on it.
type Intent int

const (
	IntentNone Intent = iota
	IntentTimer
	IntentReminder
	IntentShopping
	IntentSmartHome
	IntentInformation
	IntentEntertainment
	IntentCalendar
	IntentHelp
)

var intentNames = map[Intent]string{
	IntentNone:          "none",
	IntentTimer:         "timer",
	IntentReminder:      "reminder",
	IntentShopping:      "shopping",
	IntentSmartHome:     "smart_home",
	IntentInformation:   "information",
	IntentEntertainment: "entertainment",
	IntentCalendar:      "calendar",
	IntentHelp:          "help",
}

// Intents lists every real intent in canonical order. IntentNone is
// excluded: it marks the absence of a match, not a category.
func Intents() []Intent {
	return []Intent{
		IntentTimer, IntentReminder, IntentShopping, IntentSmartHome,
		IntentInformation, IntentEntertainment, IntentCalendar, IntentHelp,
	}
}

// String returns the canonical label (e.g. "smart_home").
func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "none"
}

// MarshalText makes Intent serialize as its label in JSON/YAML.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText parses an intent label, rejecting out-of-enumeration values.
func (i *Intent) UnmarshalText(text []byte) error {
	parsed, err := ParseIntent(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ParseIntent maps a label back to its Intent variant.
func ParseIntent(s string) (Intent, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for intent, name := range intentNames {
		if name == s {
			return intent, nil
		}
	}
	return IntentNone, fmt.Errorf("unknown intent %q", s)
}

// =============================================================================
// SPEAKER AND PRIORITY ENUMERATIONS
// =============================================================================

// Speaker is the role of the utterer. It is an input feature only; nothing
// beyond enumeration membership is validated.
type Speaker string

const (
	SpeakerParent Speaker = "parent"
	SpeakerChild  Speaker = "child"
	SpeakerTeen   Speaker = "teen"
)

// Valid reports whether the speaker is one of the three known roles.
func (s Speaker) Valid() bool {
	switch s {
	case SpeakerParent, SpeakerChild, SpeakerTeen:
		return true
	}
	return false
}

// Priority is the urgency attached to a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the three known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// =============================================================================
// TASK AND PREDICTION
// =============================================================================

// Task is the structured outcome of interpreting one command. Produced
// fresh per prediction and never mutated afterwards.
type Task struct {
	Action     string            `json:"action"`
	Parameters map[string]string `json:"parameters"`
	Priority   Priority          `json:"priority"`
}

// DefaultTask is the coercion target for malformed or unmatchable input.
func DefaultTask() Task {
	return Task{
		Action:     "unknown",
		Parameters: map[string]string{},
		Priority:   PriorityLow,
	}
}

// Clone returns a deep copy so callers can hold a Task without aliasing the
// parameter map.
func (t Task) Clone() Task {
	params := make(map[string]string, len(t.Parameters))
	for k, v := range t.Parameters {
		params[k] = v
	}
	return Task{Action: t.Action, Parameters: params, Priority: t.Priority}
}

// Prediction is a Task plus the resolved intent and the interpreter's
// confidence in [0,1]. Transient; owned by the pipeline caller.
type Prediction struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Task       Task    `json:"task"`
}

// SpeechExample is one labeled command: raw speech, speaker role, the
// ground-truth intent and the expected task. Immutable once loaded.
type SpeechExample struct {
	ID       string  `json:"id"`
	Speech   string  `json:"speech_input"`
	Speaker  Speaker `json:"speaker_context"`
	Intent   Intent  `json:"intent"`
	Expected Task    `json:"expected_task"`
}
