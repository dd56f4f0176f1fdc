package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInput marks speech text that cannot be interpreted at all
// (empty or whitespace-only). The pipeline recovers from it locally by
// coercing to the default task; it is never surfaced to callers.
var ErrMalformedInput = errors.New("malformed speech input")

// SchemaViolationError reports a ground-truth record that does not conform
// to the data model. Unlike malformed speech, this is fatal for the batch:
// scoring against a corrupted expectation would invalidate every derived
// metric.
type SchemaViolationError struct {
	ExampleID string
	Field     string
	Reason    string
}

func (e *SchemaViolationError) Error() string {
	id := e.ExampleID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("schema violation in example %s: field %q: %s", id, e.Field, e.Reason)
}

// CheckSpeech classifies raw speech text as usable or malformed.
func CheckSpeech(speech string) error {
	if strings.TrimSpace(speech) == "" {
		return ErrMalformedInput
	}
	return nil
}

// Validate checks a labeled example against the data model. Speech may be
// empty (that is a recoverable MalformedInput, counted separately), but the
// ground-truth side must be fully in-enumeration.
func (ex SpeechExample) Validate() error {
	if !ex.Speaker.Valid() {
		return &SchemaViolationError{ExampleID: ex.ID, Field: "speaker_context",
			Reason: fmt.Sprintf("%q is not one of parent|child|teen", ex.Speaker)}
	}
	if ex.Intent == IntentNone {
		return &SchemaViolationError{ExampleID: ex.ID, Field: "intent",
			Reason: "ground truth must carry a real intent"}
	}
	if _, ok := schemas[ex.Intent]; !ok {
		return &SchemaViolationError{ExampleID: ex.ID, Field: "intent",
			Reason: fmt.Sprintf("%q is outside the enumeration", ex.Intent)}
	}
	if ex.Expected.Action == "" {
		return &SchemaViolationError{ExampleID: ex.ID, Field: "expected_task.action",
			Reason: "missing required field"}
	}
	if _, ok := IntentForAction(ex.Expected.Action); !ok {
		return &SchemaViolationError{ExampleID: ex.ID, Field: "expected_task.action",
			Reason: fmt.Sprintf("%q does not match any schema action", ex.Expected.Action)}
	}
	if !ex.Expected.Priority.Valid() {
		return &SchemaViolationError{ExampleID: ex.ID, Field: "expected_task.priority",
			Reason: fmt.Sprintf("%q is not one of low|medium|high", ex.Expected.Priority)}
	}
	return nil
}

// ValidateAll validates a whole split, failing on the first violation.
func ValidateAll(examples []SpeechExample) error {
	for _, ex := range examples {
		if err := ex.Validate(); err != nil {
			return err
		}
	}
	return nil
}
