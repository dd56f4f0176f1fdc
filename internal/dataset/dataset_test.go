package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"hearthvoice/internal/command"
	"hearthvoice/internal/interpreter"
	"hearthvoice/internal/metrics"
	"hearthvoice/internal/pipeline"
)

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	first := Generate(80, 42)
	second := Generate(80, 42)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different datasets (-first +second):\n%s", diff)
	}

	other := Generate(80, 43)
	if diff := cmp.Diff(first, other); diff == "" {
		t.Error("different seeds produced identical datasets")
	}
}

func TestGenerate_AllRecordsValid(t *testing.T) {
	t.Parallel()

	examples := Generate(200, 7)
	if len(examples) != 200 {
		t.Fatalf("got %d examples, want 200", len(examples))
	}
	if err := command.ValidateAll(examples); err != nil {
		t.Fatalf("generated dataset fails validation: %v", err)
	}
	for _, ex := range examples {
		if ex.Expected.Action != command.ActionFor(ex.Intent) {
			t.Errorf("%s: action %q does not match intent %v", ex.ID, ex.Expected.Action, ex.Intent)
		}
		if ex.Expected.Priority != command.Schema(ex.Intent).DefaultPriority {
			t.Errorf("%s: priority %q is not the %v default", ex.ID, ex.Expected.Priority, ex.Intent)
		}
	}
}

// A noise-free interpreter must reproduce the generated ground truth
// exactly: the phrasing templates stay inside what the extraction rules
// understand.
func TestGenerate_PerfectInterpreterScoresExactMatch(t *testing.T) {
	t.Parallel()

	examples := Generate(150, 42)
	p := pipeline.New(pipeline.Config{
		Interpreter: interpreter.Config{Accuracy: 1.0, Seed: 42},
		Mode:        pipeline.ModeTwoStep,
	}, nil)
	preds := p.RunBatch(examples)

	opts := metrics.DefaultOptions()
	for i, ex := range examples {
		s := metrics.Compute(ex, preds[i], opts)
		if s.ExactMatch != 1.0 {
			t.Errorf("%s (%q): not an exact match\nexpected: %+v\npredicted: %+v",
				ex.ID, ex.Speech, ex.Expected, preds[i].Task)
		}
	}
}

func TestSplit_RatiosAndPartition(t *testing.T) {
	t.Parallel()

	examples := Generate(100, 42)
	splits := Split(examples, 0.6, 0.2, 42)

	if len(splits.Train) != 60 || len(splits.Dev) != 20 || len(splits.Test) != 20 {
		t.Fatalf("split sizes = %d/%d/%d, want 60/20/20",
			len(splits.Train), len(splits.Dev), len(splits.Test))
	}

	seen := make(map[string]bool, 100)
	for _, split := range [][]command.SpeechExample{splits.Train, splits.Dev, splits.Test} {
		for _, ex := range split {
			if seen[ex.ID] {
				t.Errorf("example %s appears in more than one split", ex.ID)
			}
			seen[ex.ID] = true
		}
	}
	if len(seen) != 100 {
		t.Errorf("splits cover %d distinct examples, want 100", len(seen))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	t.Parallel()

	examples := Generate(50, 42)
	first := Split(examples, 0.6, 0.2, 99)
	second := Split(examples, 0.6, 0.2, 99)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different splits (-first +second):\n%s", diff)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	splits := Split(Generate(60, 42), 0.6, 0.2, 42)
	path := filepath.Join(t.TempDir(), "data", "commands.json")

	if err := Save(splits, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(splits, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestLoad_BackfillsMissingIDs(t *testing.T) {
	t.Parallel()

	raw := `{
	  "train": [
	    {
	      "speech_input": "Set timer for 20 minutes",
	      "speaker_context": "parent",
	      "intent": "timer",
	      "expected_task": {
	        "action": "set_timer",
	        "parameters": {"duration": "20 minutes"},
	        "priority": "high"
	      }
	    }
	  ]
	}`
	path := filepath.Join(t.TempDir(), "commands.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	splits, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(splits.Train) != 1 || splits.Train[0].ID == "" {
		t.Errorf("expected a generated ID, got %+v", splits.Train)
	}
}

func TestLoad_RejectsSchemaViolation(t *testing.T) {
	t.Parallel()

	raw := `{
	  "train": [
	    {
	      "id": "ex-bad",
	      "speech_input": "Set timer for 20 minutes",
	      "speaker_context": "grandparent",
	      "intent": "timer",
	      "expected_task": {
	        "action": "set_timer",
	        "parameters": {},
	        "priority": "high"
	      }
	    }
	  ]
	}`
	path := filepath.Join(t.TempDir(), "commands.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected a schema violation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
