package dataset

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"hearthvoice/internal/command"
)

// Splits is the on-disk dataset layout: ordered example collections per
// split.
type Splits struct {
	Train []command.SpeechExample `json:"train"`
	Dev   []command.SpeechExample `json:"dev"`
	Test  []command.SpeechExample `json:"test"`
}

// Split shuffles (seeded) and partitions examples. The remainder after the
// train and dev ratios becomes the test split.
func Split(examples []command.SpeechExample, trainRatio, devRatio float64, seed int64) Splits {
	shuffled := make([]command.SpeechExample, len(examples))
	copy(shuffled, examples)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := len(shuffled)
	trainEnd := int(float64(n) * trainRatio)
	devEnd := trainEnd + int(float64(n)*devRatio)
	if devEnd > n {
		devEnd = n
	}
	return Splits{
		Train: shuffled[:trainEnd],
		Dev:   shuffled[trainEnd:devEnd],
		Test:  shuffled[devEnd:],
	}
}

// Save writes the dataset as indented JSON, creating parent directories.
func Save(splits Splits, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dataset: creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(splits, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset: encoding: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dataset: writing %s: %w", path, err)
	}
	return nil
}

// Load reads a dataset file and validates every record. A record missing
// an ID gets a generated one; any other shape problem is a schema
// violation and fails the load, since scoring against a corrupted ground
// truth would poison every derived metric.
func Load(path string) (Splits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Splits{}, fmt.Errorf("dataset: reading %s: %w", path, err)
	}
	var splits Splits
	if err := json.Unmarshal(data, &splits); err != nil {
		return Splits{}, fmt.Errorf("dataset: parsing %s: %w", path, err)
	}
	for _, split := range [][]command.SpeechExample{splits.Train, splits.Dev, splits.Test} {
		for i := range split {
			if split[i].ID == "" {
				split[i].ID = uuid.NewString()
			}
		}
		if err := command.ValidateAll(split); err != nil {
			return Splits{}, fmt.Errorf("dataset: %s: %w", path, err)
		}
	}
	return splits, nil
}
