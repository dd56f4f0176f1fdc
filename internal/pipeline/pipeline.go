// Package pipeline orchestrates interpreter calls into well-formed task
// predictions. It never fails on bad input: malformed speech and unmatched
// commands coerce to the default task so batch runs stay length- and
// order-preserving.
package pipeline

import (
	"hearthvoice/internal/command"
	"hearthvoice/internal/interpreter"
	"hearthvoice/internal/logging"

	"golang.org/x/sync/errgroup"
)

// Mode selects how many interpreter calls produce one task.
type Mode string

const (
	// ModeTwoStep resolves the intent first, then materializes the task
	// from that intent's rule subset with a second interpreter call.
	ModeTwoStep Mode = "two_step"

	// ModeDirect resolves intent and task fields in a single call.
	ModeDirect Mode = "direct"
)

// Config selects the operating mode and carries the interpreter knobs.
type Config struct {
	Interpreter interpreter.Config
	Mode        Mode

	// Workers bounds batch parallelism. Zero or negative means serial.
	Workers int
}

// Pipeline turns speech commands into predictions.
type Pipeline struct {
	cfg   Config
	demos []command.SpeechExample
}

// New builds a pipeline. The demonstration sequence, when non-empty, is
// passed through to intent resolution as disambiguation context; it does
// not change control flow.
func New(cfg Config, demos []command.SpeechExample) *Pipeline {
	if cfg.Mode == "" {
		cfg.Mode = ModeTwoStep
	}
	return &Pipeline{cfg: cfg, demos: demos}
}

// Run interprets one command. The returned prediction always carries a
// well-formed task; an unusable input yields the default task with intent
// none and confidence zero.
func (p *Pipeline) Run(speech string, speaker command.Speaker) command.Prediction {
	return p.runWithConfig(speech, speaker, p.cfg.Interpreter)
}

func (p *Pipeline) runWithConfig(speech string, speaker command.Speaker, icfg interpreter.Config) command.Prediction {
	if err := command.CheckSpeech(speech); err != nil {
		logging.L().Debug("coercing malformed input to default task")
		return command.Prediction{Intent: command.IntentNone, Confidence: 0.0, Task: command.DefaultTask()}
	}

	switch p.cfg.Mode {
	case ModeDirect:
		res := interpreter.Interpret(speech, speaker, icfg, p.demos)
		return toPrediction(res)
	default:
		intent, confidence := interpreter.ResolveIntent(speech, speaker, icfg, p.demos)
		task := interpreter.GenerateTask(speech, intent)
		return command.Prediction{Intent: intent, Confidence: confidence, Task: task}
	}
}

func toPrediction(res interpreter.Result) command.Prediction {
	if res.Intent == command.IntentNone {
		return command.Prediction{Intent: command.IntentNone, Confidence: 0.0, Task: command.DefaultTask()}
	}
	return command.Prediction{
		Intent:     res.Intent,
		Confidence: res.Confidence,
		Task: command.Task{
			Action:     command.ActionFor(res.Intent),
			Parameters: res.Parameters,
			Priority:   res.Priority,
		},
	}
}

// RunBatch interprets a list of examples, strictly order- and
// length-preserving. Per-example seeds are derived as base seed XOR index,
// and results land in a pre-sized slice by index, so the parallel and
// serial paths produce identical output.
func (p *Pipeline) RunBatch(examples []command.SpeechExample) []command.Prediction {
	out := make([]command.Prediction, len(examples))
	if len(examples) == 0 {
		return out
	}

	run := func(i int) {
		icfg := p.cfg.Interpreter
		icfg.Seed = icfg.Seed ^ int64(i)
		out[i] = p.runWithConfig(examples[i].Speech, examples[i].Speaker, icfg)
	}

	if p.cfg.Workers <= 1 {
		for i := range examples {
			run(i)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)
	for i := range examples {
		i := i
		g.Go(func() error {
			run(i)
			return nil
		})
	}
	// Workers never return errors; results merge only after Wait.
	_ = g.Wait()
	return out
}
