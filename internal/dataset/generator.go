// Package dataset generates and loads labeled household speech commands.
// Generation is templated and seeded so any split can be reproduced
// exactly; loading validates every record against the data model before it
// reaches the scoring path.
package dataset

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"hearthvoice/internal/command"
)

var placeholderRe = regexp.MustCompile(`\{([a-z]+)\}`)

// template is one phrasing of a command. Placeholders like {item} draw
// from the pools table; fixed params (e.g. the on/off state implied by the
// phrasing) are recorded directly.
type template struct {
	text  string
	fixed map[string]string
}

func tpl(text string) template { return template{text: text} }

func tplFixed(text string, fixed map[string]string) template {
	return template{text: text, fixed: fixed}
}

// categoryTemplates holds per-speaker phrasings for one intent. Teens have
// no pool of their own; they borrow parent or child phrasing at random.
type categoryTemplates struct {
	intent command.Intent
	parent []template
	child  []template
}

var pools = map[string][]string{
	"number": {"5", "10", "15", "20", "25", "30", "45"},
	"task": {"pick up the kids", "call the dentist", "take medication",
		"feed the dog", "start dinner", "check homework", "water the plants"},
	"time":    {"3pm", "4:30", "tomorrow morning", "in 2 hours", "6 o'clock"},
	"item":    {"milk", "eggs", "bread", "cereal", "juice", "apples", "chicken", "pasta", "cheese", "yogurt"},
	"device":  {"living room lights", "bedroom lights", "kitchen lights", "thermostat", "fan"},
	"content": {"music", "a bedtime story", "cartoons", "the news", "my playlist", "kids songs"},
	"event": {"dentist appointment", "soccer practice", "parent teacher meeting",
		"birthday party", "doctor visit"},
	"caltime": {"tomorrow at 3pm", "friday morning", "next week", "this weekend"},
	"subject": {"math", "reading", "science", "spelling"},
}

var categories = []categoryTemplates{
	{
		intent: command.IntentTimer,
		parent: []template{
			tpl("Set timer for {number} minutes"),
			tpl("Start a {number} minute timer"),
			tpl("Timer for {number} minutes please"),
			tpl("Can you set a timer for {number} minutes"),
		},
		child: []template{
			tpl("Timer {number} minutes"),
			tpl("Can I have a timer for {number} minutes"),
		},
	},
	{
		intent: command.IntentReminder,
		parent: []template{
			tpl("Remind me to {task} at {time}"),
			tpl("Set a reminder to {task} at {time}"),
			tpl("Don't let me forget to {task} at {time}"),
			tpl("Can you remind me to {task} at {time}"),
		},
		child: []template{
			tpl("Remind me to {task}"),
			tpl("Don't forget to {task}"),
		},
	},
	{
		intent: command.IntentShopping,
		parent: []template{
			tpl("Add {item} to the shopping list"),
			tpl("Put {item} on the shopping list"),
			tpl("We need {item}"),
			tpl("Shopping list add {item}"),
		},
		child: []template{
			tpl("We're out of {item}"),
			tpl("Can we get {item}"),
		},
	},
	{
		intent: command.IntentSmartHome,
		parent: []template{
			tplFixed("Turn on the {device}", map[string]string{"state": "on"}),
			tplFixed("Turn off the {device}", map[string]string{"state": "off"}),
			tplFixed("Switch on the {device}", map[string]string{"state": "on"}),
			tplFixed("Can you turn on the {device}", map[string]string{"state": "on"}),
		},
		child: []template{
			tplFixed("Turn on the {device}", map[string]string{"state": "on"}),
		},
	},
	{
		intent: command.IntentInformation,
		parent: []template{
			tpl("What's the weather today"),
			tpl("What's the forecast"),
			tpl("What time is it"),
			tpl("What day is it"),
		},
		child: []template{
			tpl("What's the weather"),
			tpl("What time is it"),
			tpl("When is my birthday"),
		},
	},
	{
		intent: command.IntentEntertainment,
		parent: []template{
			tpl("Play {content}"),
			tpl("Put on {content}"),
			tpl("Start playing {content}"),
		},
		child: []template{
			tpl("Play {content}"),
			tpl("Can I watch {content}"),
			tpl("I want to hear {content}"),
		},
	},
	{
		intent: command.IntentCalendar,
		parent: []template{
			tpl("Add {event} to calendar for {caltime}"),
			tpl("Schedule {event} for {caltime}"),
			tpl("Put {event} on the calendar {caltime}"),
		},
	},
	{
		intent: command.IntentHelp,
		child: []template{
			tpl("Help with {subject} homework"),
			tpl("I need help with {subject}"),
			tpl("Can you help me with {subject}"),
		},
	},
}

// placeholderParam maps a pool placeholder to the schema parameter key it
// fills, or "" for placeholders that only shape the phrasing.
func placeholderParam(name string) string {
	switch name {
	case "number":
		return "duration"
	case "caltime":
		return "time"
	case "task", "time", "item", "device", "content", "event", "subject":
		return name
	default:
		return ""
	}
}

var fillers = []string{"um", "uh", "please"}

// fillerChance is the fraction of generated commands that get a leading
// filler word, mimicking casual speech.
const fillerChance = 0.2

// Generate produces n labeled examples, reproducibly for a given seed.
func Generate(n int, seed int64) []command.SpeechExample {
	rng := rand.New(rand.NewSource(seed))
	speakers := []command.Speaker{command.SpeakerParent, command.SpeakerChild, command.SpeakerTeen}

	examples := make([]command.SpeechExample, 0, n)
	for i := 0; i < n; i++ {
		cat := categories[rng.Intn(len(categories))]
		speaker := speakers[rng.Intn(len(speakers))]
		examples = append(examples, generateOne(fmt.Sprintf("ex-%04d", i+1), cat, speaker, rng))
	}
	return examples
}

func generateOne(id string, cat categoryTemplates, speaker command.Speaker, rng *rand.Rand) command.SpeechExample {
	// Teens borrow phrasing from either pool; every category is guaranteed
	// at least one non-empty pool.
	pool := cat.parent
	switch speaker {
	case command.SpeakerChild:
		if len(cat.child) > 0 {
			pool = cat.child
		}
	case command.SpeakerTeen:
		if len(cat.child) > 0 && (len(cat.parent) == 0 || rng.Intn(2) == 0) {
			pool = cat.child
		}
	}
	if len(pool) == 0 {
		pool = cat.child
	}
	t := pool[rng.Intn(len(pool))]

	// Placeholders are filled in order of appearance so the rng draw
	// sequence, and therefore the dataset, is reproducible per seed.
	speech := t.text
	params := map[string]string{}
	for _, m := range placeholderRe.FindAllStringSubmatch(t.text, -1) {
		name := m[1]
		values, ok := pools[name]
		if !ok {
			continue
		}
		value := values[rng.Intn(len(values))]
		speech = strings.Replace(speech, m[0], value, 1)
		if key := placeholderParam(name); key != "" {
			if name == "number" {
				value += " minutes"
			}
			params[key] = value
		}
	}
	for k, v := range t.fixed {
		params[k] = v
	}

	if rng.Float64() < fillerChance {
		speech = fillers[rng.Intn(len(fillers))] + " " + speech
	}

	schema := command.Schema(cat.intent)
	return command.SpeechExample{
		ID:      id,
		Speech:  speech,
		Speaker: speaker,
		Intent:  cat.intent,
		Expected: command.Task{
			Action:     schema.Action,
			Parameters: params,
			Priority:   schema.DefaultPriority,
		},
	}
}
