package interpreter

import (
	"testing"

	"hearthvoice/internal/command"
)

func TestExtractParameters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		speech string
		intent command.Intent
		want   map[string]string
	}{
		{
			name:   "timer with unit",
			speech: "Set timer for 20 minutes",
			intent: command.IntentTimer,
			want:   map[string]string{"duration": "20 minutes"},
		},
		{
			name:   "timer bare number defaults to minutes",
			speech: "Set timer for 20",
			intent: command.IntentTimer,
			want:   map[string]string{"duration": "20 minutes"},
		},
		{
			name:   "timer hours",
			speech: "Start a 2 hour timer",
			intent: command.IntentTimer,
			want:   map[string]string{"duration": "2 hours"},
		},
		{
			name:   "reminder with time",
			speech: "Remind me to feed the dog at 3pm",
			intent: command.IntentReminder,
			want:   map[string]string{"task": "feed the dog", "time": "3pm"},
		},
		{
			name:   "reminder clock time",
			speech: "Set a reminder to call the dentist at 4:30",
			intent: command.IntentReminder,
			want:   map[string]string{"task": "call the dentist", "time": "4:30"},
		},
		{
			name:   "reminder without time",
			speech: "Don't forget to water the plants",
			intent: command.IntentReminder,
			want:   map[string]string{"task": "water the plants"},
		},
		{
			name:   "shopping add to list",
			speech: "Add milk to the shopping list",
			intent: command.IntentShopping,
			want:   map[string]string{"item": "milk"},
		},
		{
			name:   "shopping out of",
			speech: "We're out of cereal",
			intent: command.IntentShopping,
			want:   map[string]string{"item": "cereal"},
		},
		{
			name:   "smart home on",
			speech: "Turn on the living room lights",
			intent: command.IntentSmartHome,
			want:   map[string]string{"state": "on", "device": "living room lights"},
		},
		{
			name:   "smart home switch off",
			speech: "Switch off the thermostat",
			intent: command.IntentSmartHome,
			want:   map[string]string{"state": "off", "device": "thermostat"},
		},
		{
			name:   "entertainment",
			speech: "Start playing kids songs",
			intent: command.IntentEntertainment,
			want:   map[string]string{"content": "kids songs"},
		},
		{
			name:   "calendar event and time",
			speech: "Add dentist appointment to calendar for tomorrow at 3pm",
			intent: command.IntentCalendar,
			want:   map[string]string{"event": "dentist appointment", "time": "tomorrow at 3pm"},
		},
		{
			name:   "calendar schedule",
			speech: "Schedule soccer practice for friday morning",
			intent: command.IntentCalendar,
			want:   map[string]string{"event": "soccer practice", "time": "friday morning"},
		},
		{
			name:   "help subject",
			speech: "I need help with math",
			intent: command.IntentHelp,
			want:   map[string]string{"subject": "math"},
		},
		{
			name:   "help homework",
			speech: "Help with spelling homework",
			intent: command.IntentHelp,
			want:   map[string]string{"subject": "spelling"},
		},
		{
			name:   "information has no parameters",
			speech: "What's the weather today",
			intent: command.IntentInformation,
			want:   map[string]string{},
		},
		{
			name:   "missing parameter omitted not fabricated",
			speech: "Set a timer",
			intent: command.IntentTimer,
			want:   map[string]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractParameters(tc.speech, tc.intent)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("param %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
