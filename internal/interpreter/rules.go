package interpreter

import (
	"strings"

	"hearthvoice/internal/command"
)

// rule is one entry in the ordered intent-matching table. A rule matches
// when at least one trigger keyword is present; support keywords only
// contribute to match strength. Table order is the tie-break: the first
// matching rule wins regardless of match length.
type rule struct {
	intent   command.Intent
	triggers []string
	support  []string
}

// ruleTable is evaluated top to bottom. Ordering mirrors how ambiguous
// phrasings should resolve ("what's the weather" is information even though
// "what's" also opens homework questions).
var ruleTable = []rule{
	{
		intent:   command.IntentTimer,
		triggers: []string{"timer"},
		support:  []string{"set", "start", "minute"},
	},
	{
		intent:   command.IntentReminder,
		triggers: []string{"remind", "don't forget", "don't let me forget"},
		support:  []string{"set", "me"},
	},
	{
		intent:   command.IntentShopping,
		triggers: []string{"shopping", "we need", "we're out", "out of", "can we get"},
		support:  []string{"add", "list"},
	},
	{
		intent:   command.IntentSmartHome,
		triggers: []string{"turn on", "turn off", "switch", "lights", "thermostat"},
		support:  []string{"turn"},
	},
	{
		intent:   command.IntentInformation,
		triggers: []string{"what's", "what is", "what time", "when is", "weather", "forecast", "what day"},
		support:  []string{"today"},
	},
	{
		intent:   command.IntentEntertainment,
		triggers: []string{"play", "put on", "watch", "listen", "hear"},
		support:  []string{"music", "story"},
	},
	{
		intent:   command.IntentCalendar,
		triggers: []string{"calendar", "schedule"},
		support:  []string{"add", "appointment"},
	},
	{
		intent:   command.IntentHelp,
		triggers: []string{"help", "homework"},
		support:  []string{"need"},
	},
}

// confusables maps each intent to the plausible misclassifications the
// error injector may substitute. Entries are ordered; ties in demonstration
// voting resolve toward the earlier entry. An intent never confuses with
// itself.
var confusables = map[command.Intent][]command.Intent{
	command.IntentTimer:         {command.IntentReminder, command.IntentSmartHome},
	command.IntentReminder:      {command.IntentCalendar, command.IntentTimer},
	command.IntentShopping:      {command.IntentInformation, command.IntentReminder},
	command.IntentSmartHome:     {command.IntentEntertainment, command.IntentTimer},
	command.IntentInformation:   {command.IntentHelp, command.IntentShopping},
	command.IntentEntertainment: {command.IntentInformation, command.IntentSmartHome},
	command.IntentCalendar:      {command.IntentReminder, command.IntentInformation},
	command.IntentHelp:          {command.IntentInformation, command.IntentCalendar},
}

// matches reports whether the keyword is present in the normalized text.
// Multi-word keywords match as substrings; single words match on token
// prefix so "minute" covers "minutes".
func matches(keyword string, normalized string, tokens []string) bool {
	if strings.Contains(keyword, " ") || strings.Contains(keyword, "'") {
		return strings.Contains(normalized, keyword)
	}
	for _, tok := range tokens {
		if strings.HasPrefix(tok, keyword) {
			return true
		}
	}
	return false
}

// strength evaluates a rule against normalized text. matched counts hits
// across triggers and support; ok is true only when a trigger hit.
func (r rule) strength(normalized string, tokens []string) (matched int, total int, ok bool) {
	total = len(r.triggers) + len(r.support)
	for _, kw := range r.triggers {
		if matches(kw, normalized, tokens) {
			matched++
			ok = true
		}
	}
	for _, kw := range r.support {
		if matches(kw, normalized, tokens) {
			matched++
		}
	}
	return matched, total, ok
}
