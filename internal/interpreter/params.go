package interpreter

import (
	"regexp"
	"strings"

	"hearthvoice/internal/command"
)

// Parameter extraction runs per-intent pattern rules over the normalized
// speech. A pattern that fails to match simply omits its key; required
// parameters are never fabricated. Demonstrations have no influence here.

var (
	durationRe = regexp.MustCompile(`(\d+)\s*(minutes?|mins?|min|hours?|hrs?|hr)?`)

	// timeRe alternatives are ordered most-specific first so "tomorrow at
	// 3pm" is captured whole rather than as bare "tomorrow".
	timeRe = regexp.MustCompile(`(?:\bat\s+|\bfor\s+|^)?\b(tomorrow\s+at\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?|\d{1,2}:\d{2}\s*(?:am|pm)?|\d{1,2}\s*(?:am|pm)|\d+\s+o'clock|tomorrow(?:\s+(?:morning|afternoon|evening))?|tonight|this\s+(?:weekend|morning|afternoon|evening)|next\s+week|in\s+\d+\s+hours?|(?:mon|tues|wednes|thurs|fri|satur|sun)day(?:\s+(?:morning|afternoon|evening))?)\b`)

	reminderTaskRe = regexp.MustCompile(`(?:remind me to|don't let me forget to|don't forget to|don't forget|set a reminder (?:for|to)|reminder to|remind me)\s+(.+)`)
	trailingTimeRe = regexp.MustCompile(`\s+(?:at|in|for)\s+.+$|\s+(?:tomorrow|tonight|this|next)\b.*$|\s+(?:mon|tues|wednes|thurs|fri|satur|sun)day\b.*$`)

	itemRes = []*regexp.Regexp{
		regexp.MustCompile(`add (.+?) to (?:the )?(?:shopping )?list`),
		regexp.MustCompile(`put (.+?) on the (?:shopping )?list`),
		regexp.MustCompile(`shopping list add (.+)`),
		regexp.MustCompile(`we need (.+)`),
		regexp.MustCompile(`we're out of (.+)`),
		regexp.MustCompile(`out of (.+)`),
		regexp.MustCompile(`can we get (.+)`),
	}

	deviceRe = regexp.MustCompile(`(?:turn|switch) (on|off) (?:the )?(.+)`)

	contentRes = []*regexp.Regexp{
		regexp.MustCompile(`start playing (.+)`),
		regexp.MustCompile(`play (.+)`),
		regexp.MustCompile(`put on (.+)`),
		regexp.MustCompile(`can i watch (.+)`),
		regexp.MustCompile(`i want to hear (.+)`),
	}

	eventRes = []*regexp.Regexp{
		regexp.MustCompile(`add (.+?) to (?:the )?calendar`),
		regexp.MustCompile(`put (.+?) on the calendar`),
		regexp.MustCompile(`schedule (.+?) (?:at|for|on)\b`),
		regexp.MustCompile(`schedule (.+)`),
	}

	subjectRes = []*regexp.Regexp{
		regexp.MustCompile(`help (?:me )?with (?:my )?([a-z]+)`),
		regexp.MustCompile(`([a-z]+) homework`),
	}
)

// ExtractParameters applies the pattern rules for one intent. Keys outside
// the intent's schema are never produced.
func ExtractParameters(speech string, intent command.Intent) map[string]string {
	normalized, _ := normalize(speech)
	params := map[string]string{}

	switch intent {
	case command.IntentTimer:
		if v, ok := extractDuration(normalized); ok {
			params["duration"] = v
		}
	case command.IntentReminder:
		if v, ok := extractReminderTask(normalized); ok {
			params["task"] = v
		}
		if v, ok := extractTime(normalized); ok {
			params["time"] = v
		}
	case command.IntentShopping:
		if v, ok := firstMatch(itemRes, normalized); ok {
			params["item"] = v
		}
	case command.IntentSmartHome:
		if m := deviceRe.FindStringSubmatch(normalized); m != nil {
			params["state"] = m[1]
			params["device"] = strings.TrimSpace(m[2])
		}
	case command.IntentEntertainment:
		if v, ok := firstMatch(contentRes, normalized); ok {
			params["content"] = v
		}
	case command.IntentCalendar:
		if v, ok := firstMatch(eventRes, normalized); ok {
			params["event"] = trailingTimeRe.ReplaceAllString(v, "")
		}
		if v, ok := extractTime(normalized); ok {
			params["time"] = v
		}
	case command.IntentHelp:
		if v, ok := firstMatch(subjectRes, normalized); ok {
			params["subject"] = v
		}
	}
	return params
}

// extractDuration resolves a duration value plus unit. A bare number gets
// the intent-specific default unit "minutes".
func extractDuration(normalized string) (string, bool) {
	m := durationRe.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	unit := normalizeUnit(m[2])
	return m[1] + " " + unit, true
}

func normalizeUnit(unit string) string {
	switch {
	case unit == "":
		return "minutes" // default unit
	case strings.HasPrefix(unit, "h"):
		return "hours"
	default:
		return "minutes"
	}
}

func extractTime(normalized string) (string, bool) {
	m := timeRe.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func extractReminderTask(normalized string) (string, bool) {
	m := reminderTaskRe.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	task := trailingTimeRe.ReplaceAllString(m[1], "")
	task = strings.TrimSpace(task)
	if task == "" {
		return "", false
	}
	return task, true
}

func firstMatch(patterns []*regexp.Regexp, normalized string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(normalized); m != nil {
			v := strings.TrimSpace(m[1])
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}
