package command

// IntentSchema fixes, per intent, the task action name, which parameter
// keys are required versus optional, and the default priority. Interpreter,
// dataset generator, and metrics engine all read this one table, so a
// parameter key absent here is never extracted and never scored.
type IntentSchema struct {
	Action          string
	RequiredParams  []string
	OptionalParams  []string
	DefaultPriority Priority
}

var schemas = map[Intent]IntentSchema{
	IntentTimer: {
		Action:          "set_timer",
		RequiredParams:  []string{"duration"},
		DefaultPriority: PriorityHigh,
	},
	IntentReminder: {
		Action:          "set_reminder",
		RequiredParams:  []string{"task"},
		OptionalParams:  []string{"time"},
		DefaultPriority: PriorityHigh,
	},
	IntentShopping: {
		Action:          "add_to_shopping_list",
		RequiredParams:  []string{"item"},
		DefaultPriority: PriorityLow,
	},
	IntentSmartHome: {
		Action:          "control_device",
		RequiredParams:  []string{"device"},
		OptionalParams:  []string{"state"},
		DefaultPriority: PriorityMedium,
	},
	IntentInformation: {
		Action:          "get_information",
		DefaultPriority: PriorityLow,
	},
	IntentEntertainment: {
		Action:          "play_media",
		RequiredParams:  []string{"content"},
		DefaultPriority: PriorityLow,
	},
	IntentCalendar: {
		Action:          "add_calendar_event",
		RequiredParams:  []string{"event"},
		OptionalParams:  []string{"time"},
		DefaultPriority: PriorityHigh,
	},
	IntentHelp: {
		Action:          "request_help",
		OptionalParams:  []string{"subject"},
		DefaultPriority: PriorityMedium,
	},
}

// Schema returns the schema for an intent. IntentNone (and anything else
// outside the enumeration) gets an empty schema whose action is "unknown",
// matching the default task.
func Schema(i Intent) IntentSchema {
	if s, ok := schemas[i]; ok {
		return s
	}
	return IntentSchema{Action: "unknown", DefaultPriority: PriorityLow}
}

// ActionFor returns the canonical action identifier for an intent.
func ActionFor(i Intent) string {
	return Schema(i).Action
}

// IntentForAction is the reverse lookup used by ground-truth validation.
func IntentForAction(action string) (Intent, bool) {
	for _, intent := range Intents() {
		if schemas[intent].Action == action {
			return intent, true
		}
	}
	return IntentNone, false
}

// KnownParam reports whether key is part of the schema (required or
// optional) for the given intent.
func (s IntentSchema) KnownParam(key string) bool {
	for _, k := range s.RequiredParams {
		if k == key {
			return true
		}
	}
	for _, k := range s.OptionalParams {
		if k == key {
			return true
		}
	}
	return false
}
