package core

import "net/url"

// Trigger identifies the user action that started a dashboard update.
type Trigger int

const (
	TriggerInitialLoad Trigger = iota
	TriggerAdd
	TriggerReset
)

// Form field names of the two submit buttons. A browser only submits the
// name of the button that was clicked.
const (
	FieldAdd   = "add"
	FieldReset = "reset"
)

// String implements fmt.Stringer
func (t Trigger) String() string {
	switch t {
	case TriggerAdd:
		return "add"
	case TriggerReset:
		return "reset"
	default:
		return "initial_load"
	}
}

// ParseTrigger maps a name produced by String back to a Trigger. Unknown
// names map to TriggerInitialLoad.
func ParseTrigger(s string) Trigger {
	switch s {
	case "add":
		return TriggerAdd
	case "reset":
		return TriggerReset
	default:
		return TriggerInitialLoad
	}
}

// TriggerFromForm decodes which button fired. Reset is checked first so it
// wins when both are present.
func TriggerFromForm(form url.Values) Trigger {
	if _, ok := form[FieldReset]; ok {
		return TriggerReset
	}
	if _, ok := form[FieldAdd]; ok {
		return TriggerAdd
	}
	return TriggerInitialLoad
}
