package ai

import "strings"

// Action is the operation a user message asks for.
type Action string

const (
	ActionQueryFlight  Action = "query_flight"
	ActionBuyTicket    Action = "buy_ticket"
	ActionCheckin      Action = "checkin"
	ActionUnrecognized Action = "unrecognized"
)

// ParseAction maps model output onto a known Action. Anything else,
// including an empty string, is ActionUnrecognized.
func ParseAction(s string) Action {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionQueryFlight, ActionBuyTicket, ActionCheckin:
		return a
	default:
		return ActionUnrecognized
	}
}

// Intent captures the structured output extracted from one user message.
type Intent struct {
	// Action is always one of the Action constants.
	Action Action `json:"action"`

	// Parameters holds the action arguments exactly as the model produced
	// them (strings, numbers, lists). Never nil.
	Parameters map[string]any `json:"parameters"`
}

func (i Intent) Recognized() bool {
	return i.Action != ActionUnrecognized
}
