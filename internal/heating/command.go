package heating

import (
	"fmt"
	"strings"
	"unicode"
)

// Slash commands accepted by the bridge.
const (
	CommandOn     = "/heizung_an"
	CommandOff    = "/heizung_aus"
	CommandStatus = "/heizung_status"
)

// Action is the classified intent of a command.
type Action int

// Actions.
const (
	ActionUnknown Action = iota
	ActionTurnOn
	ActionTurnOff
	ActionQueryStatus
)

// String returns the action name as used in logs and metrics.
func (a Action) String() string {
	switch a {
	case ActionTurnOn:
		return "turn_on"
	case ActionTurnOff:
		return "turn_off"
	case ActionQueryStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Service returns the Home Assistant switch service for a switch action.
func (a Action) Service() (string, error) {
	switch a {
	case ActionTurnOn:
		return "turn_on", nil
	case ActionTurnOff:
		return "turn_off", nil
	default:
		return "", fmt.Errorf("%w: %s is not a switch action", ErrUnsupportedCommand, a)
	}
}

// Classify maps a slash command to its action.
// Unknown commands classify as ActionUnknown.
func Classify(command string) Action {
	switch command {
	case CommandOn:
		return ActionTurnOn
	case CommandOff:
		return ActionTurnOff
	case CommandStatus:
		return ActionQueryStatus
	default:
		return ActionUnknown
	}
}

// Request is one incoming slash command.
type Request struct {
	Token       string
	Command     string
	ChannelName string
	Text        string
	UserName    string
}

// Arguments is the free text of a switch command split into its parts.
type Arguments struct {
	// Room is the first whitespace-delimited token.
	Room string

	// Comment is the trimmed remainder; empty when absent.
	Comment string
}

// HasComment reports whether a non-blank comment was supplied.
func (a Arguments) HasComment() bool {
	return a.Comment != ""
}

// ParseArguments splits text on its first run of whitespace.
//
//	"wohnzimmer  laut gemacht " -> {Room: "wohnzimmer", Comment: "laut gemacht"}
//	"salon"                     -> {Room: "salon"}
//	"   "                       -> {}
func ParseArguments(text string) Arguments {
	text = strings.TrimSpace(text)
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return Arguments{Room: text}
	}
	return Arguments{
		Room:    text[:idx],
		Comment: strings.TrimSpace(text[idx:]),
	}
}
