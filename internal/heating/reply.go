package heating

import (
	"errors"
	"fmt"
	"strings"
)

// Visibility controls who sees a JSON reply.
type Visibility string

// Slack response types.
const (
	VisibilityNone      Visibility = ""
	VisibilityInChannel Visibility = "in_channel"
	VisibilityEphemeral Visibility = "ephemeral"
)

// Reply is the single answer to a slash command.
//
// A reply without visibility is written as plain text; otherwise as
// {"response_type": <visibility>, "text": <text>}.
type Reply struct {
	Text       string
	Visibility Visibility
}

// IsJSON reports whether the reply is written as a JSON message.
func (r Reply) IsJSON() bool {
	return r.Visibility != VisibilityNone
}

// Fixed reply texts.
const (
	textMissingParameters = "missing parameters"
	textUnknownRoom       = "Unbekannter Raum, keine Schaltung."
	textUnknownCommand    = "Unbekannter Befehl."
	textGatewayFailed     = "API call to hausverstand failed. Jakob probably updated it and now everything is broken."
	textCommentKept       = "(bisheriger Kommentar bleibt)"

	// StatusFailed is the status result for a failed or unreadable query.
	StatusFailed = "FAIL"
)

// plainReply returns a plain-text reply.
func plainReply(text string) Reply {
	return Reply{Text: text}
}

// channelRestrictedText names the channel switching is allowed in.
func channelRestrictedText(channel string) string {
	return fmt.Sprintf("Heizung kann nur im Kanal #%s geschaltet werden.", channel)
}

// usageText lists the valid room names in configuration order.
func usageText(rooms []string) string {
	quoted := make([]string, len(rooms))
	for i, r := range rooms {
		quoted[i] = "`" + r + "`"
	}
	return fmt.Sprintf("Kein Raum angegeben. Mögliche Raumnamen: %s (in exakt dieser Schreibweise)",
		strings.Join(quoted, ", "))
}

// autoComment is the annotation written on turn-off without a comment.
func autoComment(user string) string {
	return "via slack, von " + user
}

// noResponseText is the status result for a sensor that reported no state.
func noResponseText(sensor string) string {
	return "no response for " + sensor
}

// switchedText summarises a successful actuation.
func switchedText(service, room, user, entityID, comment string) string {
	return fmt.Sprintf("Heizung `%s` in `%s` von %s (`%s`), Kommentar: %s",
		service, room, user, entityID, comment)
}

// replyForError maps a flow error to its fixed reply.
func (s *Service) replyForError(err error) Reply {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return plainReply(textMissingParameters)
	case errors.Is(err, ErrChannelRestricted):
		return plainReply(channelRestrictedText(s.channel))
	case errors.Is(err, ErrMissingRoom):
		return plainReply(usageText(s.rooms.Names()))
	case errors.Is(err, ErrUnknownRoom):
		return plainReply(textUnknownRoom)
	case errors.Is(err, ErrGateway):
		return plainReply(textGatewayFailed)
	default:
		return plainReply(textUnknownCommand)
	}
}

// outcome is the metric label for a flow result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrChannelRestricted):
		return "channel_restricted"
	case errors.Is(err, ErrMissingRoom):
		return "missing_room"
	case errors.Is(err, ErrUnknownRoom):
		return "unknown_room"
	case errors.Is(err, ErrGateway):
		return "gateway_error"
	default:
		return "unsupported"
	}
}
