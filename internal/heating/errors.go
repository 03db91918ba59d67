package heating

import "errors"

// Sentinel errors for command handling.
// Each maps to one fixed reply text; see replyForError.
var (
	// ErrUnauthorized is returned for a wrong or missing token, or a command
	// outside the supported set.
	ErrUnauthorized = errors.New("heating: unauthorized request")

	// ErrChannelRestricted is returned when switching is attempted outside
	// the designated channel.
	ErrChannelRestricted = errors.New("heating: switching not allowed in this channel")

	// ErrMissingRoom is returned when a switch command has no room argument.
	ErrMissingRoom = errors.New("heating: no room given")

	// ErrUnknownRoom is returned when the room is not in the room mapping.
	ErrUnknownRoom = errors.New("heating: unknown room")

	// ErrUnsupportedCommand is returned when an action reaches a flow that
	// cannot handle it. Validation makes this unreachable in practice.
	ErrUnsupportedCommand = errors.New("heating: unsupported command")

	// ErrGateway is returned when the switch actuation call fails.
	ErrGateway = errors.New("heating: home assistant call failed")
)
