// Package heating turns Slack slash commands into Home Assistant calls.
//
// A request passes through three stages, strictly in order:
//
//	Validator  token matches the shared secret, command is supported
//	Router     /heizung_an, /heizung_aus -> switch flow
//	           /heizung_status           -> status flow
//	Gateway    room lookup, switch actuation, logbook entry, comment
//	           annotation, status queries
//
// Every stage returns either a Reply or a sentinel error. Service.Handle
// turns errors into their fixed reply texts, so a request always produces
// exactly one Reply and the HTTP layer only has to write it.
//
// # Switch flow
//
// Only allowed in the designated channel. The text is "<room> [comment]".
// After a successful actuation the comment (if any) goes to the logbook;
// turn-on with a comment and every turn-off update the room's comment
// field. A failed actuation stops the flow before any further call.
//
// # Status flow
//
// Allowed in every channel. Without text, every configured room's status
// sensor is queried in configuration order; with text, the text itself is
// the sensor suffix. The reply is shared to the channel only when issued
// from the designated channel.
package heating
