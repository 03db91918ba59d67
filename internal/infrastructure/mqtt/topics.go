package mqtt

import "fmt"

// TopicPrefix is the base of every topic the bridge publishes.
const TopicPrefix = "heizung"

// Topics provides builders for the bridge's MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.SwitchEvent("salon") // "heizung/event/switch/salon"
type Topics struct{}

// SwitchEvent returns the topic for switch events of a room.
// Events are published non-retained.
//
// Example: heizung/event/switch/salon
func (Topics) SwitchEvent(room string) string {
	return fmt.Sprintf("%s/event/switch/%s", TopicPrefix, room)
}

// RoomState returns the retained topic holding a room's last action.
//
// Example: heizung/state/salon
func (Topics) RoomState(room string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, room)
}

// StatusResult returns the topic for a configured room's status result.
//
// Example: heizung/event/status/atelier
func (Topics) StatusResult(room string) string {
	return fmt.Sprintf("%s/event/status/%s", TopicPrefix, room)
}

// StatusQuery returns the single topic for status results of sensors
// named in free text. The sensor travels in the payload only.
//
// Example: heizung/event/status
func (Topics) StatusQuery() string {
	return TopicPrefix + "/event/status"
}

// SystemStatus returns the topic for the bridge's online/offline status.
//
// Example: heizung/system/status
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}
