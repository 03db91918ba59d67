package homeassistant

import "strings"

// Entity domains used by the bridge.
const (
	DomainSwitch    = "switch"
	DomainInputText = "input_text"
	DomainSensor    = "sensor"
)

// EntityID returns "<domain>.<object>".
//
// An object that already carries the domain prefix is returned unchanged,
// so room mappings may be written either as "heizung_salon" or as
// "switch.heizung_salon".
func EntityID(domain, object string) string {
	prefix := domain + "."
	if strings.HasPrefix(object, prefix) {
		return object
	}
	return prefix + object
}
