package config

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Room pairs a user-facing room name with the Home Assistant switch identifier.
type Room struct {
	Name   string
	Device string
}

// RoomMapping is the ordered, read-only room name to device identifier table.
//
// Order follows the configuration file so usage messages and status reports
// list rooms the way the operator wrote them. The zero value is an empty
// mapping. Lookups are exact and case-sensitive.
//
// Thread Safety:
//   - Safe for concurrent reads; there are no mutators after construction.
type RoomMapping struct {
	rooms []Room
	index map[string]int
}

// NewRoomMapping builds a mapping from rooms in the given order.
//
// Room names are typed as one word in Slack and become MQTT topic levels,
// so they may not contain whitespace, "/", "+" or "#".
//
// Returns an error on empty or invalid names, empty device identifiers or
// duplicate names.
func NewRoomMapping(rooms ...Room) (RoomMapping, error) {
	m := RoomMapping{
		rooms: make([]Room, 0, len(rooms)),
		index: make(map[string]int, len(rooms)),
	}
	for _, r := range rooms {
		if r.Name == "" {
			return RoomMapping{}, fmt.Errorf("room name must not be empty")
		}
		if strings.ContainsAny(r.Name, "/+#") || strings.IndexFunc(r.Name, unicode.IsSpace) >= 0 {
			return RoomMapping{}, fmt.Errorf("room %q: name must be one word without '/', '+' or '#'", r.Name)
		}
		if r.Device == "" {
			return RoomMapping{}, fmt.Errorf("room %q: device must not be empty", r.Name)
		}
		if _, dup := m.index[r.Name]; dup {
			return RoomMapping{}, fmt.Errorf("room %q defined more than once", r.Name)
		}
		m.index[r.Name] = len(m.rooms)
		m.rooms = append(m.rooms, r)
	}
	return m, nil
}

// UnmarshalYAML decodes a YAML mapping node, keeping document order.
//
//	rooms:
//	  salon: heizung_salon
//	  wohnzimmer: heizung_wohnzimmer
func (m *RoomMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rooms must be a mapping of room name to device", value.Line)
	}

	rooms := make([]Room, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: room entries must be plain strings", key.Line)
		}
		rooms = append(rooms, Room{Name: key.Value, Device: val.Value})
	}

	parsed, err := NewRoomMapping(rooms...)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*m = parsed
	return nil
}

// Lookup returns the device identifier for a room name.
func (m RoomMapping) Lookup(name string) (string, bool) {
	i, ok := m.index[name]
	if !ok {
		return "", false
	}
	return m.rooms[i].Device, true
}

// Names returns the room names in configuration order.
// The returned slice is a copy.
func (m RoomMapping) Names() []string {
	names := make([]string, len(m.rooms))
	for i, r := range m.rooms {
		names[i] = r.Name
	}
	return names
}

// Len returns the number of configured rooms.
func (m RoomMapping) Len() int {
	return len(m.rooms)
}
