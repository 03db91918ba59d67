package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementSwitch = "heating_switch"
	MeasurementStatus = "heating_status"
)

// SwitchPoint is one actuation attempt.
type SwitchPoint struct {
	Room    string
	Action  string
	Channel string
	User    string
	Comment string
	Success bool
	Time    time.Time
}

// StatusPoint is one status sensor result.
type StatusPoint struct {
	// Sensor is a configured room name and becomes the sensor tag.
	// Empty for sensors named in free text.
	Sensor string

	// Query is the free-text sensor name, stored as a field so that it
	// never adds tag values.
	Query string

	State string
	OK    bool
	Time  time.Time
}

// WriteSwitch records an actuation attempt in the heating_switch measurement.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Example:
//
//	client.WriteSwitch(influxdb.SwitchPoint{Room: "salon", Action: "turn_on", Success: true})
func (c *Client) WriteSwitch(p SwitchPoint) {
	if !c.open() {
		return
	}
	c.writeAPI.WritePoint(newSwitchPoint(p))
}

// WriteStatus records a status result in the heating_status measurement.
func (c *Client) WriteStatus(p StatusPoint) {
	if !c.open() {
		return
	}
	c.writeAPI.WritePoint(newStatusPoint(p))
}

// newSwitchPoint builds the line protocol point for an actuation.
// Room, action and channel are low-cardinality tags; the free-form user
// and comment are fields.
func newSwitchPoint(p SwitchPoint) *write.Point {
	fields := map[string]interface{}{
		"user":    p.User,
		"success": p.Success,
	}
	if p.Comment != "" {
		fields["comment"] = p.Comment
	}

	return write.NewPoint(
		MeasurementSwitch,
		map[string]string{
			"room":    p.Room,
			"action":  p.Action,
			"channel": p.Channel,
		},
		fields,
		timestampOrNow(p.Time),
	)
}

// newStatusPoint builds the line protocol point for a status result.
func newStatusPoint(p StatusPoint) *write.Point {
	tags := map[string]string{}
	if p.Sensor != "" {
		tags["sensor"] = p.Sensor
	}
	fields := map[string]interface{}{
		"state": p.State,
		"ok":    p.OK,
	}
	if p.Query != "" {
		fields["query"] = p.Query
	}
	return write.NewPoint(MeasurementStatus, tags, fields, timestampOrNow(p.Time))
}

func timestampOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
