package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nerrad567/heizung-bridge/internal/heating"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/config"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/mqtt"
)

// Publisher is the interface for publishing events to MQTT.
// *mqtt.Client satisfies it.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
	QoS() byte
}

// PointWriter is the interface for writing time series points.
// *influxdb.Client satisfies it.
type PointWriter interface {
	WriteSwitch(p influxdb.SwitchPoint)
	WriteStatus(p influxdb.StatusPoint)
}

// SwitchMessage is the JSON payload published for a successful actuation.
type SwitchMessage struct {
	Room      string `json:"room"`
	EntityID  string `json:"entity_id"`
	Action    string `json:"action"`
	User      string `json:"user"`
	Comment   string `json:"comment,omitempty"`
	Timestamp string `json:"timestamp"`
}

// StatusMessage is the JSON payload published for a status result.
type StatusMessage struct {
	Sensor    string `json:"sensor"`
	State     string `json:"state"`
	OK        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
}

// Recorder implements heating.Recorder over MQTT and InfluxDB.
//
// Status sensors may be free text typed in Slack. Only configured room
// names are used as topic levels and tag values; any other sensor goes to
// the fixed status topic and the query field.
type Recorder struct {
	rooms     config.RoomMapping
	publisher Publisher
	points    PointWriter
	logger    *logging.Logger
}

// NewRecorder creates a Recorder. A nil publisher or writer disables that sink.
func NewRecorder(rooms config.RoomMapping, publisher Publisher, points PointWriter, logger *logging.Logger) *Recorder {
	return &Recorder{
		rooms:     rooms,
		publisher: publisher,
		points:    points,
		logger:    logger.Component("events"),
	}
}

// Enabled reports whether any sink is configured.
func (r *Recorder) Enabled() bool {
	return r.publisher != nil || r.points != nil
}

// RecordSwitch writes every actuation attempt to the time series and
// publishes successful ones to MQTT.
func (r *Recorder) RecordSwitch(_ context.Context, ev heating.SwitchEvent) {
	if r.points != nil {
		r.points.WriteSwitch(influxdb.SwitchPoint{
			Room:    ev.Room,
			Action:  ev.Action.String(),
			Channel: ev.Channel,
			User:    ev.User,
			Comment: ev.Comment,
			Success: ev.Success,
			Time:    ev.Time,
		})
	}

	if r.publisher == nil || !ev.Success {
		return
	}

	payload, err := json.Marshal(SwitchMessage{
		Room:      ev.Room,
		EntityID:  ev.EntityID,
		Action:    ev.Action.String(),
		User:      ev.User,
		Comment:   ev.Comment,
		Timestamp: ev.Time.UTC().Format(time.RFC3339),
	})
	if err != nil {
		r.logger.Error("marshalling switch event", "room", ev.Room, "error", err)
		return
	}

	topics := mqtt.Topics{}
	r.publish(topics.SwitchEvent(ev.Room), payload)
	if err := r.publisher.PublishRetained(topics.RoomState(ev.Room), payload); err != nil {
		r.logger.Warn("publishing room state failed", "room", ev.Room, "error", err)
	}
}

// RecordStatus writes a status result to the time series and MQTT.
func (r *Recorder) RecordStatus(_ context.Context, res heating.StatusResult) {
	_, isRoom := r.rooms.Lookup(res.Sensor)

	if r.points != nil {
		p := influxdb.StatusPoint{State: res.State, OK: res.OK, Time: res.Time}
		if isRoom {
			p.Sensor = res.Sensor
		} else {
			p.Query = res.Sensor
		}
		r.points.WriteStatus(p)
	}

	if r.publisher == nil {
		return
	}

	payload, err := json.Marshal(StatusMessage{
		Sensor:    res.Sensor,
		State:     res.State,
		OK:        res.OK,
		Timestamp: res.Time.UTC().Format(time.RFC3339),
	})
	if err != nil {
		r.logger.Error("marshalling status result", "sensor", res.Sensor, "error", err)
		return
	}
	topic := mqtt.Topics{}.StatusQuery()
	if isRoom {
		topic = mqtt.Topics{}.StatusResult(res.Sensor)
	}
	r.publish(topic, payload)
}

// publish sends a non-retained event at the configured QoS.
func (r *Recorder) publish(topic string, payload []byte) {
	if err := r.publisher.Publish(topic, payload, r.publisher.QoS(), false); err != nil {
		r.logger.Warn("publishing event failed", "topic", topic, "error", err)
	}
}
