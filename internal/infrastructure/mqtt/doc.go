// Package mqtt publishes heating events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Topics
//
//	heizung/event/switch/<room>   switch events (not retained)
//	heizung/state/<room>          last action per room (retained)
//	heizung/event/status/<room>   status results of configured rooms
//	heizung/event/status          status results of free-text sensors
//	heizung/system/status         online/offline (retained, LWT)
//
// Publishing to a topic containing + or # is rejected with ErrInvalidTopic.
//
// # Security Considerations
//
//   - Enable TLS (cfg.Broker.TLS=true) when the broker is not local
//   - Credentials come from HEIZUNG_MQTT_USERNAME / HEIZUNG_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Publish(mqtt.Topics{}.SwitchEvent("salon"), payload, 1, false)
package mqtt
