// Package events fans heating activity out to the optional side sinks.
//
// A Recorder receives switch events and status results from the heating
// service and forwards them to MQTT (event + retained room state topics)
// and InfluxDB (time series). Either sink may be absent. Sink failures are
// logged and never reach the slash-command reply.
package events
