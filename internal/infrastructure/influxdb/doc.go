// Package influxdb records heating activity as InfluxDB time series.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched writes and health monitoring.
//
// # Measurements
//
//	heating_switch  tags: room, action, channel   fields: user, comment, success
//	heating_status  tags: sensor (rooms only)     fields: state, ok, query (free text only)
//
// Tags from influxdb.tags in the configuration are added to every point.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteSwitch(influxdb.SwitchPoint{Room: "salon", Action: "turn_on", Success: true})
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; failed batches are logged through the
// logger given to Connect. Connection and health check errors are returned
// directly.
package influxdb
