package influxdb

import "errors"

var (
	// ErrNotConnected is returned by HealthCheck after Close.
	ErrNotConnected = errors.New("influxdb: not connected")

	// ErrConnectionFailed is returned by Connect when the server does not
	// answer the ping or reports itself unhealthy.
	ErrConnectionFailed = errors.New("influxdb: connection failed")
)
