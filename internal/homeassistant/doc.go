// Package homeassistant is the HTTP client for the Home Assistant REST API.
//
// All calls go through Client.Call, which joins the configured base URL
// with an endpoint path, attaches the bearer token and a JSON content type,
// and returns the raw response body. Non-2xx responses are errors. There are
// no retries; a failed call is reported to the caller immediately.
//
// # Endpoints used
//
//	POST services/switch/turn_on       {"entity_id": "switch.<id>"}
//	POST services/switch/turn_off      {"entity_id": "switch.<id>"}
//	POST services/input_text/set_value {"entity_id": "input_text.<x>", "value": "..."}
//	POST services/logbook/log          {"name": "...", "message": "...", "entity_id": "..."}
//	GET  states/<entity_id>            -> {"state": "...", ...}
//
// # Telemetry
//
// Each call runs inside an OpenTelemetry span and is counted in the
// heizung.homeassistant.calls metric, labelled by endpoint and outcome.
//
// Thread Safety: Client is safe for concurrent use. One underlying
// connection pool is shared by all calls.
package homeassistant
