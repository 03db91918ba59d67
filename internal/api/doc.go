// Package api provides the HTTP endpoints of the Heizung bridge.
//
// It exposes the Slack slash-command webhook plus operational endpoints:
//
//	POST /slack/command   slash-command webhook (always HTTP 200)
//	GET  /api/v1/health   JSON health of the bridge and its optional sinks
//	GET  /metrics         Prometheus exposition
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api
