// Package logging provides the bridge's structured logger on log/slog.
//
// Every entry carries service and version. Loggers derived with Component
// add the emitting component, and entries logged through the *Context
// methods add the request ID the HTTP layer stored with WithRequestID.
//
// Configuration:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version).Component("heating")
//	ctx = logging.WithRequestID(ctx, id)
//	logger.InfoContext(ctx, "heating switched", "room", "salon")
//
// Never log the Slack token or the Home Assistant bearer token.
package logging
