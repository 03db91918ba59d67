// Package config handles loading and validating the Heizung bridge configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//   - The ordered room name to device mapping
//
// Security Considerations:
//   - The Slack token and Home Assistant token should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load; the room mapping is read-only
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	device, ok := cfg.Rooms.Lookup("salon")
package config
