package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Heizung bridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Slack         SlackConfig         `yaml:"slack"`
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	Rooms         RoomMapping         `yaml:"rooms"`
	API           APIConfig           `yaml:"api"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	InfluxDB      InfluxDBConfig      `yaml:"influxdb"`
	Logging       LoggingConfig       `yaml:"logging"`
	RequestLog    RequestLogConfig    `yaml:"request_log"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
}

// SlackConfig contains the slash-command settings.
type SlackConfig struct {
	// Token is the shared secret Slack sends with every slash command.
	Token string `yaml:"token"`

	// Channel is the only channel in which heating may be switched.
	Channel string `yaml:"channel"`
}

// HomeAssistantConfig contains the downstream device API settings.
type HomeAssistantConfig struct {
	// URL is the API base, e.g. "http://hausverstand.local:8123/api/".
	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	// Timeout per downstream call, in seconds.
	Timeout int `yaml:"timeout"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"` // seconds

	// Tags are added to every point, e.g. {"site": "atelier-haus"}.
	Tags map[string]string `yaml:"tags"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// RequestLogConfig contains settings for the append-only request log file.
type RequestLogConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	// OTLPEndpoint selects the OTLP/gRPC trace exporter when set.
	// Traces go to stdout otherwise (only if StdoutTraces is true).
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
	StdoutTraces bool   `yaml:"stdout_traces"`
	Environment  string `yaml:"environment"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HEIZUNG_SECTION_KEY
// For example: HEIZUNG_SLACK_TOKEN, HEIZUNG_API_PORT
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Slack: SlackConfig{
			Channel: "heizung",
		},
		HomeAssistant: HomeAssistantConfig{
			Timeout: 8,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  10,
				Write: 30,
				Idle:  60,
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "heizung-bridge",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		RequestLog: RequestLogConfig{
			Enabled:    true,
			Path:       "heizung.log",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     90,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Telemetry: TelemetryConfig{
			Environment: "production",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Secrets are expected to come from here rather than the YAML file.
func applyEnvOverrides(cfg *Config) {
	// Slack
	if v := os.Getenv("HEIZUNG_SLACK_TOKEN"); v != "" {
		cfg.Slack.Token = v
	}
	if v := os.Getenv("HEIZUNG_SLACK_CHANNEL"); v != "" {
		cfg.Slack.Channel = v
	}

	// Home Assistant
	if v := os.Getenv("HEIZUNG_HOMEASSISTANT_URL"); v != "" {
		cfg.HomeAssistant.URL = v
	}
	if v := os.Getenv("HEIZUNG_HOMEASSISTANT_TOKEN"); v != "" {
		cfg.HomeAssistant.Token = v
	}

	// API
	if v := os.Getenv("HEIZUNG_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("HEIZUNG_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}

	// MQTT
	if v := os.Getenv("HEIZUNG_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HEIZUNG_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HEIZUNG_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("HEIZUNG_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors and security issues.
func (c *Config) Validate() error {
	var errs []string

	// An empty shared secret would accept every request without a token.
	if c.Slack.Token == "" {
		errs = append(errs, "slack.token is required (set HEIZUNG_SLACK_TOKEN environment variable)")
	}
	if c.Slack.Channel == "" {
		errs = append(errs, "slack.channel is required")
	}

	if c.HomeAssistant.URL == "" {
		errs = append(errs, "homeassistant.url is required")
	}
	if c.HomeAssistant.Token == "" {
		errs = append(errs, "homeassistant.token is required (set HEIZUNG_HOMEASSISTANT_TOKEN environment variable)")
	}
	if c.HomeAssistant.Timeout < 1 {
		errs = append(errs, "homeassistant.timeout must be at least 1 second")
	}

	if c.Rooms.Len() == 0 {
		errs = append(errs, "rooms must contain at least one room")
	}

	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.MQTT.Enabled && (c.MQTT.QoS < 0 || c.MQTT.QoS > 2) {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if c.RequestLog.Enabled && c.RequestLog.Path == "" {
		errs = append(errs, "request_log.path is required when the request log is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c APIConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c APIConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c APIConfig) GetIdleTimeout() time.Duration {
	return time.Duration(c.Timeouts.Idle) * time.Second
}

// GetHomeAssistantTimeout returns the downstream call timeout as a Duration.
func (c *Config) GetHomeAssistantTimeout() time.Duration {
	return time.Duration(c.HomeAssistant.Timeout) * time.Second
}
