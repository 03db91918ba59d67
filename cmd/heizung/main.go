// Heizung bridge - Slack slash commands for the Home Assistant heating switches.
//
// The bridge answers /heizung_an, /heizung_aus and /heizung_status by calling
// the Home Assistant REST API and replying to Slack in the same request.
// Switch events and status results are optionally published to MQTT and
// recorded in InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/heizung-bridge/internal/api"
	"github.com/nerrad567/heizung-bridge/internal/events"
	"github.com/nerrad567/heizung-bridge/internal/heating"
	"github.com/nerrad567/heizung-bridge/internal/homeassistant"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/config"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/logging"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/requestlog"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// shutdownTimeout bounds telemetry flushing on exit.
const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting heizung bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "rooms", cfg.Rooms.Len())

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Telemetry
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, version, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("error shutting down telemetry", "error", shutdownErr)
		}
	}()

	// Request log (optional)
	reqLog := requestlog.Open(cfg.RequestLog)
	defer func() {
		if closeErr := reqLog.Close(); closeErr != nil {
			log.Error("error closing request log", "error", closeErr)
		}
	}()
	if cfg.RequestLog.Enabled {
		log.Info("request log enabled", "path", cfg.RequestLog.Path)
	}

	var checks []api.NamedCheck

	// Connect to MQTT broker (optional)
	var publisher events.Publisher
	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
		publisher = mqttClient
		checks = append(checks, api.NamedCheck{Name: "mqtt", Checker: mqttClient})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var points events.PointWriter
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB, log)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		points = influxClient
		checks = append(checks, api.NamedCheck{Name: "influxdb", Checker: influxClient})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Home Assistant client
	gateway, err := homeassistant.New(homeassistant.Options{
		BaseURL: cfg.HomeAssistant.URL,
		Token:   cfg.HomeAssistant.Token,
		Timeout: cfg.GetHomeAssistantTimeout(),
	})
	if err != nil {
		return fmt.Errorf("creating Home Assistant client: %w", err)
	}

	opts := heating.Options{
		Slack:   cfg.Slack,
		Rooms:   cfg.Rooms,
		Gateway: gateway,
		Logger:  log,
	}
	if reqLog != nil {
		opts.RequestLog = reqLog
	}
	if recorder := events.NewRecorder(cfg.Rooms, publisher, points, log); recorder.Enabled() {
		opts.Recorder = recorder
	}

	service, err := heating.NewService(opts)
	if err != nil {
		return fmt.Errorf("creating heating service: %w", err)
	}

	// HTTP server
	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Commands: service,
		Checks:   checks,
		Metrics:  tel.MetricsHandler(),
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal",
		"address", server.Addr(),
		"channel", cfg.Slack.Channel,
	)

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB, MQTT, request log, telemetry.

	log.Info("heizung bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HEIZUNG_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HEIZUNG_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
