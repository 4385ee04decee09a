// Bose Bridge - REST control for a single Bose speaker
//
// This is the main entry point for the bridge. It exposes a local HTTP
// API that translates REST calls into the speaker's websocket control
// protocol:
//   - One device, one cached session, re-initialisable at runtime
//   - Credentials from environment, .env file, or optional YAML config
//   - Optional MQTT status announcements and InfluxDB latency metrics
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aebersold/pybose-fastapi-wrapped/internal/api"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/bose"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/config"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/influxdb"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/logging"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/infrastructure/mqtt"
	"github.com/aebersold/pybose-fastapi-wrapped/internal/session"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path, used only when the file exists.
// The usual deployment shape is environment variables plus a .env file.
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Bose bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if configPath != "" {
		log.Info("configuration loaded", "path", configPath)
	} else {
		log.Info("configuration loaded from environment")
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT announcer disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
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

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Session store with the production connector
	store := session.NewStore(speakerConnector(cfg, log))
	store.SetLogger(log)
	defer func() {
		log.Info("closing device session")
		store.Clear()
	}()

	// Open the session at startup when the configured credentials are
	// complete. Failure is not fatal: the bridge still serves, and a
	// later POST /initialize can retry.
	if creds, complete := cfg.Credentials(); complete {
		if _, initErr := store.Initialize(ctx, creds); initErr != nil {
			log.Warn("startup initialisation failed, call POST /initialize to retry",
				"host", creds.Host,
				"error", initErr,
			)
		}
	} else {
		log.Info("credentials incomplete, waiting for POST /initialize")
	}

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:   cfg.Server,
		Device:   cfg.Device,
		Logger:   log,
		Sessions: store,
		MQTT:     mqttClient,
		Metrics:  influxClient,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server listening", "addr", cfg.Server.Listen)

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Device session
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)

	log.Info("Bose bridge stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses the BOSE_CONFIG environment variable if set; otherwise the default
// path when the file exists. An empty return means environment-only.
func getConfigPath() string {
	if path := os.Getenv("BOSE_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// healthCheck verifies the optional infrastructure connections are healthy.
// Either client may be nil when disabled.
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// speakerConnector returns the production session connector: a cloud
// login followed by a websocket dial to the speaker on the local network.
func speakerConnector(cfg *config.Config, log *logging.Logger) session.ConnectFunc {
	return func(ctx context.Context, creds config.Credentials) (bose.Controller, error) {
		token, err := bose.Authenticate(ctx, creds.Username, creds.Password, bose.AuthConfig{
			Timeout: cfg.GetDialTimeout(),
		})
		if err != nil {
			return nil, err
		}

		return bose.Dial(ctx, bose.SpeakerConfig{
			Host:           creds.Host,
			DeviceID:       creds.DeviceID,
			Token:          token,
			DialTimeout:    cfg.GetDialTimeout(),
			RequestTimeout: cfg.GetRequestTimeout(),
			Logger:         log,
		})
	}
}
