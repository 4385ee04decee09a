package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the bridge.
// Values are loaded from an optional YAML file, a .env file, and
// environment variables, in that order of increasing precedence.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Device   DeviceConfig   `yaml:"device"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Listen   string              `yaml:"listen" env:"BOSE_LISTEN"`
	Timeouts ServerTimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig          `yaml:"cors"`
}

// ServerTimeoutConfig contains HTTP timeout settings in seconds.
type ServerTimeoutConfig struct {
	Read  int `yaml:"read" env:"BOSE_TIMEOUT_READ"`
	Write int `yaml:"write" env:"BOSE_TIMEOUT_WRITE"`
	Idle  int `yaml:"idle" env:"BOSE_TIMEOUT_IDLE"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"BOSE_CORS_ORIGINS" envSeparator:","`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// DeviceConfig contains the speaker credentials and control settings.
//
// All five values can come from the environment (or a .env file in the
// working directory), which is the usual deployment shape. The YAML keys
// exist for completeness; environment values win.
type DeviceConfig struct {
	Username   string `yaml:"username" env:"BOSE_USERNAME"`
	Password   string `yaml:"password" env:"BOSE_PASSWORD"`
	Host       string `yaml:"host" env:"BOSE_HOST"`
	DeviceID   string `yaml:"device_id" env:"BOSE_DEVICE_ID"`
	VolumeStep int    `yaml:"volume_step" env:"BOSE_VOLUME_STEP"`

	// DialTimeout bounds the cloud login and the websocket dial, in seconds.
	DialTimeout int `yaml:"dial_timeout" env:"BOSE_DIAL_TIMEOUT"`
	// RequestTimeout bounds a single device round trip, in seconds.
	RequestTimeout int `yaml:"request_timeout" env:"BOSE_REQUEST_TIMEOUT"`
}

// Credentials is the subset of DeviceConfig needed to open a session.
type Credentials struct {
	Username string
	Password string
	Host     string
	DeviceID string
}

// MQTTConfig contains settings for the optional MQTT status announcer.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled" env:"BOSE_MQTT_ENABLED"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	TopicBase string              `yaml:"topic_base"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host" env:"BOSE_MQTT_HOST"`
	Port     int    `yaml:"port" env:"BOSE_MQTT_PORT"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username" env:"BOSE_MQTT_USERNAME"`
	Password string `yaml:"password" env:"BOSE_MQTT_PASSWORD"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains settings for the optional metrics sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled" env:"BOSE_INFLUXDB_ENABLED"`
	URL           string `yaml:"url" env:"BOSE_INFLUXDB_URL"`
	Token         string `yaml:"token" env:"BOSE_INFLUXDB_TOKEN"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"BOSE_LOG_LEVEL"`
	Format string `yaml:"format" env:"BOSE_LOG_FORMAT"`
	Output string `yaml:"output"`
}

// Load reads configuration and returns the immutable value used for the
// life of the process.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, when path is non-empty (override defaults)
//  3. A .env file in the working directory, loaded into the environment
//  4. Environment variables (override everything)
//
// Environment changes after startup have no effect; configuration is read
// exactly once.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Populate the environment from .env before parsing overrides. Existing
	// environment variables keep precedence over the file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8291",
			Timeouts: ServerTimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Device: DeviceConfig{
			VolumeStep:     5,
			DialTimeout:    15,
			RequestTimeout: 10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "bosebridge",
			},
			QoS:       1,
			TopicBase: "bosebridge",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     20,
			FlushInterval: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Validate checks the configuration for errors.
//
// An incomplete credential set is not an error; the process must come up
// and serve the initialization endpoint regardless. Malformed values are.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Listen == "" {
		errs = append(errs, "server.listen is required")
	}
	if c.Device.VolumeStep < 1 {
		errs = append(errs, "device.volume_step must be at least 1")
	}
	if c.Device.DialTimeout < 1 {
		errs = append(errs, "device.dial_timeout must be at least 1 second")
	}
	if c.Device.RequestTimeout < 1 {
		errs = append(errs, "device.request_timeout must be at least 1 second")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Credentials returns the device credential set and whether it is complete.
// The volume step never affects completeness; it always has a default.
func (c *Config) Credentials() (Credentials, bool) {
	creds := Credentials{
		Username: c.Device.Username,
		Password: c.Device.Password,
		Host:     c.Device.Host,
		DeviceID: c.Device.DeviceID,
	}
	complete := creds.Username != "" && creds.Password != "" && creds.Host != "" && creds.DeviceID != ""
	return creds, complete
}

// GetReadTimeout returns the server read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the server write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the server idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}

// GetDialTimeout returns the device dial timeout as a Duration.
func (c *Config) GetDialTimeout() time.Duration {
	return time.Duration(c.Device.DialTimeout) * time.Second
}

// GetRequestTimeout returns the device request timeout as a Duration.
func (c *Config) GetRequestTimeout() time.Duration {
	return time.Duration(c.Device.RequestTimeout) * time.Second
}
