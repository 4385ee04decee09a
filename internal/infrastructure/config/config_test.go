package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  listen: ":9000"
  timeouts:
    read: 10
device:
  host: "192.168.1.50"
  device_id: "ABCDEF123456"
  volume_step: 3
logging:
  level: "debug"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Listen != ":9000" {
		t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, ":9000")
	}

	if cfg.Device.Host != "192.168.1.50" {
		t.Errorf("Device.Host = %q, want %q", cfg.Device.Host, "192.168.1.50")
	}

	if cfg.Device.VolumeStep != 3 {
		t.Errorf("Device.VolumeStep = %d, want 3", cfg.Device.VolumeStep)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	// Unset values keep their defaults.
	if cfg.Server.Timeouts.Write != 30 {
		t.Errorf("Server.Timeouts.Write = %d, want default 30", cfg.Server.Timeouts.Write)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Server.Listen != ":8291" {
		t.Errorf("Server.Listen = %q, want default %q", cfg.Server.Listen, ":8291")
	}

	if cfg.Device.VolumeStep != 5 {
		t.Errorf("Device.VolumeStep = %d, want default 5", cfg.Device.VolumeStep)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
device:
  host: "from-file"
  volume_step: 3
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("BOSE_USERNAME", "user@example.com")
	t.Setenv("BOSE_PASSWORD", "hunter2")
	t.Setenv("BOSE_HOST", "10.0.0.9")
	t.Setenv("BOSE_DEVICE_ID", "FEEDFACE0001")
	t.Setenv("BOSE_VOLUME_STEP", "7")
	t.Setenv("BOSE_LISTEN", ":8300")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.Host != "10.0.0.9" {
		t.Errorf("Device.Host = %q, want env override %q", cfg.Device.Host, "10.0.0.9")
	}

	if cfg.Device.VolumeStep != 7 {
		t.Errorf("Device.VolumeStep = %d, want env override 7", cfg.Device.VolumeStep)
	}

	if cfg.Server.Listen != ":8300" {
		t.Errorf("Server.Listen = %q, want env override %q", cfg.Server.Listen, ":8300")
	}

	creds, complete := cfg.Credentials()
	if !complete {
		t.Error("Credentials() complete = false, want true")
	}
	if creds.Username != "user@example.com" || creds.DeviceID != "FEEDFACE0001" {
		t.Errorf("Credentials() = %+v, env values not applied", creds)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envContent := "BOSE_HOST=192.168.4.20\nBOSE_USERNAME=dotenv@example.com\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(envContent), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Chdir(tmpDir)

	// A real environment variable wins over the .env file.
	t.Setenv("BOSE_USERNAME", "env@example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.Host != "192.168.4.20" {
		t.Errorf("Device.Host = %q, want .env value %q", cfg.Device.Host, "192.168.4.20")
	}

	if cfg.Device.Username != "env@example.com" {
		t.Errorf("Device.Username = %q, want environment to beat .env", cfg.Device.Username)
	}
}

func TestLoad_BadVolumeStep(t *testing.T) {
	t.Setenv("BOSE_VOLUME_STEP", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for non-integer BOSE_VOLUME_STEP, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "incomplete credentials are not an error",
			mutate:  func(c *Config) { c.Device.Host = "10.0.0.9" },
			wantErr: false,
		},
		{
			name:    "volume step zero",
			mutate:  func(c *Config) { c.Device.VolumeStep = 0 },
			wantErr: true,
		},
		{
			name:    "volume step negative",
			mutate:  func(c *Config) { c.Device.VolumeStep = -2 },
			wantErr: true,
		},
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.Server.Listen = "" },
			wantErr: true,
		},
		{
			name:    "dial timeout zero",
			mutate:  func(c *Config) { c.Device.DialTimeout = 0 },
			wantErr: true,
		},
		{
			name: "mqtt enabled without host",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.Broker.Host = ""
			},
			wantErr: true,
		},
		{
			name: "mqtt invalid qos",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 3
			},
			wantErr: true,
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: true,
		},
		{
			name: "influxdb enabled without token",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = "http://localhost:8086"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Credentials(t *testing.T) {
	tests := []struct {
		name         string
		device       DeviceConfig
		wantComplete bool
	}{
		{
			name: "all fields set",
			device: DeviceConfig{
				Username: "u@example.com",
				Password: "p",
				Host:     "10.0.0.9",
				DeviceID: "ABC123",
			},
			wantComplete: true,
		},
		{
			name:         "nothing set",
			device:       DeviceConfig{},
			wantComplete: false,
		},
		{
			name: "missing password",
			device: DeviceConfig{
				Username: "u@example.com",
				Host:     "10.0.0.9",
				DeviceID: "ABC123",
			},
			wantComplete: false,
		},
		{
			name: "missing device id",
			device: DeviceConfig{
				Username: "u@example.com",
				Password: "p",
				Host:     "10.0.0.9",
			},
			wantComplete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Device.Username = tt.device.Username
			cfg.Device.Password = tt.device.Password
			cfg.Device.Host = tt.device.Host
			cfg.Device.DeviceID = tt.device.DeviceID

			_, complete := cfg.Credentials()
			if complete != tt.wantComplete {
				t.Errorf("Credentials() complete = %v, want %v", complete, tt.wantComplete)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			Timeouts: ServerTimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
		Device: DeviceConfig{
			DialTimeout:    15,
			RequestTimeout: 10,
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}

	if got := cfg.GetDialTimeout().Seconds(); got != 15 {
		t.Errorf("GetDialTimeout() = %v, want 15", got)
	}

	if got := cfg.GetRequestTimeout().Seconds(); got != 10 {
		t.Errorf("GetRequestTimeout() = %v, want 10", got)
	}
}
