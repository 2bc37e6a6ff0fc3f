package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.True(t, math.IsNaN(cfg.Latitude))
	assert.True(t, math.IsNaN(cfg.Longitude))
	assert.Equal(t, ModeAuto, cfg.Mode)
	assert.Equal(t, 300, cfg.IntervalSec)
	assert.Equal(t, 3, cfg.RetryCount)
	assert.False(t, cfg.RedisEnabled)

	// Defaults are a fresh record every time
	cfg.IntervalSec = 1
	assert.Equal(t, 300, NewConfig().IntervalSec)
}

func TestLoadFromYAML_PartialSchedule(t *testing.T) {
	cfg := NewConfig()
	err := cfg.LoadFromYAML([]byte(`
location:
  city: Helsinki
schedule:
  interval_sec: 60
redis:
  enabled: true
  port: 6380
`))
	require.NoError(t, err)

	assert.Equal(t, "Helsinki", cfg.City)
	assert.Equal(t, 60, cfg.IntervalSec)
	// Keys not named in the file keep their defaults
	assert.Equal(t, 3, cfg.RetryCount)
	assert.Equal(t, 5, cfg.RetryDelaySec)
	assert.Equal(t, ModeAuto, cfg.Mode)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 6380, cfg.RedisPort)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.True(t, math.IsNaN(cfg.Latitude))
}

func TestLoadFromYAML_Invalid(t *testing.T) {
	cfg := NewConfig()
	assert.Error(t, cfg.LoadFromYAML([]byte("schedule: [unclosed")))
}

func TestLoad_LayerPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sunwall.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme:
  dir: /themes/from-file
schedule:
  mode: cycle
  interval_sec: 120
  retry_count: 7
location:
  latitude: 10.5
  longitude: 20.25
`), 0o644))

	t.Setenv("SUNWALL_INTERVAL_SEC", "90")
	t.Setenv("SUNWALL_TIMEZONE", "Europe/Helsinki")

	cfg, err := Load([]string{"--config", path, "--mode", "hourly", "--latitude=-33.5"})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "/themes/from-file", cfg.ThemeDir) // file
	assert.Equal(t, 7, cfg.RetryCount)                 // file
	assert.Equal(t, 90, cfg.IntervalSec)               // env over file
	assert.Equal(t, "Europe/Helsinki", cfg.Timezone)   // env
	assert.Equal(t, ModeHourly, cfg.Mode)              // flag over file
	assert.Equal(t, -33.5, cfg.Latitude)               // flag over file
	assert.Equal(t, 20.25, cfg.Longitude)              // file
	require.NoError(t, cfg.Validate())
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sunwall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apply:\n  display: office\n"), 0o644))
	t.Setenv("SUNWALL_CONFIG", path)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "office", cfg.Display)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, err = Load([]string{"--interval", "soon"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewConfig()
		cfg.ThemeDir = "/themes/mojave"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing theme", func(c *Config) { c.ThemeDir = "" }, true},
		{"bad mode", func(c *Config) { c.Mode = "random" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"zero interval", func(c *Config) { c.IntervalSec = 0 }, true},
		{"negative retries", func(c *Config) { c.RetryCount = -1 }, true},
		{"latitude out of range", func(c *Config) { c.Latitude = 91 }, true},
		{"longitude out of range", func(c *Config) { c.Longitude = -181 }, true},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
		{"redis disabled ignores port", func(c *Config) { c.RedisPort = 0 }, false},
		{"redis enabled checks port", func(c *Config) { c.RedisEnabled = true; c.RedisPort = 0 }, true},
		{"mqtt enabled needs broker", func(c *Config) { c.MQTTEnabled = true; c.MQTTBroker = "" }, true},
		{"postgres enabled needs db", func(c *Config) { c.PostgresEnabled = true; c.PostgresDB = "" }, true},
		{"health disabled", func(c *Config) { c.HealthPort = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAddresses(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTTAddress())
	assert.Equal(t, "localhost:6379", cfg.RedisAddress())
	assert.Contains(t, cfg.PostgresConnectionString(), "dbname=sunwall")
	assert.Equal(t, int64(300), int64(cfg.Interval().Seconds()))
}

func TestHealthEnabled(t *testing.T) {
	tests := []struct {
		name string
		port int
		once bool
		want bool
	}{
		{"default port", 8080, false, true},
		{"port zero disables", 0, false, false},
		{"one-shot run", 8080, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.HealthPort = tt.port
			cfg.Once = tt.once
			assert.Equal(t, tt.want, cfg.HealthEnabled())
		})
	}
}
