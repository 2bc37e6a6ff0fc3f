package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// Wallpaper selection modes
const (
	ModeAuto   = "auto"
	ModeHourly = "hourly"
	ModeCycle  = "cycle"
)

// Config holds the configuration for the wallpaper agent
type Config struct {
	// MQTT configuration
	MQTTEnabled  bool
	MQTTBroker   string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string

	// Redis configuration
	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Postgres configuration
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Service configuration
	ServiceName string
	HealthPort  int
	LogLevel    string
	ConfigFile  string

	// Location; NaN coordinates mean "not configured"
	Latitude  float64
	Longitude float64
	City      string
	Timezone  string

	// Theme and scheduling
	ThemeDir      string
	Mode          string
	IntervalSec   int
	RetryCount    int
	RetryDelaySec int

	// Wallpaper application
	ApplyCommand string
	Display      string
	Once         bool
	DryRun       bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		MQTTEnabled:      false,
		MQTTBroker:       "localhost",
		MQTTPort:         1883,
		RedisEnabled:     false,
		RedisHost:        "localhost",
		RedisPort:        6379,
		RedisDB:          0,
		PostgresEnabled:  false,
		PostgresHost:     "localhost",
		PostgresPort:     5432,
		PostgresUser:     "sunwall",
		PostgresDB:       "sunwall",
		PostgresSSLMode:  "disable",
		ServiceName:      "wallpaper-agent",
		HealthPort:       8080,
		LogLevel:         "info",
		Latitude:         math.NaN(),
		Longitude:        math.NaN(),
		Mode:             ModeAuto,
		IntervalSec:      300,
		RetryCount:       3,
		RetryDelaySec:    5,
		ApplyCommand:     "gsettings set org.gnome.desktop.background picture-uri file://{path}",
		Display:          "default",
	}
}

// Load builds the configuration from its layers: defaults, the YAML file named by
// --config or SUNWALL_CONFIG, SUNWALL_* environment variables, then flags.
// Each layer only overrides the values it sets.
func Load(args []string) (*Config, error) {
	// First pass only discovers which flags were given
	probe := NewConfig()
	probeFlags := probe.FlagSet()
	if err := probeFlags.Parse(args); err != nil {
		return nil, err
	}

	path := probe.ConfigFile
	if path == "" {
		path = os.Getenv("SUNWALL_CONFIG")
	}

	cfg := NewConfig()
	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	cfg.LoadFromEnv()

	flags := cfg.FlagSet()
	var setErr error
	probeFlags.Visit(func(f *pflag.Flag) {
		if err := flags.Set(f.Name, f.Value.String()); err != nil && setErr == nil {
			setErr = fmt.Errorf("invalid value for --%s: %w", f.Name, err)
		}
	})
	if setErr != nil {
		return nil, setErr
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables with SUNWALL_ prefix
func (c *Config) LoadFromEnv() {
	// MQTT configuration
	envBool("SUNWALL_MQTT_ENABLED", &c.MQTTEnabled)
	envString("SUNWALL_MQTT_BROKER", &c.MQTTBroker)
	envInt("SUNWALL_MQTT_PORT", &c.MQTTPort)
	envString("SUNWALL_MQTT_USER", &c.MQTTUser)
	envString("SUNWALL_MQTT_PASSWORD", &c.MQTTPassword)
	envString("SUNWALL_MQTT_CLIENT_ID", &c.MQTTClientID)

	// Redis configuration
	envBool("SUNWALL_REDIS_ENABLED", &c.RedisEnabled)
	envString("SUNWALL_REDIS_HOST", &c.RedisHost)
	envInt("SUNWALL_REDIS_PORT", &c.RedisPort)
	envString("SUNWALL_REDIS_PASSWORD", &c.RedisPassword)
	envInt("SUNWALL_REDIS_DB", &c.RedisDB)

	// Postgres configuration
	envBool("SUNWALL_POSTGRES_ENABLED", &c.PostgresEnabled)
	envString("SUNWALL_POSTGRES_HOST", &c.PostgresHost)
	envInt("SUNWALL_POSTGRES_PORT", &c.PostgresPort)
	envString("SUNWALL_POSTGRES_USER", &c.PostgresUser)
	envString("SUNWALL_POSTGRES_PASSWORD", &c.PostgresPassword)
	envString("SUNWALL_POSTGRES_DB", &c.PostgresDB)
	envString("SUNWALL_POSTGRES_SSLMODE", &c.PostgresSSLMode)

	// Service configuration
	envString("SUNWALL_SERVICE_NAME", &c.ServiceName)
	envInt("SUNWALL_HEALTH_PORT", &c.HealthPort)
	envString("SUNWALL_LOG_LEVEL", &c.LogLevel)

	// Location
	envFloat("SUNWALL_LATITUDE", &c.Latitude)
	envFloat("SUNWALL_LONGITUDE", &c.Longitude)
	envString("SUNWALL_CITY", &c.City)
	envString("SUNWALL_TIMEZONE", &c.Timezone)

	// Theme and scheduling
	envString("SUNWALL_THEME_DIR", &c.ThemeDir)
	envString("SUNWALL_MODE", &c.Mode)
	envInt("SUNWALL_INTERVAL_SEC", &c.IntervalSec)
	envInt("SUNWALL_RETRY_COUNT", &c.RetryCount)
	envInt("SUNWALL_RETRY_DELAY_SEC", &c.RetryDelaySec)

	// Wallpaper application
	envString("SUNWALL_APPLY_COMMAND", &c.ApplyCommand)
	envString("SUNWALL_DISPLAY", &c.Display)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// FlagSet returns command-line flags bound to the config's fields, using the
// current values as defaults
func (c *Config) FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("wallpaper-agent", pflag.ContinueOnError)

	// MQTT flags
	fs.BoolVar(&c.MQTTEnabled, "mqtt-enabled", c.MQTTEnabled, "Publish wallpaper changes over MQTT")
	fs.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname")
	fs.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	fs.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	fs.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	fs.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	fs.BoolVar(&c.RedisEnabled, "redis-enabled", c.RedisEnabled, "Persist cycle state in Redis")
	fs.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname")
	fs.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	fs.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	fs.BoolVar(&c.PostgresEnabled, "postgres-enabled", c.PostgresEnabled, "Record wallpaper history in Postgres")
	fs.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname")
	fs.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	fs.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres user")
	fs.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	fs.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database")
	fs.StringVar(&c.PostgresSSLMode, "postgres-sslmode", c.PostgresSSLMode, "Postgres sslmode")

	// Service flags
	fs.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	fs.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port (0 disables)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML configuration file")

	// Location flags
	fs.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for sun event calculation")
	fs.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for sun event calculation")
	fs.StringVar(&c.City, "city", c.City, "City name used when coordinates are not given")
	fs.StringVar(&c.Timezone, "timezone", c.Timezone, "IANA timezone of the location")

	// Theme and scheduling flags
	fs.StringVar(&c.ThemeDir, "theme-dir", c.ThemeDir, "Directory containing the theme descriptor and images")
	fs.StringVar(&c.Mode, "mode", c.Mode, "Selection mode (auto, hourly, cycle)")
	fs.IntVar(&c.IntervalSec, "interval", c.IntervalSec, "Seconds between wallpaper decisions")
	fs.IntVar(&c.RetryCount, "retry-count", c.RetryCount, "Retries when applying a wallpaper fails")
	fs.IntVar(&c.RetryDelaySec, "retry-delay", c.RetryDelaySec, "Seconds between apply retries")

	// Application flags
	fs.StringVar(&c.ApplyCommand, "apply-command", c.ApplyCommand, "Command setting the wallpaper; {path} is replaced by the image path")
	fs.StringVar(&c.Display, "display", c.Display, "Display name used in state keys and topics")
	fs.BoolVar(&c.Once, "once", c.Once, "Make one decision and exit")
	fs.BoolVar(&c.DryRun, "dry-run", c.DryRun, "Log decisions without applying them")

	return fs
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.MQTTEnabled {
		if c.MQTTBroker == "" {
			return fmt.Errorf("MQTT broker is required")
		}
		if c.MQTTPort <= 0 || c.MQTTPort > 65535 {
			return fmt.Errorf("MQTT port must be between 1 and 65535")
		}
	}
	if c.RedisEnabled {
		if c.RedisHost == "" {
			return fmt.Errorf("Redis host is required")
		}
		if c.RedisPort <= 0 || c.RedisPort > 65535 {
			return fmt.Errorf("Redis port must be between 1 and 65535")
		}
	}
	if c.PostgresEnabled {
		if c.PostgresHost == "" || c.PostgresDB == "" {
			return fmt.Errorf("Postgres host and database are required")
		}
		if c.PostgresPort <= 0 || c.PostgresPort > 65535 {
			return fmt.Errorf("Postgres port must be between 1 and 65535")
		}
	}
	if c.HealthPort < 0 || c.HealthPort > 65535 {
		return fmt.Errorf("Health port must be between 0 and 65535")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("Service name is required")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Mode {
	case ModeAuto, ModeHourly, ModeCycle:
	default:
		return fmt.Errorf("invalid mode: %s (must be auto, hourly, or cycle)", c.Mode)
	}

	if c.ThemeDir == "" {
		return fmt.Errorf("theme directory is required")
	}
	if c.IntervalSec <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.RetryCount < 0 || c.RetryDelaySec < 0 {
		return fmt.Errorf("retry count and delay must not be negative")
	}

	if !math.IsNaN(c.Latitude) && (c.Latitude < -90 || c.Latitude > 90) {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if !math.IsNaN(c.Longitude) && (c.Longitude < -180 || c.Longitude > 180) {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %s: %w", c.Timezone, err)
		}
	}

	return nil
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the lib/pq connection string
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode)
}

// HealthEnabled reports whether the health server should run. One-shot runs
// and port 0 disable it.
func (c *Config) HealthEnabled() bool {
	return !c.Once && c.HealthPort > 0
}

// Interval returns the decision interval as a duration
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSec) * time.Second
}

// RetryDelay returns the delay between apply retries
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySec) * time.Second
}
