package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML file. Pointer fields distinguish "absent" from
// zero so that a partial file only overrides what it names.
type fileConfig struct {
	Service struct {
		Name       *string `yaml:"name"`
		HealthPort *int    `yaml:"health_port"`
		LogLevel   *string `yaml:"log_level"`
	} `yaml:"service"`

	Location struct {
		Latitude  *float64 `yaml:"latitude"`
		Longitude *float64 `yaml:"longitude"`
		City      *string  `yaml:"city"`
		Timezone  *string  `yaml:"timezone"`
	} `yaml:"location"`

	Theme struct {
		Dir *string `yaml:"dir"`
	} `yaml:"theme"`

	Schedule struct {
		Mode          *string `yaml:"mode"`
		IntervalSec   *int    `yaml:"interval_sec"`
		RetryCount    *int    `yaml:"retry_count"`
		RetryDelaySec *int    `yaml:"retry_delay_sec"`
	} `yaml:"schedule"`

	Apply struct {
		Command *string `yaml:"command"`
		Display *string `yaml:"display"`
	} `yaml:"apply"`

	MQTT struct {
		Enabled  *bool   `yaml:"enabled"`
		Broker   *string `yaml:"broker"`
		Port     *int    `yaml:"port"`
		User     *string `yaml:"user"`
		Password *string `yaml:"password"`
		ClientID *string `yaml:"client_id"`
	} `yaml:"mqtt"`

	Redis struct {
		Enabled  *bool   `yaml:"enabled"`
		Host     *string `yaml:"host"`
		Port     *int    `yaml:"port"`
		Password *string `yaml:"password"`
		DB       *int    `yaml:"db"`
	} `yaml:"redis"`

	Postgres struct {
		Enabled  *bool   `yaml:"enabled"`
		Host     *string `yaml:"host"`
		Port     *int    `yaml:"port"`
		User     *string `yaml:"user"`
		Password *string `yaml:"password"`
		DB       *string `yaml:"db"`
		SSLMode  *string `yaml:"sslmode"`
	} `yaml:"postgres"`
}

// LoadFromFile overlays values from a YAML file
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return c.LoadFromYAML(data)
}

// LoadFromYAML overlays values from YAML bytes (useful for testing)
func (c *Config) LoadFromYAML(data []byte) error {
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	set(&c.ServiceName, f.Service.Name)
	set(&c.HealthPort, f.Service.HealthPort)
	set(&c.LogLevel, f.Service.LogLevel)

	set(&c.Latitude, f.Location.Latitude)
	set(&c.Longitude, f.Location.Longitude)
	set(&c.City, f.Location.City)
	set(&c.Timezone, f.Location.Timezone)

	set(&c.ThemeDir, f.Theme.Dir)

	set(&c.Mode, f.Schedule.Mode)
	set(&c.IntervalSec, f.Schedule.IntervalSec)
	set(&c.RetryCount, f.Schedule.RetryCount)
	set(&c.RetryDelaySec, f.Schedule.RetryDelaySec)

	set(&c.ApplyCommand, f.Apply.Command)
	set(&c.Display, f.Apply.Display)

	set(&c.MQTTEnabled, f.MQTT.Enabled)
	set(&c.MQTTBroker, f.MQTT.Broker)
	set(&c.MQTTPort, f.MQTT.Port)
	set(&c.MQTTUser, f.MQTT.User)
	set(&c.MQTTPassword, f.MQTT.Password)
	set(&c.MQTTClientID, f.MQTT.ClientID)

	set(&c.RedisEnabled, f.Redis.Enabled)
	set(&c.RedisHost, f.Redis.Host)
	set(&c.RedisPort, f.Redis.Port)
	set(&c.RedisPassword, f.Redis.Password)
	set(&c.RedisDB, f.Redis.DB)

	set(&c.PostgresEnabled, f.Postgres.Enabled)
	set(&c.PostgresHost, f.Postgres.Host)
	set(&c.PostgresPort, f.Postgres.Port)
	set(&c.PostgresUser, f.Postgres.User)
	set(&c.PostgresPassword, f.Postgres.Password)
	set(&c.PostgresDB, f.Postgres.DB)
	set(&c.PostgresSSLMode, f.Postgres.SSLMode)

	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
