// Package config layers an optional YAML file over the built-in defaults.
// Calibration constants ship as defaults tuned for the production orb;
// field recalibration happens through the file, not a rebuild.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/Nipz652/CalmOrbIoT/sensing"
	"github.com/Nipz652/CalmOrbIoT/telemetry"
)

// Config is the full process configuration.
type Config struct {
	DeviceID string `yaml:"device_id"`
	CSVPath  string `yaml:"csv_path"`
	WSAddr   string `yaml:"ws_addr"`
	RingSize int    `yaml:"ring_size"`

	MQTT    MQTT    `yaml:"mqtt"`
	Sensing Sensing `yaml:"sensing"`
}

// MQTT mirrors telemetry.Config for the file format.
type MQTT struct {
	Broker          string `yaml:"broker"`
	Port            int    `yaml:"port"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	UseTLS          bool   `yaml:"use_tls"`
	InsecureSkipTLS bool   `yaml:"insecure_skip_tls"`
	EventTopic      string `yaml:"event_topic"`
	CommandTopic    string `yaml:"command_topic"`
	QueueSize       int    `yaml:"queue_size"`
}

// Sensing exposes the field-tunable calibration constants. Durations are
// milliseconds. Zero values mean "keep the default".
type Sensing struct {
	PSINoGrip   float64 `yaml:"psi_no_grip"`
	PSICalm     float64 `yaml:"psi_calm"`
	PSIModerate float64 `yaml:"psi_moderate"`
	PSIStressed float64 `yaml:"psi_stressed"`

	ConfirmCount int `yaml:"confirm_count"`

	GripGapMaxMS     int `yaml:"grip_gap_max_ms"`
	GripPatternCount int `yaml:"grip_pattern_count"`

	MotionStreakCount  int `yaml:"motion_streak_count"`
	CooldownMS         int `yaml:"cooldown_ms"`
	PeriodicIntervalMS int `yaml:"periodic_interval_ms"`
	TickIntervalMS     int `yaml:"tick_interval_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DeviceID: "",
		CSVPath:  "data/calmorb_events.csv",
		WSAddr:   ":8090",
		RingSize: 500,
		MQTT: MQTT{
			Broker:       "localhost",
			Port:         1883,
			EventTopic:   "calmorb/events",
			CommandTopic: "calmorb/commands",
			QueueSize:    64,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing path is
// not an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SensingConfig applies the file's overrides to the sensing defaults.
func (c Config) SensingConfig() sensing.Config {
	sc := sensing.DefaultConfig()
	s := c.Sensing

	if s.PSINoGrip > 0 {
		sc.PSINoGrip = s.PSINoGrip
	}
	if s.PSICalm > 0 {
		sc.PSICalm = s.PSICalm
	}
	if s.PSIModerate > 0 {
		sc.PSIModerate = s.PSIModerate
	}
	if s.PSIStressed > 0 {
		sc.PSIStressed = s.PSIStressed
	}
	if s.ConfirmCount > 0 {
		sc.ConfirmCount = s.ConfirmCount
	}
	if s.GripGapMaxMS > 0 {
		sc.GripGapMax = time.Duration(s.GripGapMaxMS) * time.Millisecond
	}
	if s.GripPatternCount > 0 {
		sc.GripPatternCount = s.GripPatternCount
	}
	if s.MotionStreakCount > 0 {
		sc.MotionStreakCount = s.MotionStreakCount
	}
	if s.CooldownMS > 0 {
		sc.Cooldown = time.Duration(s.CooldownMS) * time.Millisecond
	}
	if s.PeriodicIntervalMS > 0 {
		sc.PeriodicInterval = time.Duration(s.PeriodicIntervalMS) * time.Millisecond
	}
	if s.TickIntervalMS > 0 {
		sc.TickInterval = time.Duration(s.TickIntervalMS) * time.Millisecond
	}

	return sc
}

// TelemetryConfig builds the transport configuration.
func (c Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Broker:          c.MQTT.Broker,
		Port:            c.MQTT.Port,
		Username:        c.MQTT.Username,
		Password:        c.MQTT.Password,
		UseTLS:          c.MQTT.UseTLS,
		InsecureSkipTLS: c.MQTT.InsecureSkipTLS,
		EventTopic:      c.MQTT.EventTopic,
		CommandTopic:    c.MQTT.CommandTopic,
		ClientID:        c.DeviceID,
		QueueSize:       c.MQTT.QueueSize,
	}
}
