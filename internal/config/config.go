package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	loopconfig "github.com/tomz197/blaster/internal/loop/config"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid config")

// Config is the runtime configuration shared by the binaries.
type Config struct {
	SaveDir  string `yaml:"saveDir"`
	LogLevel string `yaml:"logLevel"`
	LogFile  string `yaml:"logFile"`

	SSH  SSHConfig  `yaml:"ssh"`
	Web  WebConfig  `yaml:"web"`
	Game GameConfig `yaml:"game"`
}

// SSHConfig configures cmd/ssh.
type SSHConfig struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	HostKey string `yaml:"hostKey"`
}

// WebConfig configures cmd/web.
type WebConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// GameConfig overrides the simulation's field and cadence.
type GameConfig struct {
	FieldWidth    float64       `yaml:"fieldWidth"`
	FieldHeight   float64       `yaml:"fieldHeight"`
	TickInterval  time.Duration `yaml:"tickInterval"`
	SpawnInterval time.Duration `yaml:"spawnInterval"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		SaveDir:  "saves",
		LogLevel: "info",
		SSH: SSHConfig{
			Host:    "::",
			Port:    "2222",
			HostKey: ".ssh/host_key",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: "8080",
		},
		Game: GameConfig{
			FieldWidth:    loopconfig.FieldWidth,
			FieldHeight:   loopconfig.FieldHeight,
			TickInterval:  loopconfig.TickInterval,
			SpawnInterval: loopconfig.SpawnInterval,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $CONFIG_FILE when path is empty) if one exists, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = GetEnv("CONFIG_FILE", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.SaveDir = GetEnv("SAVE_DIR", c.SaveDir)
	c.LogLevel = GetEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = GetEnv("LOG_FILE", c.LogFile)
	c.SSH.Host = GetEnv("SSH_HOST", c.SSH.Host)
	c.SSH.Port = GetEnv("SSH_PORT", c.SSH.Port)
	c.SSH.HostKey = GetEnv("SSH_HOST_KEY", c.SSH.HostKey)
	c.Web.Host = GetEnv("WEB_HOST", c.Web.Host)
	c.Web.Port = GetEnv("WEB_PORT", c.Web.Port)

	var err error
	if c.Game.FieldWidth, err = envFloat("FIELD_WIDTH", c.Game.FieldWidth); err != nil {
		return err
	}
	if c.Game.FieldHeight, err = envFloat("FIELD_HEIGHT", c.Game.FieldHeight); err != nil {
		return err
	}
	if c.Game.TickInterval, err = envDuration("TICK_INTERVAL", c.Game.TickInterval); err != nil {
		return err
	}
	if c.Game.SpawnInterval, err = envDuration("SPAWN_INTERVAL", c.Game.SpawnInterval); err != nil {
		return err
	}
	return nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err)
	}
	return f, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err)
	}
	return d, nil
}

// Validate reports the first out of range value.
func (c Config) Validate() error {
	switch {
	case c.Game.FieldWidth <= 0 || c.Game.FieldHeight <= 0:
		return fmt.Errorf("%w: field %vx%v", ErrInvalid, c.Game.FieldWidth, c.Game.FieldHeight)
	case c.Game.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval %v", ErrInvalid, c.Game.TickInterval)
	case c.Game.SpawnInterval <= 0:
		return fmt.Errorf("%w: spawn interval %v", ErrInvalid, c.Game.SpawnInterval)
	case c.SaveDir == "":
		return fmt.Errorf("%w: empty save dir", ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
