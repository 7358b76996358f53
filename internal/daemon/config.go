// Package daemon manages the Royal Guard daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Storage   StorageConfig   `toml:"storage"`
	Game      GameConfig      `toml:"game"`
	Events    EventsConfig    `toml:"events"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// GameConfig tunes the game rules that are deployment specific.
type GameConfig struct {
	// Timezone is the IANA name calendar days are computed in.
	// "" or "Local" uses the host zone.
	Timezone   string `toml:"timezone"`
	Seed       uint64 `toml:"seed"` // 0 seeds the gacha from the clock
	MaxRetries int    `toml:"max_retries"`
}

// EventsConfig controls change-event publishing. An empty RedisAddr
// disables it.
type EventsConfig struct {
	RedisAddr string `toml:"redis_addr"`
	Channel   string `toml:"channel"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8686,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: royalguardHome(),
		},
		Game: GameConfig{
			Timezone:   "Local",
			MaxRetries: 3,
		},
		Events: EventsConfig{
			Channel: "royalguard.child",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig reads config from $ROYALGUARD_HOME/config.toml, falling back
// to defaults.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom reads the config file at path over the defaults. A missing
// file is not an error.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the daemon cannot start with.
func (c Config) Validate() error {
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Game.MaxRetries < 0 {
		return fmt.Errorf("game.max_retries must not be negative")
	}
	if _, err := c.Game.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone.
func (g GameConfig) Location() (*time.Location, error) {
	if g.Timezone == "" || g.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("game.timezone: %w", err)
	}
	return loc, nil
}

// SaveConfig writes the config to $ROYALGUARD_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// ConfigPath is the location of the config file.
func ConfigPath() string {
	return filepath.Join(royalguardHome(), "config.toml")
}

// royalguardHome returns the Royal Guard data directory.
func royalguardHome() string {
	if env := os.Getenv("ROYALGUARD_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".royalguard")
}
