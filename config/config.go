package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	// Game rules configuration
	Game GameConfig `json:"game"`

	// Content definitions configuration
	Content ContentConfig `json:"content"`

	// Snapshot storage configuration
	Storage StorageConfig `json:"storage"`

	// Server configuration
	Server ServerConfig `json:"server"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// Role used when a run is created without one
	DefaultRole string `json:"default_role" env:"DISTRICT_GAME_DEFAULT_ROLE"`

	// Difficulty used when a run is created without one
	DefaultDifficulty string `json:"default_difficulty" env:"DISTRICT_GAME_DEFAULT_DIFFICULTY"`

	// Entry scene for missions that do not name one
	DefaultSceneID string `json:"default_scene_id" env:"DISTRICT_GAME_DEFAULT_SCENE_ID"`

	// Notoriety added when battery is overdrawn
	BatteryPenalty int `json:"battery_penalty" env:"DISTRICT_GAME_BATTERY_PENALTY"`

	// Progression policy (first_locked, requirements)
	UnlockPolicy string `json:"unlock_policy" env:"DISTRICT_GAME_UNLOCK_POLICY"`

	// Delay in milliseconds the UI shows a closing scene before results
	ClosingDelayMS int `json:"closing_delay_ms" env:"DISTRICT_GAME_CLOSING_DELAY_MS"`

	// Base maximum health
	MaxHealth int `json:"max_health" env:"DISTRICT_GAME_MAX_HEALTH"`

	// Base maximum battery
	MaxBattery int `json:"max_battery" env:"DISTRICT_GAME_MAX_BATTERY"`
}

// ContentConfig holds content loading configuration
type ContentConfig struct {
	// Directory holding missions, scenes, items and layout files
	Dir string `json:"dir" env:"DISTRICT_CONTENT_DIR"`

	// File format (json, yaml)
	Format string `json:"format" env:"DISTRICT_CONTENT_FORMAT"`
}

// StorageConfig holds snapshot storage configuration
type StorageConfig struct {
	// Storage driver (file, sqlite)
	Driver string `json:"driver" env:"DISTRICT_STORAGE_DRIVER"`

	// Directory for the file driver, database path for sqlite
	Path string `json:"path" env:"DISTRICT_STORAGE_PATH"`

	// Seconds between autosaves of changed runs, 0 disables
	AutosaveSeconds int `json:"autosave_seconds" env:"DISTRICT_STORAGE_AUTOSAVE_SECONDS"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `json:"port" env:"DISTRICT_SERVER_PORT"`

	// Log level (debug, info, warn, error)
	LogLevel string `json:"log_level" env:"DISTRICT_SERVER_LOG_LEVEL"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			DefaultRole:       "hacker",
			DefaultDifficulty: "normal",
			DefaultSceneID:    "",
			BatteryPenalty:    5,
			UnlockPolicy:      "first_locked",
			ClosingDelayMS:    1500,
			MaxHealth:         100,
			MaxBattery:        100,
		},
		Content: ContentConfig{
			Dir:    "./assets/data",
			Format: "json",
		},
		Storage: StorageConfig{
			Driver:          "file",
			Path:            "./data/runs",
			AutosaveSeconds: 60,
		},
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from a file, writing the defaults there
// if it does not exist yet. Environment variables override file values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return config, err
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, ApplyEnv(&config)
	}

	// Read config file
	file, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, ApplyEnv(&config)
}

// ApplyEnv overrides config values with any DISTRICT_* variables that are set
func ApplyEnv(config *Config) error {
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Create or truncate file
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write config to file
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return err
	}

	return nil
}
