package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete trainer server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address        string   `hcl:"address,optional"`
	Port           int      `hcl:"port,optional"`
	LogLevel       string   `hcl:"log_level,optional"`
	AllowedOrigins []string `hcl:"allowed_origins,optional"`
}

// GameSettings holds the table defaults applied when a new-game request
// omits a field.
type GameSettings struct {
	SmallBlind    float64 `hcl:"small_blind,optional"`
	BigBlind      float64 `hcl:"big_blind,optional"`
	StartingStack float64 `hcl:"starting_stack,optional"`
	DefaultSeed   int64   `hcl:"default_seed,optional"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:        "localhost",
			Port:           8000,
			LogLevel:       "info",
			AllowedOrigins: []string{"*"},
		},
		Game: GameSettings{
			SmallBlind:    0.5,
			BigBlind:      1.0,
			StartingStack: 100,
			DefaultSeed:   42,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file is absent. Environment variables override file values.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		var parsed Config
		diags = gohcl.DecodeBody(file.Body, nil, &parsed)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}

		// Fill missing values from defaults
		if parsed.Server.Address == "" {
			parsed.Server.Address = config.Server.Address
		}
		if parsed.Server.Port == 0 {
			parsed.Server.Port = config.Server.Port
		}
		if parsed.Server.LogLevel == "" {
			parsed.Server.LogLevel = config.Server.LogLevel
		}
		if len(parsed.Server.AllowedOrigins) == 0 {
			parsed.Server.AllowedOrigins = config.Server.AllowedOrigins
		}
		if parsed.Game.SmallBlind == 0 {
			parsed.Game.SmallBlind = config.Game.SmallBlind
		}
		if parsed.Game.BigBlind == 0 {
			parsed.Game.BigBlind = config.Game.BigBlind
		}
		if parsed.Game.StartingStack == 0 {
			parsed.Game.StartingStack = config.Game.StartingStack
		}
		if parsed.Game.DefaultSeed == 0 {
			parsed.Game.DefaultSeed = config.Game.DefaultSeed
		}
		config = &parsed
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides reads TRAINER_* environment variables, typically loaded
// from a .env file before startup.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TRAINER_ADDRESS"); v != "" {
		config.Server.Address = v
	}
	if v := os.Getenv("TRAINER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("TRAINER_LOG_LEVEL"); v != "" {
		config.Server.LogLevel = v
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %v", c.Game.SmallBlind)
	}
	if c.Game.BigBlind <= c.Game.SmallBlind {
		return fmt.Errorf("big blind %v must exceed small blind %v", c.Game.BigBlind, c.Game.SmallBlind)
	}
	if c.Game.StartingStack < c.Game.BigBlind {
		return fmt.Errorf("starting stack %v below big blind %v", c.Game.StartingStack, c.Game.BigBlind)
	}
	return nil
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
