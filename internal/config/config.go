package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/dxftags/internal/codec"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/logging"
	pelletier "github.com/pelletier/go-toml/v2"
)

type Config struct {
	TargetRevision string       `toml:"target_revision"`
	OnInvalid      string       `toml:"on_invalid"`
	Workers        int          `toml:"workers"`
	Server         ServerConfig `toml:"server"`
	Log            LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	Node         string   `toml:"node"`
	CorsOrigins  []string `toml:"cors_origins"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func DefaultConfig() Config {
	return Config{
		TargetRevision: revision.Latest.String(),
		OnInvalid:      string(codec.PolicyAbort),
		Workers:        runtime.NumCPU(),
		Server: ServerConfig{
			Addr:         ":9300",
			Node:         "dxftags",
			CorsOrigins:  []string{"http://localhost:3000"},
			MaxBodyBytes: 64 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load overlays the keys defined in path onto DefaultConfig and validates
// the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("target_revision") {
		cfg.TargetRevision = strings.TrimSpace(raw.TargetRevision)
	}
	if meta.IsDefined("on_invalid") {
		cfg.OnInvalid = strings.TrimSpace(raw.OnInvalid)
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "node") {
		cfg.Server.Node = strings.TrimSpace(raw.Server.Node)
	}
	if meta.IsDefined("server", "cors_origins") {
		cfg.Server.CorsOrigins = raw.Server.CorsOrigins
	}
	if meta.IsDefined("server", "max_body_bytes") {
		cfg.Server.MaxBodyBytes = raw.Server.MaxBodyBytes
	}
	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, err := revision.Parse(cfg.TargetRevision); err != nil {
		return fmt.Errorf("target_revision: %w", err)
	}
	if _, err := codec.ParsePolicy(cfg.OnInvalid); err != nil {
		return fmt.Errorf("on_invalid: %w", err)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("log.level: unknown level %q", cfg.Log.Level)
	}
	return nil
}

// Revision returns the parsed target revision of a validated config.
func (c Config) Revision() revision.Revision {
	rev, _ := revision.Parse(c.TargetRevision)
	return rev
}

// Policy returns the parsed on_invalid policy of a validated config.
func (c Config) Policy() codec.Policy {
	p, _ := codec.ParsePolicy(c.OnInvalid)
	return p
}

// Encode renders cfg as TOML, e.g. to show the effective settings.
func Encode(cfg Config) ([]byte, error) {
	out, err := pelletier.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config encode failed: %w", err)
	}
	return out, nil
}
