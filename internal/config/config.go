package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration. A missing file is not an error: the
// defaults stand, and SERVER_ADDR / SEED_PRESET environment variables
// override the file either way.
type Config struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"`
	Seed string `yaml:"seed"`
	CORS CORS   `yaml:"cors"`
}

type CORS struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

func defaults() Config {
	return Config{
		Addr: ":8080",
		Mode: "release",
	}
}

// Load reads the YAML config at path and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if cfg.Addr == "" {
			cfg.Addr = defaults().Addr
		}
		if cfg.Mode == "" {
			cfg.Mode = defaults().Mode
		}
	}

	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if seed := os.Getenv("SEED_PRESET"); seed != "" {
		cfg.Seed = seed
	}

	return cfg, nil
}
