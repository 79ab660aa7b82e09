package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/WarBros01113/Kin-Konnect-sub001/internal/discovery"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "kinkonnect.yaml"

type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Server struct {
		Addr           string `yaml:"addr" validate:"required"`
		IdentityHeader string `yaml:"identity_header" validate:"required"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`
	Tree struct {
		MaxAncestorGenerations   int `yaml:"max_ancestor_generations" validate:"gte=0,lte=64"`
		MaxDescendantGenerations int `yaml:"max_descendant_generations" validate:"gte=0,lte=64"`
	} `yaml:"tree"`
	Validation struct {
		CheckSexRoles bool `yaml:"check_sex_roles"`
	} `yaml:"validation"`
	Analysis struct {
		ProlificThreshold int `yaml:"prolific_threshold" validate:"gte=0"`
		TopN              int `yaml:"top_n" validate:"gte=1"`
	} `yaml:"analysis"`
	Discovery discovery.Config `yaml:"discovery"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Server.IdentityHeader = "X-User-ID"
	cfg.Log.Level = "info"
	cfg.Tree.MaxAncestorGenerations = 3
	cfg.Tree.MaxDescendantGenerations = 2
	cfg.Validation.CheckSexRoles = true
	cfg.Analysis.ProlificThreshold = 6
	cfg.Analysis.TopN = 10
	cfg.Discovery = discovery.DefaultConfig()
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config over the defaults. An explicit path must exist.
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if addr := os.Getenv("KINKONNECT_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if level := os.Getenv("KINKONNECT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if header := os.Getenv("KINKONNECT_IDENTITY_HEADER"); header != "" {
		cfg.Server.IdentityHeader = header
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
