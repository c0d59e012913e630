package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Lexicon struct {
		Dir   string `yaml:"dir"`
		Names string `yaml:"names"` // overrides <dir>/names.json
		Basic string `yaml:"basic"` // overrides <dir>/basic.json
	} `yaml:"lexicon"`
	Sampling struct {
		N            int    `yaml:"n"`
		NSamples     int    `yaml:"nsamples"`
		KeepOriginal bool   `yaml:"keep_original"`
		ReturnsMeta  bool   `yaml:"returns_meta"`
		Seed         uint64 `yaml:"seed"`
	} `yaml:"sampling"`
	Typos struct {
		Count int `yaml:"count"`
	} `yaml:"typos"`
	Storage struct {
		DB string `yaml:"db"`
	} `yaml:"storage"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Lexicon.Dir = "data"
	cfg.Sampling.N = 10
	cfg.Sampling.KeepOriginal = true
	cfg.Typos.Count = 1
	cfg.Storage.DB = "perturbkit.db"
	cfg.Log.Level = "info"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config over the defaults; a missing file keeps them.
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("PERTURBKIT_LEXICON_DIR"); dir != "" {
		cfg.Lexicon.Dir = dir
	}
	if db := os.Getenv("PERTURBKIT_DB"); db != "" {
		cfg.Storage.DB = db
	}
	if level := os.Getenv("PERTURBKIT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if seed := os.Getenv("PERTURBKIT_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, err
		}
		cfg.Sampling.Seed = v
	}

	return cfg, nil
}

// LexiconPaths resolves the names and basic lexicon files.
func (c *Config) LexiconPaths() (names, basic string) {
	names, basic = c.Lexicon.Names, c.Lexicon.Basic
	if names == "" {
		names = filepath.Join(c.Lexicon.Dir, "names.json")
	}
	if basic == "" {
		basic = filepath.Join(c.Lexicon.Dir, "basic.json")
	}
	return names, basic
}
