// Package config loads sealcheck settings.
//
// Settings are layered, later layers winning: built-in defaults, the YAML
// config file (.sealcheck.yaml in the working directory unless a path is
// given), a .env file next to it, process environment variables prefixed
// with SEALCHECK_, and finally command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is the config file looked up in the working directory.
	DefaultFile = ".sealcheck.yaml"

	// EnvFile holds extra SEALCHECK_ variables.
	EnvFile = ".env"

	// EnvPrefix prefixes every environment variable read.
	EnvPrefix = "SEALCHECK_"
)

// Config holds harness settings.
type Config struct {
	// Structure overrides structure file discovery in each case.
	Structure string `yaml:"structure"`

	// Baseline is the baseline file name of each case.
	Baseline string `yaml:"baseline"`

	// Jobs bounds concurrent runs; 0 means one per CPU.
	Jobs int `yaml:"jobs"`

	// Filter is a glob restricting which cases run.
	Filter string `yaml:"filter"`

	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Baseline: "expected.txt",
	}
}

// Load builds the config for a working directory. file names an explicit
// config file, which must exist; when empty, dir/.sealcheck.yaml is used
// if present.
func Load(dir, file string) (*Config, error) {
	cfg := Default()

	explicit := file != ""
	if !explicit {
		file = filepath.Join(dir, DefaultFile)
	}
	if err := cfg.loadFile(file, explicit); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(filepath.Join(dir, EnvFile))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return env, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "STRUCTURE"); ok {
		c.Structure = v
	}
	if v, ok := lookup(EnvPrefix + "BASELINE"); ok {
		c.Baseline = v
	}
	if v, ok := lookup(EnvPrefix + "FILTER"); ok {
		c.Filter = v
	}
	if v, ok := lookup(EnvPrefix + "JOBS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sJOBS %q: %w", EnvPrefix, v, err)
		}
		c.Jobs = n
	}
	if v, ok := lookup(EnvPrefix + "VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sVERBOSE %q: %w", EnvPrefix, v, err)
		}
		c.Verbose = b
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if c.Baseline == "" {
		return errors.New("baseline file name must not be empty")
	}
	return nil
}
