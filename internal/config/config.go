// Package config loads evaluation defaults from the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults when neither flags nor environment say otherwise.
const (
	DefaultPort    = 8080
	DefaultVerbose = false
)

// Config holds the tool defaults resolved from the environment. Command-line
// flags override these values.
type Config struct {
	// Port is the HTTP port for serve mode (SSEVAL_PORT)
	Port int

	// Workers is the scoring pool size (SSEVAL_WORKERS); defaults to GOMAXPROCS
	Workers int

	// Verbose enables debug logging (SSEVAL_VERBOSE)
	Verbose bool
}

// Load reads an optional .env file and the SSEVAL_* environment variables.
// A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:    DefaultPort,
		Workers: runtime.GOMAXPROCS(0),
		Verbose: DefaultVerbose,
	}

	var err error
	if cfg.Port, err = intVar("SSEVAL_PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = intVar("SSEVAL_WORKERS", cfg.Workers); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("SSEVAL_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("SSEVAL_VERBOSE: %w", err)
		}
		cfg.Verbose = b
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("SSEVAL_PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("SSEVAL_WORKERS must be positive, got %d", cfg.Workers)
	}

	return cfg, nil
}

func intVar(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
