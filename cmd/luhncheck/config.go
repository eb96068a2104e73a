package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/luhncheck/internal/logger"
	"github.com/nkiryanov/luhncheck/internal/service/check"
)

const (
	defaultListenAddr   = "localhost:8000"
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
	defaultBatchLimit   = check.DefaultBatchLimit
)

type Config struct {
	// Default logging level
	LogLevel string `env:"LOG_LEVEL"`

	// Address on which the luhncheck service will be run
	ListenAddr string `env:"RUN_ADDRESS"`

	// Database to connect to
	DatabaseDSN string `env:"DATABASE_URI"`

	// Secret key
	// Some internal parts (like signing JWT tokens) uses symmetric encryption, so this key is used for that purpose
	SecretKey string `env:"SECRET_KEY"`

	// Environment
	Environment string `env:"ENVIRONMENT"`

	// Max numbers accepted in one batch check
	BatchLimit int `env:"BATCH_LIMIT"`
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		ListenAddr:  defaultListenAddr,
		Environment: defaultEnvironment,
		BatchLimit:  defaultBatchLimit,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		return c.LoadEnv(envMap)
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

// Load options from environment map; empty values do not override current ones
func (c *Config) LoadEnv(environ map[string]string) error {
	set := make(map[string]string, len(environ))
	for key, value := range environ {
		if value != "" {
			set[key] = value
		}
	}

	err := env.ParseWithOptions(c, env.Options{Environment: set})
	if err != nil {
		return fmt.Errorf("error while parsing env: %w", err)
	}
	return nil
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("luhncheck", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.IntVarP(&c.BatchLimit, "batch-limit", "b", c.BatchLimit, "Max numbers in one batch check")

	return fs.Parse(args)
}

// Validate checks the options required to start the server
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.BatchLimit <= 0 {
		errs = append(errs, fmt.Errorf("batch limit must be positive, got %d", c.BatchLimit))
	}

	return errors.Join(errs...)
}
