// Package config reads the configuration of the rentals service from
// environment variables.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/boreq/errors"
)

const (
	BackendBolt   = "bolt"
	BackendBadger = "badger"
)

const (
	EnvBackend     = "RENTALS_BACKEND"
	EnvDir         = "RENTALS_DIR"
	EnvCompression = "RENTALS_COMPRESSION"
	EnvJournal     = "RENTALS_JOURNAL"
	EnvAddress     = "RENTALS_ADDRESS"
	EnvLogLevel    = "RENTALS_LOG_LEVEL"
)

const defaultAddress = "localhost:8080"

type Config struct {
	Backend     string
	Dir         string
	Compression string
	// JournalDir is empty if journaling is disabled.
	JournalDir string
	Address    string
	LogLevel   slog.Level
}

func FromEnvironment() (Config, error) {
	return Load(os.Getenv)
}

func Load(getenv func(string) string) (Config, error) {
	config := Config{
		Backend:     valueOrDefault(getenv(EnvBackend), BackendBolt),
		Dir:         getenv(EnvDir),
		Compression: valueOrDefault(getenv(EnvCompression), "none"),
		JournalDir:  getenv(EnvJournal),
		Address:     valueOrDefault(getenv(EnvAddress), defaultAddress),
	}

	logLevel, err := parseLogLevel(getenv(EnvLogLevel))
	if err != nil {
		return Config{}, errors.Wrap(err, "error parsing the log level")
	}
	config.LogLevel = logLevel

	if err := config.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}

	return config, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendBolt, BackendBadger:
	default:
		return errors.New("backend must be bolt or badger")
	}

	if c.Dir == "" {
		return errors.New("data directory is not set")
	}

	if c.JournalDir != "" && c.JournalDir == c.Dir {
		return errors.New("journal directory must differ from the data directory")
	}

	if c.Address == "" {
		return errors.New("address is not set")
	}

	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return 0, errors.New("unknown log level")
	}
}

func valueOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
