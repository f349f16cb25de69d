package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	CollaboratorURL string
	JWTSecret       string
	AdminRole       string
	CORSOrigin      string

	ProgressDebounce        time.Duration
	SubtaskFetchConcurrency int
	HTTPTimeout             time.Duration

	BreakerTimeout     time.Duration
	BreakerMaxFailures uint32

	LogFile  string
	LogLevel string

	MongoURI        string
	MongoDBName     string
	MongoCollection string
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		ServerPort:              "8080",
		CollaboratorURL:         "http://localhost:8081/api",
		AdminRole:               "Admin",
		CORSOrigin:              "*",
		ProgressDebounce:        500 * time.Millisecond,
		SubtaskFetchConcurrency: 8,
		HTTPTimeout:             10 * time.Second,
		BreakerTimeout:          5 * time.Second,
		BreakerMaxFailures:      3,
		LogLevel:                "info",
		MongoDBName:             "progress",
		MongoCollection:         "progress_activity",
	}
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup, falling back to defaults.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := parseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}

	str("SERVER_PORT", &cfg.ServerPort)
	str("COLLABORATOR_URL", &cfg.CollaboratorURL)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("ADMIN_ROLE", &cfg.AdminRole)
	str("CORS_ORIGIN", &cfg.CORSOrigin)
	str("LOG_FILE", &cfg.LogFile)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("MONGO_URI", &cfg.MongoURI)
	str("MONGO_DB_NAME", &cfg.MongoDBName)
	str("MONGO_COLLECTION", &cfg.MongoCollection)
	dur("PROGRESS_DEBOUNCE", &cfg.ProgressDebounce)
	dur("HTTP_TIMEOUT", &cfg.HTTPTimeout)
	dur("BREAKER_TIMEOUT", &cfg.BreakerTimeout)

	if v, ok := lookup("SUBTASK_FETCH_CONCURRENCY"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("SUBTASK_FETCH_CONCURRENCY: %w", err))
		} else {
			cfg.SubtaskFetchConcurrency = n
		}
	}
	if v, ok := lookup("BREAKER_MAX_FAILURES"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			errs = append(errs, fmt.Errorf("BREAKER_MAX_FAILURES: %w", err))
		} else {
			cfg.BreakerMaxFailures = uint32(n)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseDuration accepts Go durations ("250ms") and bare integers as milliseconds.
func parseDuration(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

func (c Config) Validate() error {
	var errs []error
	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if u, err := url.Parse(c.CollaboratorURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("COLLABORATOR_URL %q is not an absolute URL", c.CollaboratorURL))
	}
	if c.ProgressDebounce < 0 {
		errs = append(errs, errors.New("PROGRESS_DEBOUNCE must not be negative"))
	}
	if c.SubtaskFetchConcurrency < 1 {
		errs = append(errs, errors.New("SUBTASK_FETCH_CONCURRENCY must be at least 1"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_TIMEOUT must be positive"))
	}
	if c.BreakerMaxFailures == 0 {
		errs = append(errs, errors.New("BREAKER_MAX_FAILURES must be at least 1"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

// MongoEnabled reports whether the progress activity log should use Mongo.
func (c Config) MongoEnabled() bool {
	return c.MongoURI != ""
}
