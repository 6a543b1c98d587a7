// Package config holds the watchdog service configuration, loaded from
// defaults and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Flume-formerly-Laika/NL2Flow/internal/scan"
	"github.com/Flume-formerly-Laika/NL2Flow/internal/snapshot"
)

type (
	// Config holds configuration settings for the watchdog service
	Config struct {
		// API Server
		APIHost  string
		APIPort  int
		LogLevel string

		// Snapshot store
		Store snapshot.Config

		// Notifications
		TopicURL string

		// Intent extraction
		IntentEndpoint string
		IntentAPIKey   string
		IntentModel    string
		IntentTimeout  time.Duration

		// Field mapping rules (intent field name -> target name)
		FieldRules map[string]string

		// Scanning
		FetchTimeout time.Duration
		ScanInterval time.Duration
		Sources      []scan.Source

		ShutdownTimeout time.Duration
	}
)

const (
	DefaultAPIHost = "0.0.0.0"
	DefaultAPIPort = 8080
	MaxTCPPort     = 65535

	DefaultRedisEndpoint = "localhost:6379"
	DefaultRedisDB       = 0
	DefaultRedisPrefix   = "nl2flow"

	DefaultIntentEndpoint  = "https://api.openai.com/v1/chat/completions"
	DefaultIntentModel     = "gpt-4-turbo"
	DefaultIntentTimeout   = 30 * time.Second
	DefaultFetchTimeout    = 30 * time.Second
	DefaultScanInterval    = 24 * time.Hour
	DefaultShutdownTimeout = 10 * time.Second

	MaxTimeout      = 10 * time.Minute
	MaxScanInterval = 30 * 24 * time.Hour
)

var (
	ErrInvalidAPIPort      = errors.New("invalid API port")
	ErrInvalidFetchTimeout = errors.New("fetch timeout must be positive")
	ErrInvalidScanSource   = errors.New("invalid scan source")
	ErrInvalidTopicURL     = errors.New("invalid topic URL")
)

// NewDefaultConfig creates a configuration with sensible defaults for
// the server, store, notifier, and scanner
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:  DefaultAPIHost,
		APIPort:  DefaultAPIPort,
		LogLevel: "info",
		Store: snapshot.Config{
			Addr:     DefaultRedisEndpoint,
			Password: "",
			DB:       DefaultRedisDB,
			Prefix:   DefaultRedisPrefix,
		},
		IntentEndpoint:  DefaultIntentEndpoint,
		IntentModel:     DefaultIntentModel,
		IntentTimeout:   DefaultIntentTimeout,
		FieldRules:      map[string]string{},
		FetchTimeout:    DefaultFetchTimeout,
		ScanInterval:    DefaultScanInterval,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if any value cannot be parsed.
func (c *Config) LoadFromEnv() error {
	if apiHost := os.Getenv("API_HOST"); apiHost != "" {
		c.APIHost = apiHost
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Store.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Store.Password = password
	}
	if prefix := os.Getenv("REDIS_PREFIX"); prefix != "" {
		c.Store.Prefix = prefix
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %q", dbStr)
		}
		c.Store.DB = db
	}
	if topicURL := os.Getenv("TOPIC_URL"); topicURL != "" {
		c.TopicURL = topicURL
	}
	if endpoint := os.Getenv("INTENT_ENDPOINT"); endpoint != "" {
		c.IntentEndpoint = endpoint
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.IntentAPIKey = apiKey
	}
	if model := os.Getenv("INTENT_MODEL"); model != "" {
		c.IntentModel = model
	}

	if err := loadEnvDuration(
		"INTENT_TIMEOUT", &c.IntentTimeout, MaxTimeout,
	); err != nil {
		return err
	}
	if err := loadEnvDuration(
		"FETCH_TIMEOUT", &c.FetchTimeout, MaxTimeout,
	); err != nil {
		return err
	}
	// A zero scan interval disables the background scan loop
	if s := os.Getenv("SCAN_INTERVAL"); s == "0" || s == "0s" {
		c.ScanInterval = 0
	} else if err := loadEnvDuration(
		"SCAN_INTERVAL", &c.ScanInterval, MaxScanInterval,
	); err != nil {
		return err
	}

	if sources := os.Getenv("SCAN_SOURCES"); sources != "" {
		parsed, err := ParseSources(sources)
		if err != nil {
			return err
		}
		c.Sources = parsed
	}
	if rules := os.Getenv("FIELD_RULES"); rules != "" {
		parsed, err := ParseFieldRules(rules)
		if err != nil {
			return err
		}
		c.FieldRules = parsed
	}

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}
	return nil
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}
	if c.TopicURL != "" {
		if _, err := url.Parse(c.TopicURL); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidTopicURL, c.TopicURL)
		}
	}
	for _, src := range c.Sources {
		if src.Name == "" || src.URL == "" {
			return fmt.Errorf(
				"%w: %q=%q", ErrInvalidScanSource, src.Name, src.URL,
			)
		}
	}
	return nil
}

// ParseSources decodes a "Name=URL,Name=URL" source list
func ParseSources(s string) ([]scan.Source, error) {
	var sources []scan.Source
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, rawURL, ok := strings.Cut(entry, "=")
		if !ok || name == "" || rawURL == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidScanSource, entry)
		}
		sources = append(sources, scan.Source{
			Name: strings.TrimSpace(name),
			URL:  strings.TrimSpace(rawURL),
		})
	}
	return sources, nil
}

// ParseFieldRules decodes a "field=target,field=target" mapping list
func ParseFieldRules(s string) (map[string]string, error) {
	rules := map[string]string{}
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, target, ok := strings.Cut(entry, "=")
		if !ok || name == "" || target == "" {
			return nil, fmt.Errorf("invalid field rule: %q", entry)
		}
		rules[strings.TrimSpace(name)] = strings.TrimSpace(target)
	}
	return rules, nil
}

// loadEnvDuration reads key as a Go duration string and sets *dst when
// present and within (0, max]
func loadEnvDuration(
	key string, dst *time.Duration, max time.Duration,
) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	if v <= 0 || v > max {
		return fmt.Errorf("invalid %s: %s out of range (0, %s]", key, v, max)
	}
	*dst = v
	return nil
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max)
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
