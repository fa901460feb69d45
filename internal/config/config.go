package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAddr             = "127.0.0.1:1421"
	defaultAppID            = "com.deskmate.app"
	defaultAllowedOrigins   = "tauri://localhost,http://tauri.localhost,http://localhost:1420"
	defaultTranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"
	defaultTimeout          = 120 * time.Second
	defaultMaxAudioBytes    = 25 << 20
	defaultRatePerMinute    = 30
)

type Config struct {
	Server        ServerConfig
	Storage       StorageConfig
	Transcription TranscriptionConfig
	Logging       LoggingConfig

	DatabaseURL    string
	MetricsEnabled bool
}

type ServerConfig struct {
	Addr           string
	IPCSecret      string
	AllowedOrigins []string
}

type StorageConfig struct {
	AppID   string
	DataDir string // override; empty → platform default
}

type TranscriptionConfig struct {
	Endpoint      string
	Timeout       time.Duration // 0 → none
	MaxAudioBytes int           // 0 → unlimited
	RatePerMinute int
}

type LoggingConfig struct {
	Level string
	File  string
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:           env("DESKMATE_ADDR", defaultAddr),
			IPCSecret:      getenv("DESKMATE_IPC_SECRET"),
			AllowedOrigins: splitList(env("DESKMATE_ALLOWED_ORIGINS", defaultAllowedOrigins)),
		},
		Storage: StorageConfig{
			AppID:   env("DESKMATE_APP_ID", defaultAppID),
			DataDir: env("DESKMATE_DATA_DIR", ""),
		},
		Transcription: TranscriptionConfig{
			Endpoint: env("OPENAI_TRANSCRIPTION_URL", defaultTranscriptionURL),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(env("LOG_LEVEL", "info")),
			File:  env("LOG_FILE", ""),
		},
		DatabaseURL: env("DATABASE_URL", ""),
	}

	var err error

	if cfg.Transcription.Timeout, err = parseDuration(env("TRANSCRIBE_TIMEOUT", defaultTimeout.String())); err != nil {
		return nil, fmt.Errorf("TRANSCRIBE_TIMEOUT: %w", err)
	}
	if cfg.Transcription.MaxAudioBytes, err = strconv.Atoi(env("TRANSCRIBE_MAX_AUDIO_BYTES", strconv.Itoa(defaultMaxAudioBytes))); err != nil {
		return nil, fmt.Errorf("TRANSCRIBE_MAX_AUDIO_BYTES: %w", err)
	}
	if cfg.Transcription.RatePerMinute, err = strconv.Atoi(env("TRANSCRIBE_RATE_PER_MINUTE", strconv.Itoa(defaultRatePerMinute))); err != nil {
		return nil, fmt.Errorf("TRANSCRIBE_RATE_PER_MINUTE: %w", err)
	}
	if cfg.MetricsEnabled, err = strconv.ParseBool(env("METRICS_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("METRICS_ENABLED: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Transcription.Validate(); err != nil {
		return fmt.Errorf("transcription config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if _, _, err := net.SplitHostPort(s.Addr); err != nil {
		return fmt.Errorf("addr %q: %w", s.Addr, err)
	}
	if len(s.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed origins cannot be empty")
	}
	return nil
}

func (s *StorageConfig) Validate() error {
	if s.DataDir == "" && s.AppID == "" {
		return fmt.Errorf("app id cannot be empty when no data dir override is set")
	}
	if strings.ContainsAny(s.AppID, `/\`) {
		return fmt.Errorf("app id must not contain path separators, got %q", s.AppID)
	}
	return nil
}

func (t *TranscriptionConfig) Validate() error {
	u, err := url.Parse(t.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", t.Endpoint)
	}
	if t.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", t.Timeout)
	}
	if t.MaxAudioBytes < 0 {
		return fmt.Errorf("max audio bytes cannot be negative, got %d", t.MaxAudioBytes)
	}
	if t.RatePerMinute < 0 {
		return fmt.Errorf("rate per minute cannot be negative, got %d", t.RatePerMinute)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}
	return nil
}

// parseDuration accepts Go durations ("90s") and bare seconds ("90").
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
