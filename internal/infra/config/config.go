package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Upstream     UpstreamConfig     `yaml:"upstream"`
	Availability AvailabilityConfig `yaml:"availability"`
	Sequencer    SequencerConfig    `yaml:"sequencer"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Locations    LocationsConfig    `yaml:"locations"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// UpstreamConfig points at the booking provider.
type UpstreamConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
	Origin    string        `yaml:"origin"`
	Referer   string        `yaml:"referer"`
}

// AvailabilityConfig tunes the grouped query pipeline.
type AvailabilityConfig struct {
	VenueTimezone    string        `yaml:"venueTimezone"`
	MaxRangeDays     int           `yaml:"maxRangeDays"`
	MaxParallel      int           `yaml:"maxParallel"`
	MaxPartySize     int           `yaml:"maxPartySize"`
	QuietPeriod      time.Duration `yaml:"quietPeriod"`
	DefaultPartySize int           `yaml:"defaultPartySize"`
	DefaultDuration  int           `yaml:"defaultDuration"`
	DefaultLateNight bool          `yaml:"defaultLateNight"`
}

// SequencerConfig selects where latest-wins query tickets are kept.
type SequencerConfig struct {
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
	Valkey ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// TelemetryConfig controls OpenTelemetry trace export.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"serviceName"`
	Endpoint    string  `yaml:"endpoint"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

// LocationsConfig overrides the built-in venue catalogue.
type LocationsConfig struct {
	Default string           `yaml:"default"`
	Venues  []LocationConfig `yaml:"venues"`
}

// LocationConfig describes one venue.
type LocationConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	City string `yaml:"city"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = parsed
		}
	}
	if v := os.Getenv("UPSTREAM_USER_AGENT"); v != "" {
		cfg.Upstream.UserAgent = v
	}
	if v := os.Getenv("VENUE_TIMEZONE"); v != "" {
		cfg.Availability.VenueTimezone = v
	}
	if v := os.Getenv("AVAILABILITY_MAX_RANGE_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Availability.MaxRangeDays = parsed
		}
	}
	if v := os.Getenv("AVAILABILITY_MAX_PARALLEL"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Availability.MaxParallel = parsed
		}
	}
	if v := os.Getenv("AVAILABILITY_QUIET_PERIOD"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Availability.QuietPeriod = parsed
		}
	}
	if v := os.Getenv("SEQUENCER_VALKEY_ENABLED"); v != "" {
		cfg.Sequencer.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("SEQUENCER_VALKEY_ADDR"); v != "" {
		cfg.Sequencer.Valkey.Addr = v
	}
	if v := os.Getenv("SEQUENCER_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Sequencer.TTL = parsed
		}
	}
	if v := os.Getenv("OTEL_ENABLED"); v != "" {
		cfg.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.Endpoint = v
	}
	if v := os.Getenv("OTEL_SAMPLING_RATIO"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Telemetry.SampleRatio = parsed
		}
	}
	if v := os.Getenv("DEFAULT_LOCATION_ID"); v != "" {
		cfg.Locations.Default = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://api.booking.fiveirongolf.com",
			Timeout: 10 * time.Second,
			Origin:  "https://booking.fiveirongolf.com",
			Referer: "https://booking.fiveirongolf.com/",
		},
		Availability: AvailabilityConfig{
			VenueTimezone:    "America/New_York",
			MaxRangeDays:     31,
			MaxPartySize:     6,
			DefaultPartySize: 2,
			DefaultDuration:  60,
			DefaultLateNight: true,
		},
		Sequencer: SequencerConfig{
			Prefix: "bayfinder:query-seq",
			TTL:    30 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "bayfinder",
			Endpoint:    "localhost:4317",
			SampleRatio: 1,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return errors.New("upstream.baseUrl cannot be empty")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if _, err := time.LoadLocation(c.Availability.VenueTimezone); err != nil {
		return fmt.Errorf("availability.venueTimezone: %w", err)
	}
	if c.Availability.MaxRangeDays <= 0 {
		return errors.New("availability.maxRangeDays must be positive")
	}
	if c.Availability.MaxParallel < 0 {
		return errors.New("availability.maxParallel cannot be negative")
	}
	if c.Availability.QuietPeriod < 0 {
		return errors.New("availability.quietPeriod cannot be negative")
	}
	if c.Availability.MaxPartySize <= 0 {
		return errors.New("availability.maxPartySize must be positive")
	}
	if c.Availability.DefaultPartySize <= 0 || c.Availability.DefaultPartySize > c.Availability.MaxPartySize {
		return errors.New("availability.defaultPartySize must be between 1 and maxPartySize")
	}
	switch c.Availability.DefaultDuration {
	case 30, 60, 90, 120:
	default:
		return errors.New("availability.defaultDuration must be one of 30, 60, 90 or 120")
	}
	if c.Sequencer.TTL < 0 {
		return errors.New("sequencer.ttl cannot be negative")
	}
	if c.Sequencer.Valkey.Enabled && strings.TrimSpace(c.Sequencer.Valkey.Addr) == "" {
		return errors.New("sequencer.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Telemetry.Enabled {
		if strings.TrimSpace(c.Telemetry.Endpoint) == "" {
			return errors.New("telemetry.endpoint cannot be empty when telemetry is enabled")
		}
		if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
			return errors.New("telemetry.sampleRatio must be between 0 and 1")
		}
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
