package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 31, cfg.Availability.MaxRangeDays)
	require.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
}

func TestLoadFromFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
http:
  address: ":9090"
availability:
  venueTimezone: America/Chicago
  maxParallel: 4
  quietPeriod: 250ms
locations:
  default: b
  venues:
    - id: a
      name: Alpha
      city: Chicago
    - id: b
      name: Beta
      city: Chicago
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("AVAILABILITY_MAX_PARALLEL", "2")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "America/Chicago", cfg.Availability.VenueTimezone)
	require.Equal(t, 2, cfg.Availability.MaxParallel)
	require.Equal(t, 250*time.Millisecond, cfg.Availability.QuietPeriod)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, "b", cfg.Locations.Default)
	require.Len(t, cfg.Locations.Venues, 2)
	require.Equal(t, 60, cfg.Availability.DefaultDuration, "defaults survive a partial file")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":       func(c *Config) { c.HTTP.Address = "" },
		"unknown timezone":    func(c *Config) { c.Availability.VenueTimezone = "Mars/Olympus" },
		"zero range":          func(c *Config) { c.Availability.MaxRangeDays = 0 },
		"odd duration":        func(c *Config) { c.Availability.DefaultDuration = 45 },
		"party above max":     func(c *Config) { c.Availability.DefaultPartySize = 7 },
		"valkey without addr": func(c *Config) { c.Sequencer.Valkey.Enabled = true },
		"sample ratio": func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.SampleRatio = 2
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
