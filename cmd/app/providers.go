package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/teeslots/bayfinder/internal/domain/availability"
	"github.com/teeslots/bayfinder/internal/infra/config"
	"github.com/teeslots/bayfinder/internal/infra/querysequence"
	"github.com/teeslots/bayfinder/internal/infra/simulator/fiveiron"
	"github.com/teeslots/bayfinder/internal/infra/telemetry"
)

func provideAvailabilityConfig(cfg *config.Config) availability.Config {
	return availability.Config{
		VenueTimezone:    cfg.Availability.VenueTimezone,
		MaxRangeDays:     cfg.Availability.MaxRangeDays,
		MaxParallel:      cfg.Availability.MaxParallel,
		MaxPartySize:     cfg.Availability.MaxPartySize,
		QuietPeriod:      cfg.Availability.QuietPeriod,
		DefaultPartySize: cfg.Availability.DefaultPartySize,
		DefaultDuration:  cfg.Availability.DefaultDuration,
		DefaultLateNight: cfg.Availability.DefaultLateNight,
	}
}

func provideLocationCatalog(cfg *config.Config) (*availability.LocationCatalog, error) {
	venues := make([]availability.Location, 0, len(cfg.Locations.Venues))
	for _, v := range cfg.Locations.Venues {
		venues = append(venues, availability.Location{ID: v.ID, Name: v.Name, City: v.City})
	}
	return availability.NewLocationCatalog(venues, cfg.Locations.Default)
}

func provideUpstreamClient(cfg *config.Config) *fiveiron.Client {
	return fiveiron.NewClient(fiveiron.Options{
		BaseURL:   cfg.Upstream.BaseURL,
		UserAgent: cfg.Upstream.UserAgent,
		Origin:    cfg.Upstream.Origin,
		Referer:   cfg.Upstream.Referer,
		Timeout:   cfg.Upstream.Timeout,
	})
}

func provideQuerySequencer(cfg *config.Config, logger *slog.Logger) availability.QuerySequencer {
	fallback := querysequence.NewMemoryStore(cfg.Sequencer.TTL)
	if !cfg.Sequencer.Valkey.Enabled {
		return fallback
	}
	opt, err := buildValkeyOptions(cfg.Sequencer.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory sequencer", "error", err)
		return fallback
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory sequencer", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory sequencer", "error", err)
		client.Close()
		return fallback
	}
	logger.Info("query sequencer valkey store enabled", "addr", cfg.Sequencer.Valkey.Addr)
	return querysequence.NewValkeyStore(client, cfg.Sequencer.Prefix, cfg.Sequencer.TTL)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideTelemetry(cfg *config.Config, logger *slog.Logger) (telemetry.Shutdown, error) {
	return telemetry.Setup(context.Background(), telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		SampleRatio: cfg.Telemetry.SampleRatio,
	}, logger.With("component", "telemetry"))
}
