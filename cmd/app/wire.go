//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/teeslots/bayfinder/internal/bootstrap"
	"github.com/teeslots/bayfinder/internal/domain/availability"
	"github.com/teeslots/bayfinder/internal/infra/config"
	"github.com/teeslots/bayfinder/internal/infra/simulator/fiveiron"
	httpiface "github.com/teeslots/bayfinder/internal/interface/http"
	"github.com/teeslots/bayfinder/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAvailabilityConfig,
		provideLocationCatalog,
		provideUpstreamClient,
		provideQuerySequencer,
		provideTelemetry,
		availability.NewService,
		wire.Bind(new(availability.UpstreamClient), new(*fiveiron.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
