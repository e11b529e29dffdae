//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/golbarg/plantcare/internal/bootstrap"
	"github.com/golbarg/plantcare/internal/domain/identify"
	"github.com/golbarg/plantcare/internal/infra/config"
	"github.com/golbarg/plantcare/internal/infra/gardenapi"
	"github.com/golbarg/plantcare/internal/infra/geoip"
	"github.com/golbarg/plantcare/internal/infra/plantid"
	"github.com/golbarg/plantcare/internal/infra/wiki"
	httpiface "github.com/golbarg/plantcare/internal/interface/http"
	"github.com/golbarg/plantcare/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideIdentifyConfig,
		providePlantIDClient,
		provideGardenClient,
		provideWikiClient,
		provideGeoClient,
		provideImageStorage,
		provideSessionStore,
		identify.NewService,
		wire.Bind(new(identify.Identifier), new(*plantid.Client)),
		wire.Bind(new(identify.CareSource), new(*gardenapi.Client)),
		wire.Bind(new(identify.Encyclopedia), new(*wiki.Client)),
		wire.Bind(new(identify.GeoProbe), new(*geoip.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
