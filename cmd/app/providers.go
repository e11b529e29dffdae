package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/golbarg/plantcare/internal/domain/identify"
	"github.com/golbarg/plantcare/internal/infra/config"
	"github.com/golbarg/plantcare/internal/infra/gardenapi"
	"github.com/golbarg/plantcare/internal/infra/geoip"
	"github.com/golbarg/plantcare/internal/infra/imagestore"
	"github.com/golbarg/plantcare/internal/infra/plantid"
	"github.com/golbarg/plantcare/internal/infra/sessionstore"
	"github.com/golbarg/plantcare/internal/infra/wiki"
)

func provideIdentifyConfig(cfg *config.Config) identify.Config {
	return identify.Config{
		CredentialsSet: strings.TrimSpace(cfg.PlantID.APIKey) != "",
		MaxImageBytes:  cfg.Identify.MaxImageBytes,
		GeoTimeout:     cfg.Geo.Timeout,
		DefaultLocale:  identify.Locale(cfg.Identify.DefaultLocale),
	}
}

func providePlantIDClient(cfg *config.Config) *plantid.Client {
	return plantid.NewClient(cfg.PlantID.APIKey, cfg.PlantID.BaseURL, cfg.PlantID.Details, cfg.PlantID.Timeout)
}

func provideGardenClient(cfg *config.Config) *gardenapi.Client {
	return gardenapi.NewClient(cfg.Garden.APIKey, cfg.Garden.BaseURL, cfg.Garden.Timeout)
}

func provideWikiClient(cfg *config.Config) *wiki.Client {
	return wiki.NewClient(cfg.Wiki.HostPattern, cfg.Wiki.Timeout)
}

func provideGeoClient(cfg *config.Config) *geoip.Client {
	return geoip.NewClient(cfg.Geo.BaseURL, cfg.Geo.Timeout)
}

func provideImageStorage(cfg *config.Config, logger *slog.Logger) identify.ImageStorage {
	if strings.TrimSpace(cfg.Storage.Endpoint) == "" {
		logger.Info("storage endpoint not set, using memory image store")
		return imagestore.NewMemoryStorage()
	}
	store, err := imagestore.NewMinioStorage(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.Region, logger)
	if err != nil {
		logger.Error("failed to initialize object storage, using memory image store", "error", err)
		return imagestore.NewMemoryStorage()
	}
	logger.Info("minio image store enabled", "bucket", cfg.Storage.Bucket)
	return store
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) identify.SessionStore {
	fallback := sessionstore.NewMemoryStore(cfg.Session.TTL)
	if !cfg.Session.Valkey.Enabled {
		return fallback
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory session store", "error", err)
		return fallback
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory session store", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory session store", "error", err)
		return fallback
	}
	logger.Info("valkey session store enabled", "addr", cfg.Session.Valkey.Addr)
	return sessionstore.NewValkeyStore(client, "plantcare", cfg.Session.TTL)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Session.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Session.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Session.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
