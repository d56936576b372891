// Package providers contains dependency injection providers for the StreamScout server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting StreamScout Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"api_url", cfg.Upstream.APIURL,
		"reference_zone", cfg.Time.ReferenceZone,
	)

	return log, nil
}

// ProvideTimeConverter provides the reference-zone time block converter.
func ProvideTimeConverter(i do.Injector) (*timeblock.Converter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return timeblock.NewConverter(cfg.ReferenceLocation(), nil), nil
}
