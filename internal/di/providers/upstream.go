package providers

import (
	"github.com/samber/do/v2"

	"github.com/streamscoutapp/streamscout-server/internal/analyzer"
	"github.com/streamscoutapp/streamscout-server/internal/config"
	"github.com/streamscoutapp/streamscout-server/internal/logger"
)

// AnalyzerClientHandle wraps the analytics client with shutdown capability.
type AnalyzerClientHandle struct {
	*analyzer.Client
}

// Shutdown implements do.Shutdownable.
func (h *AnalyzerClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideAnalyzerClient provides the rate-limited analytics API client.
func ProvideAnalyzerClient(i do.Injector) (*AnalyzerClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := analyzer.New(analyzer.Options{
		BaseURL: cfg.Upstream.APIURL,
		Timeout: cfg.Upstream.Timeout,
		RPS:     cfg.Upstream.RPS,
		Burst:   cfg.Upstream.Burst,
		Logger:  log.Component("analyzer").Logger,
	})

	log.Info("Analytics client initialized",
		"base_url", client.BaseURL(),
		"rps", cfg.Upstream.RPS,
	)

	return &AnalyzerClientHandle{Client: client}, nil
}
