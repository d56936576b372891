package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/streamscoutapp/streamscout-server/internal/analyzer"
	"github.com/streamscoutapp/streamscout-server/internal/cards"
	"github.com/streamscoutapp/streamscout-server/internal/charts"
	domainerrors "github.com/streamscoutapp/streamscout-server/internal/errors"
	"github.com/streamscoutapp/streamscout-server/internal/insights"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

// ChartService renders a game's analytics as an HTML chart page.
type ChartService struct {
	fetcher   cards.Fetcher
	games     *GameService
	converter *timeblock.Converter
	config    charts.ChartConfig
	logger    *slog.Logger
}

// NewChartService creates a chart service.
func NewChartService(fetcher cards.Fetcher, games *GameService, conv *timeblock.Converter, logger *slog.Logger) *ChartService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ChartService{
		fetcher:   fetcher,
		games:     games,
		converter: conv,
		config:    charts.DefaultChartConfig(),
		logger:    logger,
	}
}

// Render fetches gameID's analytics and returns the chart page.
func (s *ChartService) Render(ctx context.Context, gameID, timezone string) ([]byte, error) {
	gameID, err := cleanGameID(gameID)
	if err != nil {
		return nil, err
	}

	a, err := s.fetcher.Analytics(ctx, gameID)
	if err != nil {
		return nil, analyticsError(gameID, err)
	}
	if a == nil {
		return nil, domainerrors.Upstream("analytics response was empty")
	}

	viewer := timeblock.ResolveLocation(timezone, s.converter.Reference())
	view := insights.Build(a, s.converter, viewer, insights.Options{})

	title := gameID
	if s.games != nil {
		if name := s.games.gameName(gameID); name != "" {
			title = name
		}
	}

	var buf bytes.Buffer
	if err := charts.RenderAnalytics(&buf, title, view, a.ViewerSparkline, s.config); err != nil {
		if errors.Is(err, charts.ErrNothingToRender) {
			return nil, domainerrors.NotFoundf("no chartable analytics for %q", gameID)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to render chart")
	}
	return buf.Bytes(), nil
}

func analyticsError(gameID string, err error) error {
	switch {
	case errors.Is(err, analyzer.ErrNotFound):
		return domainerrors.NotFoundf("no analytics for %q", gameID).WithCause(err)
	case errors.Is(err, analyzer.ErrWarmingUp):
		return domainerrors.Unavailable("Analytics are warming up. Please try again shortly.").WithCause(err)
	case errors.Is(err, analyzer.ErrRateLimited):
		return domainerrors.RateLimited("Analytics service is busy. Please try again later.").WithCause(err)
	default:
		return domainerrors.Upstream("Failed to load analytics.").WithCause(err)
	}
}
