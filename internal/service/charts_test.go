package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamscoutapp/streamscout-server/internal/analyzer"
	"github.com/streamscoutapp/streamscout-server/internal/cards"
	"github.com/streamscoutapp/streamscout-server/internal/domain"
	domainerrors "github.com/streamscoutapp/streamscout-server/internal/errors"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

func TestChartService_Render(t *testing.T) {
	f := newFixture(t, true)
	svc := NewChartService(&countingFetcher{}, f.games, f.converter, nil)

	page, err := svc.Render(context.Background(), "g1", "Europe/Berlin")
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Elden Ring")
}

func TestChartService_Errors(t *testing.T) {
	conv := timeblock.NewConverter(time.UTC, func() time.Time { return fixedNow })

	tests := []struct {
		name    string
		fetcher cards.Fetcher
		want    error
	}{
		{"not found", &countingFetcher{err: analyzer.ErrNotFound}, domainerrors.ErrNotFound},
		{"warming", &countingFetcher{err: analyzer.ErrWarmingUp}, domainerrors.ErrUnavailable},
		{"rate limited", &countingFetcher{err: analyzer.ErrRateLimited}, domainerrors.ErrRateLimited},
		{"server", &countingFetcher{err: analyzer.ErrServer}, domainerrors.ErrUpstream},
		{"nothing to chart", cards.FetcherFunc(func(context.Context, string) (*domain.GameAnalytics, error) {
			return &domain.GameAnalytics{ViewerSparkline: []float64{1}}, nil
		}), domainerrors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewChartService(tt.fetcher, nil, conv, nil)
			_, err := svc.Render(context.Background(), "g1", "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
