// Package domain contains the core entities of the StreamScout server: ranked
// games, their analytics, time blocks and viewer favorites.
package domain

import "time"

// Trend is the direction of a game's recent viewership.
type Trend string

// Trend values reported upstream.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Valid reports whether t is one of the known trend values.
func (t Trend) Valid() bool {
	switch t {
	case TrendUp, TrendDown, TrendStable:
		return true
	default:
		return false
	}
}

// GameOpportunity is one entry of the externally ranked opportunity list.
// Rank is assigned upstream and is never recomputed here.
type GameOpportunity struct {
	GameID               string   `json:"game_id"`
	GameName             string   `json:"game_name"`
	Rank                 int      `json:"rank"`
	DiscoverabilityScore float64  `json:"discoverability_score"`
	ViabilityScore       float64  `json:"viability_score"`
	EngagementScore      float64  `json:"engagement_score"`
	OverallScore         float64  `json:"overall_score"`
	Genres               []string `json:"genres"`
	IsFiltered           bool     `json:"is_filtered"`
	WarningText          *string  `json:"warning_text,omitempty"`

	// Historical fields. Nil means insufficient data, not zero.
	Trend         *Trend     `json:"trend,omitempty"`
	Momentum      *float64   `json:"momentum,omitempty"`
	BestTime      *TimeBlock `json:"bestTime,omitempty"`
	ViewerGrowth  *float64   `json:"viewerGrowth,omitempty"`
	ChannelGrowth *float64   `json:"channelGrowth,omitempty"`
}

// Warning returns the warning text when the game is filtered, otherwise "".
func (g *GameOpportunity) Warning() string {
	if !g.IsFiltered || g.WarningText == nil {
		return ""
	}
	return *g.WarningText
}

// HasHistory reports whether any historical field is present.
func (g *GameOpportunity) HasHistory() bool {
	return g.Trend != nil || g.Momentum != nil || g.BestTime != nil ||
		g.ViewerGrowth != nil || g.ChannelGrowth != nil
}

// HasGenre reports whether the game lists the given genre verbatim.
func (g *GameOpportunity) HasGenre(genre string) bool {
	for _, have := range g.Genres {
		if have == genre {
			return true
		}
	}
	return false
}

// AnalyzeResult is a snapshot of the ranked opportunity list.
type AnalyzeResult struct {
	TopOpportunities   []GameOpportunity `json:"top_opportunities"`
	TotalGamesAnalyzed int               `json:"total_games_analyzed"`
	Timestamp          time.Time         `json:"timestamp"`
	// RefreshIn is the upstream hint for the next revalidation, if any.
	RefreshIn *time.Duration `json:"-"`
}

// Find returns the opportunity with the given game ID.
func (r *AnalyzeResult) Find(gameID string) (*GameOpportunity, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.TopOpportunities {
		if r.TopOpportunities[i].GameID == gameID {
			return &r.TopOpportunities[i], true
		}
	}
	return nil, false
}

// UpstreamStatus is the cache and worker state of the analytics service.
type UpstreamStatus struct {
	Cache  UpstreamCacheStatus  `json:"cache"`
	Worker UpstreamWorkerStatus `json:"worker"`
}

// UpstreamCacheStatus describes the upstream result cache.
type UpstreamCacheStatus struct {
	HasData            bool     `json:"has_data"`
	AgeSeconds         *float64 `json:"age_seconds,omitempty"`
	NextRefreshSeconds *float64 `json:"next_refresh_seconds,omitempty"`
}

// UpstreamWorkerStatus describes the upstream refresh worker.
type UpstreamWorkerStatus struct {
	IsRefreshing bool `json:"is_refreshing"`
}
