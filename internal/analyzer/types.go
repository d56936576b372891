package analyzer

// Raw API response types (internal). Every payload is validated before it
// is converted to domain types.

type rawAnalyzeResponse struct {
	Status             string           `json:"status"`
	TopOpportunities   []rawOpportunity `json:"top_opportunities" validate:"unique=GameID,dive"`
	TotalGamesAnalyzed int              `json:"total_games_analyzed" validate:"gte=0"`
	Timestamp          string           `json:"timestamp"`
	NextRefreshIn      *float64         `json:"next_refresh_in_seconds" validate:"omitempty,gte=0"`
	CacheExpiresIn     *float64         `json:"cache_expires_in_seconds" validate:"omitempty,gte=0"`
}

type rawOpportunity struct {
	GameID               string   `json:"game_id" validate:"required"`
	GameName             string   `json:"game_name" validate:"required"`
	Rank                 int      `json:"rank" validate:"gte=1"`
	DiscoverabilityScore float64  `json:"discoverability_score" validate:"gte=0,lte=1"`
	ViabilityScore       float64  `json:"viability_score" validate:"gte=0,lte=1"`
	EngagementScore      float64  `json:"engagement_score" validate:"gte=0,lte=1"`
	OverallScore         float64  `json:"overall_score" validate:"gte=0,lte=1"`
	Genres               []string `json:"genres"`
	IsFiltered           bool     `json:"is_filtered"`
	WarningText          *string  `json:"warning_text"`
	Trend                *string  `json:"trend" validate:"omitempty,trend"`
	Momentum             *float64 `json:"momentum"`
	BestTime             *string  `json:"bestTime" validate:"omitempty,timeblock"`
	ViewerGrowth         *float64 `json:"viewerGrowth"`
	ChannelGrowth        *float64 `json:"channelGrowth"`
}

type rawStatus struct {
	Status string `json:"status"`
	Cache  struct {
		HasData            bool     `json:"has_data"`
		AgeSeconds         *float64 `json:"age_seconds" validate:"omitempty,gte=0"`
		NextRefreshSeconds *float64 `json:"next_refresh_seconds"`
	} `json:"cache"`
	Worker struct {
		IsRefreshing bool `json:"is_refreshing"`
	} `json:"worker"`
}

type rawAnalytics struct {
	Status             string                   `json:"status" validate:"blockstatus"`
	ViewerSparkline    []float64                `json:"viewerSparkline" validate:"dive,gte=0"`
	ViewerTrend        string                   `json:"viewerTrend" validate:"trend"`
	ViewerTrendPercent float64                  `json:"viewerTrendPercent"`
	BestTime           string                   `json:"bestTime" validate:"timeblock"`
	DataDays           int                      `json:"dataDays" validate:"gte=0"`
	TimeBlocks         map[string]rawBlockStats `json:"timeBlocks" validate:"omitempty,dive,keys,timeblock,endkeys"`
}

type rawBlockStats struct {
	AvgRatio    float64 `json:"avg_ratio" validate:"gte=0"`
	SampleCount int     `json:"sample_count" validate:"gte=0"`
}
