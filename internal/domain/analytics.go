package domain

// GameAnalytics is the historical detail for a single game.
// TimeBlocks is nil when the upstream payload omits it.
type GameAnalytics struct {
	ViewerSparkline    []float64                `json:"viewerSparkline"`
	ViewerTrend        Trend                    `json:"viewerTrend"`
	ViewerTrendPercent float64                  `json:"viewerTrendPercent"`
	BestTime           TimeBlock                `json:"bestTime"`
	Status             BlockStatus              `json:"status"`
	DataDays           int                      `json:"dataDays"`
	TimeBlocks         map[TimeBlock]BlockStats `json:"timeBlocks,omitempty"`
}

// HasTimeBlocks reports whether block data was supplied.
func (a *GameAnalytics) HasTimeBlocks() bool {
	return a != nil && a.TimeBlocks != nil
}
