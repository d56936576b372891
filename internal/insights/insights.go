// Package insights turns raw game analytics into the display model shown on
// an expanded card: a sparkline, the trend, the best time to stream in the
// viewer's zone, and a status per time block.
package insights

import (
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/sparkline"
	"github.com/streamscoutapp/streamscout-server/internal/timeblock"
)

// Default sparkline box.
const (
	DefaultWidth  = 100
	DefaultHeight = 30
)

// Options sizes the sparkline.
type Options struct {
	Width  float64
	Height float64
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Block is one classified time block with its viewer-local labels.
type Block struct {
	Block      domain.TimeBlock   `json:"block"`
	LocalLabel string             `json:"local_label"`
	LocalRange string             `json:"local_range"`
	Status     domain.BlockStatus `json:"status"`
	IsBest     bool               `json:"is_best"`
	Stats      *domain.BlockStats `json:"stats,omitempty"`
}

// AnalyticsView is the presentation of a game's analytics.
type AnalyticsView struct {
	Sparkline     []sparkline.Point  `json:"sparkline,omitempty"`
	SparklinePath string             `json:"sparkline_path,omitempty"`
	Trend         domain.Trend       `json:"trend"`
	TrendPercent  float64            `json:"trend_percent"`
	BestTime      domain.TimeBlock   `json:"best_time"`
	BestTimeLocal string             `json:"best_time_local"`
	Status        domain.BlockStatus `json:"status"`
	DataDays      int                `json:"data_days"`
	Timezone      string             `json:"timezone"`
	// Blocks is nil when the analytics carry no time-block data.
	Blocks []Block `json:"blocks,omitempty"`
}

// Build renders a for a viewer in the given zone. A nil viewer means the
// converter's reference zone.
func Build(a *domain.GameAnalytics, conv *timeblock.Converter, viewer *time.Location, opts Options) AnalyticsView {
	if viewer == nil {
		viewer = conv.Reference()
	}
	opts = opts.withDefaults()

	view := AnalyticsView{
		Trend:         a.ViewerTrend,
		TrendPercent:  a.ViewerTrendPercent,
		BestTime:      a.BestTime,
		BestTimeLocal: conv.LocalRange(string(a.BestTime), viewer),
		Status:        a.Status,
		DataDays:      a.DataDays,
		Timezone:      viewer.String(),
	}

	if points := sparkline.Render(a.ViewerSparkline, opts.Width, opts.Height); points != nil {
		view.Sparkline = points
		view.SparklinePath = sparkline.Path(points)
	}

	if a.HasTimeBlocks() {
		classified := timeblock.Classify(a.TimeBlocks, a.BestTime)
		view.Blocks = make([]Block, 0, len(classified))
		for _, c := range classified {
			view.Blocks = append(view.Blocks, Block{
				Block:      c.Block,
				LocalLabel: conv.LocalBlockLabel(c.Block, viewer),
				LocalRange: conv.LocalRange(string(c.Block), viewer),
				Status:     c.Status,
				IsBest:     c.IsBest,
				Stats:      c.Stats,
			})
		}
	}

	return view
}

// BestTimeLocal localizes a ranked game's best block. It returns nil when
// the game has no best-time data.
func BestTimeLocal(g *domain.GameOpportunity, conv *timeblock.Converter, viewer *time.Location) *string {
	if g == nil || g.BestTime == nil {
		return nil
	}
	if viewer == nil {
		viewer = conv.Reference()
	}
	s := conv.LocalRange(string(*g.BestTime), viewer)
	return &s
}
