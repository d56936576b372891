// Package charts renders interactive HTML charts of a game's analytics:
// the viewer trend line and the per-block viewer/streamer ratio.
package charts

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
	"github.com/streamscoutapp/streamscout-server/internal/insights"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Width  string // Chart width (e.g., "900px")
	Height string // Chart height (e.g., "400px")
	Theme  string // Chart theme
	Smooth bool   // Smooth trend line
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "400px",
		Theme:  "light",
		Smooth: true,
	}
}

// Colors for block statuses.
var statusColors = map[domain.BlockStatus]string{
	domain.StatusGood:    "#3BA272",
	domain.StatusOK:      "#FAC858",
	domain.StatusAvoid:   "#EE6666",
	domain.StatusUnknown: "#A0A0A0",
}

const (
	trendColor = "#5470C6"
	bestBorder = "#9A60B4"
	bestMark   = "★ "
)

// ErrNothingToRender is returned when the analytics carry neither a usable
// sparkline nor time-block data.
var ErrNothingToRender = errors.New("no chartable analytics")

// RenderAnalytics writes an HTML page with a trend line of raw viewer
// samples and, when present, a bar chart of the classified time blocks.
func RenderAnalytics(w io.Writer, title string, view insights.AnalyticsView, raw []float64, config ChartConfig) error {
	page := components.NewPage()
	page.PageTitle = title

	added := 0
	if len(raw) >= 2 {
		page.AddCharts(trendChart(title, view, raw, config))
		added++
	}
	if len(view.Blocks) > 0 {
		page.AddCharts(blockChart(view, config))
		added++
	}
	if added == 0 {
		return ErrNothingToRender
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func trendChart(title string, view insights.AnalyticsView, raw []float64, config ChartConfig) *charts.Line {
	line := charts.NewLine()

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("Viewers over %d days, trend %s (%+.1f%%)", view.DataDays, view.Trend, view.TrendPercent),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithColorsOpts(opts.Colors{trendColor}),
	)

	xLabels := make([]string, len(raw))
	yData := make([]opts.LineData, len(raw))
	for i, v := range raw {
		xLabels[i] = fmt.Sprintf("%d", i+1)
		yData[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(xLabels).
		AddSeries("Viewers", yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(config.Smooth),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return line
}

func blockChart(view insights.AnalyticsView, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Best time to stream",
			Subtitle: fmt.Sprintf("Viewer/streamer ratio by block (%s). Best: %s", view.Timezone, view.BestTimeLocal),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
	)

	xLabels := make([]string, len(view.Blocks))
	yData := make([]opts.BarData, len(view.Blocks))
	for i, b := range view.Blocks {
		xLabels[i] = b.LocalLabel
		if b.IsBest {
			xLabels[i] = bestMark + b.LocalLabel
		}

		var ratio float64
		if b.Stats != nil {
			ratio = b.Stats.AvgRatio
		}
		style := &opts.ItemStyle{Color: statusColors[b.Status]}
		if b.IsBest {
			style.BorderColor = bestBorder
		}
		yData[i] = opts.BarData{
			Name:      string(b.Status),
			Value:     ratio,
			ItemStyle: style,
		}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Ratio", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return bar
}
