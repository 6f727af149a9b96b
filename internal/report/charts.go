package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"fxeval/internal/store"
)

const (
	chartWidthPx  = 1100
	chartHeightPx = 420

	colorProfit = "#34d399"
	colorLoss   = "#f87171"
)

// RenderCharts builds the report's chart page: logic-score distribution and
// cumulative realized profit/loss over the period. Returns the rendered HTML.
func RenderCharts(title string, stats EvaluationStats, trades []store.TradeRecord) ([]byte, error) {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		buildScoreDistributionChart(title, stats),
		buildCumulativePnLChart(title, trades),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteChartFile renders the charts and writes them next to the other report
// artifacts. Returns the written path.
func WriteChartFile(dir, name string, stats EvaluationStats, trades []store.TradeRecord) (string, error) {
	html, err := RenderCharts(name, stats, trades)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s.html", name))
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func buildScoreDistributionChart(title string, stats EvaluationStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  fmt.Sprintf("%dpx", chartWidthPx),
			Height: fmt.Sprintf("%dpx", chartHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Logic score distribution (%s)", title),
			Subtitle: fmt.Sprintf("%d evaluations, average %.2f", stats.TotalEvaluations, stats.AverageLogicScore),
			Left:     "left",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xAxis := make([]string, 0, 5)
	data := make([]opts.BarData, 0, 5)
	for score := 1; score <= 5; score++ {
		xAxis = append(xAxis, fmt.Sprintf("score %d", score))
		data = append(data, opts.BarData{Value: stats.ScoreDistribution[score]})
	}
	bar.SetXAxis(xAxis)
	bar.AddSeries("Evaluations", data)
	return bar
}

func buildCumulativePnLChart(title string, trades []store.TradeRecord) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  fmt.Sprintf("%dpx", chartWidthPx),
			Height: fmt.Sprintf("%dpx", chartHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Cumulative realized P&L (%s)", title),
			Left:  "left",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	settled := make([]store.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if t.Settled() {
			settled = append(settled, t)
		}
	}
	sort.SliceStable(settled, func(i, j int) bool {
		return settled[i].TradeTime.Before(settled[j].TradeTime)
	})

	xAxis := make([]string, 0, len(settled))
	data := make([]opts.LineData, 0, len(settled))
	running := 0.0
	for _, t := range settled {
		running += *t.ProfitLoss
		xAxis = append(xAxis, t.TradeTime.UTC().Format(time.DateTime))
		data = append(data, opts.LineData{Value: running})
	}

	// The line is tinted by the period's net outcome.
	lineColor := colorProfit
	if running < 0 {
		lineColor = colorLoss
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: lineColor, Width: 2}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("Cumulative P&L", data)
	return line
}
