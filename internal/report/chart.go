package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/benmeehan/procbench/internal/models"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Run is the result series of one strategy.
type Run struct {
	Name    string
	Results []models.IterationResult
}

// WriteChart renders per-iteration latency and allocation line charts for
// every run into a single HTML page.
func WriteChart(w io.Writer, runs []Run) error {
	longest := 0
	for _, run := range runs {
		if len(run.Results) > longest {
			longest = len(run.Results)
		}
	}
	if longest == 0 {
		return errors.New("no iterations to chart")
	}

	xLabels := make([]string, longest)
	for i := range xLabels {
		xLabels[i] = strconv.Itoa(i + 1)
	}

	page := components.NewPage()
	page.PageTitle = "procbench"
	page.AddCharts(
		lineChart("Total iteration time (ms)", "ms", xLabels, runs, func(r models.IterationResult) float64 { return r.TotalMs }),
		lineChart("Metrics phase (ms)", "ms", xLabels, runs, func(r models.IterationResult) float64 { return r.MetricsMs }),
		lineChart("Allocated per iteration (KB)", "KB", xLabels, runs, func(r models.IterationResult) float64 {
			return float64(r.AllocBytes) / bytesPerKilobyte
		}),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}

func lineChart(title, unit string, xLabels []string, runs []Run, value func(models.IterationResult) float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "iteration"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: unit}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
	)

	line.SetXAxis(xLabels)
	for _, run := range runs {
		data := make([]opts.LineData, 0, len(run.Results))
		for _, r := range run.Results {
			data = append(data, opts.LineData{Value: value(r)})
		}
		line.AddSeries(run.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}
	return line
}
