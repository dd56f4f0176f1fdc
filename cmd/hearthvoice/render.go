package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"hearthvoice/internal/metrics"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	gainStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func heading(s string) string {
	return headingStyle.Render(s)
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignRight
		if i == 0 {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func renderReport(r *metrics.Report) string {
	rows := make([][]string, 0, len(metrics.MetricNames()))
	for _, name := range metrics.MetricNames() {
		rows = append(rows, []string{name, percent(r.Metric(name))})
	}
	out := renderTable([]string{"metric", "score"}, rows)

	if len(r.Categories) > 0 {
		catRows := make([][]string, 0, len(r.Categories))
		for _, cat := range categoryOrder(r) {
			sub := r.Categories[cat]
			catRows = append(catRows, []string{
				cat,
				fmt.Sprintf("%d", sub.Examples),
				percent(sub.IntentAccuracy),
				percent(sub.ParameterAccuracy),
				percent(sub.OverallAccuracy),
			})
		}
		out += "\n" + renderTable([]string{"category", "n", "intent", "params", "overall"}, catRows)
	}
	return out
}

func renderComparison(baseline, optimized *metrics.Report, delta map[string]float64) string {
	rows := make([][]string, 0, len(metrics.MetricNames()))
	for _, name := range metrics.MetricNames() {
		rows = append(rows, []string{
			name,
			percent(baseline.Metric(name)),
			percent(optimized.Metric(name)),
			styledDelta(delta[name]),
		})
	}
	return renderTable([]string{"metric", "baseline", "optimized", "delta"}, rows)
}

func styledDelta(d float64) string {
	s := fmt.Sprintf("%+.1f%%", d*100)
	switch {
	case d > 0:
		return gainStyle.Render(s)
	case d < 0:
		return lossStyle.Render(s)
	}
	return s
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// categoryOrder returns category names sorted to keep output stable.
func categoryOrder(r *metrics.Report) []string {
	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
