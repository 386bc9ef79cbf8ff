package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"listen-heatmap/calendar"
	"listen-heatmap/models"
)

// Panel margins in pixels. The right margin leaves room for the visual map.
const (
	gridLeft   = 40
	gridRight  = 90
	gridTop    = 56
	gridBottom = 10
)

// LegendTitle heads the combined highlight legend.
const LegendTitle = "Highlighted dates"

var weekdayLabels = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// PlotStyle holds the presentation settings of a figure.
type PlotStyle struct {
	FontFamily     string
	FontSize       int
	ColorFrom      string
	ColorTo        string
	Bands          int
	MissingColor   string
	HighlightColor string
	PanelWidth     int
	PanelHeight    int
}

// DefaultPlotStyle is used for every field left empty in config.
func DefaultPlotStyle() PlotStyle {
	return PlotStyle{
		FontFamily:     "DejaVu Sans",
		FontSize:       10,
		ColorFrom:      "#440154",
		ColorTo:        "#fde725",
		Bands:          8,
		MissingColor:   "#d9d9d9",
		HighlightColor: "#e31a1c",
		PanelWidth:     420,
		PanelHeight:    300,
	}
}

// ColorScale builds the shared scale of a year from the style's gradient.
func (s PlotStyle) ColorScale(max float64) (calendar.ColorScale, error) {
	colors, err := calendar.InterpolateColors(s.ColorFrom, s.ColorTo, s.Bands)
	if err != nil {
		return calendar.ColorScale{}, fmt.Errorf("invalid style gradient: %w", err)
	}
	return calendar.NewColorScale(max, colors, s.MissingColor), nil
}

func (s PlotStyle) textStyle(size int) *opts.TextStyle {
	return &opts.TextStyle{FontFamily: s.FontFamily, FontSize: size}
}

// PlotYearHeatmap renders the month panels of a year, their highlight marks
// and one legend into a single HTML page.
func PlotYearHeatmap(w io.Writer, title string, layout calendar.YearLayout, annotations calendar.Annotations, scale calendar.ColorScale, style PlotStyle) error {
	page := components.NewPage()
	page.SetPageTitle(title)
	page.SetLayout(components.PageFlexLayout)

	page.AddCharts(textChart(style, title, "", style.FontSize+8))

	for i, grid := range layout.Grids {
		page.AddCharts(monthPanel(grid, annotations.MarksFor(i), scale, style))
	}

	rows, cols := calendar.PanelGrid(len(layout.Grids))
	for i := len(layout.Grids); i < rows*cols; i++ {
		page.AddCharts(textChart(style, "", "", style.FontSize))
	}

	if !annotations.Empty() {
		page.AddCharts(textChart(style, LegendTitle, strings.Join(annotations.Legend, "\n"), style.FontSize+2))
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render heatmap page: %w", err)
	}
	return nil
}

// monthPanel draws one month grid as a heatmap with its highlights overlaid.
func monthPanel(grid calendar.MonthGrid, marks []calendar.Mark, scale calendar.ColorScale, style PlotStyle) *charts.HeatMap {
	heat := charts.NewHeatMap()
	heat.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", style.PanelWidth),
			Height: fmt.Sprintf("%dpx", style.PanelHeight),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      fmt.Sprintf("%s %d", calendar.MonthAbbrev(grid.Month), grid.Year),
			Left:       "center",
			TitleStyle: style.textStyle(style.FontSize + 2),
		}),
		charts.WithGridOpts(opts.Grid{
			Left:   fmt.Sprint(gridLeft),
			Right:  fmt.Sprint(gridRight),
			Top:    fmt.Sprint(gridTop),
			Bottom: fmt.Sprint(gridBottom),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      weekdayLabels,
			Position:  "top",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      rowAxisLabels(grid),
			Inverse:   opts.Bool(true),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Rotate: 90, Interval: "0"},
		}),
		charts.WithVisualMapOpts(visualMap(scale, style)),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Formatter: opts.FuncOpts(tooltipFormatter),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	heat.SetXAxis(weekdayLabels).AddSeries(calendar.MonthAbbrev(grid.Month), cellData(grid),
		charts.WithLabelOpts(opts.Label{
			Show:       opts.Bool(true),
			Formatter:  "{b}",
			FontFamily: style.FontFamily,
			FontSize:   float32(style.FontSize),
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{BorderColor: "#ffffff", BorderWidth: 1}),
	)

	if len(marks) > 0 {
		heat.Overlap(highlightOverlay(grid, marks, style))
		// The visual map only colors the heatmap so the frames stay unfilled.
		heat.AddJSFuncStrs(types.FuncStr("%MY_ECHARTS%.setOption({visualMap: [{seriesIndex: 0}]});"))
	}
	return heat
}

const tooltipFormatter = `function (p) {
	if (p.seriesType !== 'heatmap') { return p.name; }
	var v = p.value[2];
	return p.name + ': ' + (v < 0 ? 'no data' : v.toFixed(2));
}`

// rowAxisLabels names every row, blank except where a month label sits.
func rowAxisLabels(grid calendar.MonthGrid) []string {
	labels := make([]string, grid.Rows)
	for _, l := range grid.RowLabels {
		labels[l.Row] = l.Text
	}
	return labels
}

// cellData emits one item per occupied cell, named by its day-of-month.
func cellData(grid calendar.MonthGrid) []opts.HeatMapData {
	var data []opts.HeatMapData
	for _, row := range grid.Cells {
		for _, cell := range row {
			if !cell.Occupied {
				continue
			}
			data = append(data, opts.HeatMapData{
				Name:  fmt.Sprint(cell.DayOfMonth()),
				Value: [3]interface{}{cell.WeekdayCol, cell.WeekRow, cell.Value.Value},
			})
		}
	}
	return data
}

// highlightOverlay frames each marked cell with a cell-sized unfilled rectangle.
func highlightOverlay(grid calendar.MonthGrid, marks []calendar.Mark, style PlotStyle) *charts.Scatter {
	cellW := float64(style.PanelWidth-gridLeft-gridRight) / calendar.DaysPerWeek
	cellH := float64(style.PanelHeight-gridTop-gridBottom) / float64(grid.Rows)

	data := make([]opts.ScatterData, 0, len(marks))
	for _, m := range marks {
		data = append(data, opts.ScatterData{
			Name:  m.Highlight.LegendEntry(),
			Value: []int{m.Position.WeekdayCol, m.Position.WeekRow},
		})
	}

	scatter := charts.NewScatter()
	scatter.AddSeries(LegendTitle, data,
		charts.WithScatterChartOpts(opts.ScatterChart{
			Symbol:     "rect",
			SymbolSize: []float64{cellW, cellH},
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:       "transparent",
			BorderColor: style.HighlightColor,
			BorderWidth: 2,
		}),
	)
	return scatter
}

// visualMap exports the shared scale. The missing band sits below zero so
// sentinel cells never pass through the gradient.
func visualMap(scale calendar.ColorScale, style PlotStyle) opts.VisualMap {
	return opts.VisualMap{
		Type:      "piecewise",
		Dimension: "2",
		Pieces:    pieces(scale),
		Show:      opts.Bool(true),
		Right:     "0",
		Top:       "middle",
		Orient:    "vertical",
		TextStyle: style.textStyle(style.FontSize - 2),
	}
}

// Piece bounds are omitted by go-echarts when zero, so no piece relies on a zero bound.
func pieces(scale calendar.ColorScale) []opts.Piece {
	const missingBound = -0.5
	var out []opts.Piece
	for _, b := range scale.Bands() {
		p := opts.Piece{Color: b.Color}
		switch {
		case b.Missing:
			p.Lte = missingBound
		case b.Lower == 0 && b.Last:
			p.Gt = missingBound
		case b.Lower == 0:
			p.Gt = missingBound
			p.Lt = float32(b.Upper)
		case b.Last:
			p.Gte = float32(b.Lower)
		default:
			p.Gte = float32(b.Lower)
			p.Lt = float32(b.Upper)
		}
		out = append(out, p)
	}
	return out
}

// textChart is an axis-less chart used for the figure title, the legend and empty slots.
func textChart(style PlotStyle, title, subtitle string, size int) *charts.Scatter {
	width, height := style.PanelWidth*calendar.PanelColumns, 60
	switch {
	case title == "" && subtitle == "":
		width, height = style.PanelWidth, style.PanelHeight
	case subtitle != "":
		height += (strings.Count(subtitle, "\n") + 1) * (style.FontSize + 8)
	}

	chart := charts.NewScatter()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%dpx", width),
			Height: fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:         title,
			Subtitle:      subtitle,
			Left:          "center",
			TitleStyle:    style.textStyle(size),
			SubtitleStyle: style.textStyle(style.FontSize + 1),
		}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
	)
	return chart
}

// PlotShares renders a share breakdown as a pie chart.
func PlotShares(w io.Writer, title string, shares []models.Share, style PlotStyle) error {
	data := make([]opts.PieData, 0, len(shares))
	for _, s := range shares {
		data = append(data, opts.PieData{Name: s.Label, Value: s.Count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     fmt.Sprintf("%dpx", style.PanelWidth*2),
			Height:    fmt.Sprintf("%dpx", style.PanelHeight*2),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      title,
			Left:       "center",
			TitleStyle: style.textStyle(style.FontSize + 6),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Left: "left"}),
	)
	pie.AddSeries(title, data,
		charts.WithLabelOpts(opts.Label{
			Show:       opts.Bool(true),
			Formatter:  "{b}: {d}%",
			FontFamily: style.FontFamily,
		}),
		charts.WithPieChartOpts(opts.PieChart{Radius: "60%"}),
	)

	if err := pie.Render(w); err != nil {
		return fmt.Errorf("failed to render share chart: %w", err)
	}
	return nil
}
