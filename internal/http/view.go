package http

import (
	"time"

	"github.com/shopspring/decimal"

	"salesdash/internal/chart"
	"salesdash/internal/core"
	"salesdash/internal/dashboard"
)

// PageHeading is the page's top-level heading.
const PageHeading = "Interactive Sales Dashboard"

// Canvas geometry of the SVG donut, in user units.
const (
	canvasWidth   = 700.0
	donutRadius   = 160.0
	titleY        = 32.0
	legendTop     = 58.0
	legendRowH    = 20.0
	legendSwatch  = 12.0
	legendGap     = 18.0
	legendCharW   = 7.0
	legendPadding = 10.0
)

// pageView is the data behind index.html and the dashboard partial.
type pageView struct {
	Heading string
	Form    core.Form
	Error   string
	Rows    int
	Chart   chartView
}

type chartView struct {
	Width         float64
	Height        float64
	Title         string
	TitleX        float64
	TitleY        float64
	TitleFontSize int
	CX            float64
	CY            float64
	R             float64
	Arcs          []chart.Arc
	Legend        []legendEntry
	Empty         bool
	Total         string
}

type legendEntry struct {
	Label   string
	Color   string
	Sales   string
	Percent string
	X       float64
	Y       float64
}

func newPageView(res dashboard.Result) pageView {
	return pageView{
		Heading: PageHeading,
		Form:    res.Form,
		Error:   res.Error,
		Rows:    res.Dataset.Len(),
		Chart:   newChartView(res.Chart),
	}
}

// newChartView lays out the title, the legend rows and the donut. The legend
// is horizontal and right aligned above the plot, wrapping when a row runs
// out of width.
func newChartView(pc chart.PieChart) chartView {
	legend, rows := layoutLegend(pc.Slices)

	cy := legendTop + float64(rows)*legendRowH + 20 + donutRadius
	return chartView{
		Width:         canvasWidth,
		Height:        cy + donutRadius + 20,
		Title:         pc.Title,
		TitleX:        pc.TitleX * canvasWidth,
		TitleY:        titleY,
		TitleFontSize: pc.TitleFontSize,
		CX:            canvasWidth / 2,
		CY:            cy,
		R:             donutRadius,
		Arcs:          pc.Arcs(canvasWidth/2, cy, donutRadius),
		Legend:        legend,
		Empty:         pc.Empty(),
		Total:         core.FormatSales(pc.Total),
	}
}

func layoutLegend(slices []chart.Slice) ([]legendEntry, int) {
	if len(slices) == 0 {
		return nil, 0
	}

	maxWidth := canvasWidth - 2*legendPadding
	var (
		entries  = make([]legendEntry, 0, len(slices))
		rowStart = 0
		rowWidth = 0.0
		row      = 0
	)
	flush := func(end int) {
		x := canvasWidth - legendPadding - rowWidth
		for i := rowStart; i < end; i++ {
			entries[i].X = x
			entries[i].Y = legendTop + float64(row)*legendRowH
			x += itemWidth(entries[i].Label)
		}
	}

	for i, s := range slices {
		w := itemWidth(s.Label)
		if rowWidth > 0 && rowWidth+w > maxWidth {
			flush(i)
			row++
			rowStart, rowWidth = i, 0
		}
		entries = append(entries, legendEntry{
			Label:   s.Label,
			Color:   s.Color,
			Sales:   core.FormatSales(s.Value),
			Percent: s.PercentLabel(),
		})
		rowWidth += w
	}
	flush(len(entries))
	return entries, row + 1
}

func itemWidth(label string) float64 {
	return legendSwatch + 6 + float64(len([]rune(label)))*legendCharW + legendGap
}

// updateResponse is the JSON answer to a scripted dashboard update.
type updateResponse struct {
	Accepted bool         `json:"accepted"`
	Error    string       `json:"error,omitempty"`
	Rows     []rowJSON    `json:"rows"`
	Figure   chart.Figure `json:"figure"`
}

type rowJSON struct {
	Category string          `json:"category"`
	Sales    decimal.Decimal `json:"sales"`
}

func newUpdateResponse(res dashboard.Result) updateResponse {
	rows := make([]rowJSON, 0, res.Dataset.Len())
	for _, r := range res.Dataset {
		rows = append(rows, rowJSON{Category: r.Category, Sales: r.Sales})
	}
	return updateResponse{
		Accepted: res.Accepted,
		Error:    res.Error,
		Rows:     rows,
		Figure:   res.Chart.Figure(),
	}
}

// activityResponse is the JSON answer of /api/activity.
type activityResponse struct {
	Limit  int            `json:"limit"`
	Events []activityJSON `json:"events"`
}

type activityJSON struct {
	ID          string           `json:"id"`
	Trigger     string           `json:"trigger"`
	Category    string           `json:"category,omitempty"`
	Sales       *decimal.Decimal `json:"sales,omitempty"`
	Accepted    bool             `json:"accepted"`
	DatasetSize int              `json:"dataset_size"`
	At          time.Time        `json:"at"`
	Own         bool             `json:"own"`
}

func newActivityResponse(events []core.Event, sid string, limit int) activityResponse {
	out := make([]activityJSON, 0, len(events))
	for _, e := range events {
		a := activityJSON{
			ID:          e.ID,
			Trigger:     e.Trigger.String(),
			Category:    e.Category,
			Accepted:    e.Accepted,
			DatasetSize: e.DatasetSize,
			At:          e.At,
			Own:         sid != "" && e.SessionID == sid,
		}
		if e.Trigger == core.TriggerAdd {
			sales := e.Sales
			a.Sales = &sales
		}
		out = append(out, a)
	}
	return activityResponse{Limit: limit, Events: out}
}
