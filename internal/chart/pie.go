// Package chart turns a dataset into a donut chart description.
//
// Render is pure and cheap; it runs on every dashboard update. The result can
// be drawn as SVG (Arcs) or exported as a Plotly-compatible figure (Figure).
package chart

import (
	"strconv"

	"github.com/shopspring/decimal"

	"salesdash/internal/core"
)

const (
	Title         = "Sales Distribution"
	TitleX        = 0.5
	TitleFontSize = 20
	Hole          = 0.3
	TextPosition  = "inside"
	TextInfo      = "percent+label"
)

// Set3 is the qualitative palette slices are colored with, in row order.
var Set3 = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072",
	"#80b1d3", "#fdb462", "#b3de69", "#fccde5",
	"#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// Legend positions the legend relative to the plot area (paper coordinates).
type Legend struct {
	Orientation string
	XAnchor     string
	YAnchor     string
	X           float64
	Y           float64
}

// DefaultLegend is a horizontal legend anchored just above the top right.
var DefaultLegend = Legend{Orientation: "h", XAnchor: "right", YAnchor: "bottom", X: 1, Y: 1.02}

// Slice is one wedge of the donut.
type Slice struct {
	Label   string
	Value   decimal.Decimal
	Percent float64
	Color   string
}

// PercentLabel formats the share the way the in-slice text shows it.
func (s Slice) PercentLabel() string {
	return strconv.FormatFloat(s.Percent, 'f', 1, 64) + "%"
}

// PieChart describes a rendered donut chart.
type PieChart struct {
	Title         string
	TitleX        float64
	TitleFontSize int
	Hole          float64
	TextPosition  string
	TextInfo      string
	ShowLegend    bool
	Legend        Legend
	Slices        []Slice
	Total         decimal.Decimal
}

// Render maps a dataset to its chart. Every row becomes its own slice, even
// when categories repeat. Rows with a zero or negative amount get a zero
// share and no wedge, so the shares of the drawn slices sum to 100.
func Render(ds core.Dataset) PieChart {
	pc := PieChart{
		Title:         Title,
		TitleX:        TitleX,
		TitleFontSize: TitleFontSize,
		Hole:          Hole,
		TextPosition:  TextPosition,
		TextInfo:      TextInfo,
		ShowLegend:    true,
		Legend:        DefaultLegend,
		Slices:        make([]Slice, 0, len(ds)),
		Total:         decimal.Zero,
	}

	for _, r := range ds {
		if r.Sales.IsPositive() {
			pc.Total = pc.Total.Add(r.Sales)
		}
	}

	hundred := decimal.NewFromInt(100)
	for i, r := range ds {
		s := Slice{
			Label: r.Category,
			Value: r.Sales,
			Color: Set3[i%len(Set3)],
		}
		if pc.Total.IsPositive() && r.Sales.IsPositive() {
			s.Percent = r.Sales.Div(pc.Total).Mul(hundred).InexactFloat64()
		}
		pc.Slices = append(pc.Slices, s)
	}
	return pc
}

// Empty reports whether there is nothing to draw.
func (pc PieChart) Empty() bool {
	return !pc.Total.IsPositive()
}
