package chart

// Figure is a Plotly-compatible figure (data + layout) for JSON consumers.
type Figure struct {
	Data   []PieTrace   `json:"data"`
	Layout FigureLayout `json:"layout"`
}

type PieTrace struct {
	Type         string    `json:"type"`
	Labels       []string  `json:"labels"`
	Values       []float64 `json:"values"`
	Hole         float64   `json:"hole"`
	Sort         bool      `json:"sort"`
	TextPosition string    `json:"textposition"`
	TextInfo     string    `json:"textinfo"`
	Marker       struct {
		Colors []string `json:"colors"`
	} `json:"marker"`
}

type FigureLayout struct {
	Title struct {
		Text string  `json:"text"`
		X    float64 `json:"x"`
		Font struct {
			Size int `json:"size"`
		} `json:"font"`
	} `json:"title"`
	ShowLegend bool         `json:"showlegend"`
	Legend     FigureLegend `json:"legend"`
}

type FigureLegend struct {
	Orientation string  `json:"orientation"`
	YAnchor     string  `json:"yanchor"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	X           float64 `json:"x"`
}

// Figure converts the chart to a single pie trace. Slices keep dataset order
// (sort disabled) so colors line up with rows.
func (pc PieChart) Figure() Figure {
	trace := PieTrace{
		Type:         "pie",
		Labels:       make([]string, 0, len(pc.Slices)),
		Values:       make([]float64, 0, len(pc.Slices)),
		Hole:         pc.Hole,
		Sort:         false,
		TextPosition: pc.TextPosition,
		TextInfo:     pc.TextInfo,
	}
	trace.Marker.Colors = make([]string, 0, len(pc.Slices))
	for _, s := range pc.Slices {
		trace.Labels = append(trace.Labels, s.Label)
		trace.Values = append(trace.Values, s.Value.InexactFloat64())
		trace.Marker.Colors = append(trace.Marker.Colors, s.Color)
	}

	var layout FigureLayout
	layout.Title.Text = pc.Title
	layout.Title.X = pc.TitleX
	layout.Title.Font.Size = pc.TitleFontSize
	layout.ShowLegend = pc.ShowLegend
	layout.Legend = FigureLegend{
		Orientation: pc.Legend.Orientation,
		YAnchor:     pc.Legend.YAnchor,
		Y:           pc.Legend.Y,
		XAnchor:     pc.Legend.XAnchor,
		X:           pc.Legend.X,
	}

	return Figure{Data: []PieTrace{trace}, Layout: layout}
}
