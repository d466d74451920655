package chart

import (
	"math"
	"strconv"
	"strings"
)

// Arc is the SVG geometry of one slice.
type Arc struct {
	Slice
	Path   string
	LabelX float64
	LabelY float64
}

// Arcs lays the drawable slices out clockwise from twelve o'clock on a donut
// centered at (cx, cy) with outer radius r. Slices with a zero share are
// skipped; the inner radius is r*Hole.
func (pc PieChart) Arcs(cx, cy, r float64) []Arc {
	if pc.Empty() {
		return nil
	}
	inner := r * pc.Hole
	mid := (r + inner) / 2

	arcs := make([]Arc, 0, len(pc.Slices))
	start := 0.0
	for _, s := range pc.Slices {
		if s.Percent <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Percent / 100
		end := start + sweep

		var path string
		if s.Percent >= 100-1e-9 {
			path = ringPath(cx, cy, r, inner)
		} else {
			path = wedgePath(cx, cy, r, inner, start, end)
		}
		lx, ly := polar(cx, cy, mid, start+sweep/2)
		arcs = append(arcs, Arc{Slice: s, Path: path, LabelX: round2(lx), LabelY: round2(ly)})
		start = end
	}
	return arcs
}

// polar converts an angle measured clockwise from the top into SVG
// coordinates (y grows downwards).
func polar(cx, cy, r, theta float64) (float64, float64) {
	return cx + r*math.Sin(theta), cy - r*math.Cos(theta)
}

func wedgePath(cx, cy, r, inner, start, end float64) string {
	large := "0"
	if end-start > math.Pi {
		large = "1"
	}
	ox0, oy0 := polar(cx, cy, r, start)
	ox1, oy1 := polar(cx, cy, r, end)
	ix1, iy1 := polar(cx, cy, inner, end)
	ix0, iy0 := polar(cx, cy, inner, start)

	var b strings.Builder
	b.WriteString("M" + pt(ox0, oy0))
	b.WriteString(" A" + num(r) + " " + num(r) + " 0 " + large + " 1 " + pt(ox1, oy1))
	b.WriteString(" L" + pt(ix1, iy1))
	b.WriteString(" A" + num(inner) + " " + num(inner) + " 0 " + large + " 0 " + pt(ix0, iy0))
	b.WriteString(" Z")
	return b.String()
}

// ringPath draws a full donut as two half arcs per circle; an arc whose end
// equals its start would render nothing.
func ringPath(cx, cy, r, inner float64) string {
	ot, ob := pt(cx, cy-r), pt(cx, cy+r)
	it, ib := pt(cx, cy-inner), pt(cx, cy+inner)
	rr, ri := num(r)+" "+num(r), num(inner)+" "+num(inner)

	var b strings.Builder
	b.WriteString("M" + ot)
	b.WriteString(" A" + rr + " 0 1 1 " + ob)
	b.WriteString(" A" + rr + " 0 1 1 " + ot)
	b.WriteString(" L" + it)
	b.WriteString(" A" + ri + " 0 1 0 " + ib)
	b.WriteString(" A" + ri + " 0 1 0 " + it)
	b.WriteString(" Z")
	return b.String()
}

func pt(x, y float64) string {
	return num(x) + "," + num(y)
}

func num(f float64) string {
	return strconv.FormatFloat(round2(f), 'f', -1, 64)
}

func round2(f float64) float64 {
	v := math.Round(f*100) / 100
	if v == 0 {
		return 0 // avoid "-0"
	}
	return v
}
