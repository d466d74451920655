package chart

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"salesdash/internal/core"
)

func sumPercent(pc PieChart) float64 {
	var sum float64
	for _, s := range pc.Slices {
		sum += s.Percent
	}
	return sum
}

func TestRenderSeed(t *testing.T) {
	pc := Render(core.SeedDataset())

	if pc.Title != "Sales Distribution" || pc.Hole != 0.3 || pc.TitleX != 0.5 {
		t.Fatalf("unexpected styling: %+v", pc)
	}
	if pc.Total.String() != "65000" {
		t.Fatalf("expected total 65000, got %s", pc.Total)
	}
	want := []struct {
		label, pct, color string
	}{
		{"Electronics", "46.2%", "#8dd3c7"},
		{"Clothing", "30.8%", "#ffffb3"},
		{"Food", "23.1%", "#bebada"},
	}
	if len(pc.Slices) != len(want) {
		t.Fatalf("expected %d slices, got %d", len(want), len(pc.Slices))
	}
	for i, w := range want {
		s := pc.Slices[i]
		if s.Label != w.label || s.PercentLabel() != w.pct || s.Color != w.color {
			t.Fatalf("slice %d: got %s %s %s", i, s.Label, s.PercentLabel(), s.Color)
		}
	}
	if math.Abs(sumPercent(pc)-100) > 1e-9 {
		t.Fatalf("percentages sum to %v", sumPercent(pc))
	}
}

func TestRenderAfterAdd(t *testing.T) {
	ds := core.SeedDataset().Append(core.NewRecord("Books", 10000))
	pc := Render(ds)
	if pc.Total.String() != "75000" {
		t.Fatalf("expected total 75000, got %s", pc.Total)
	}
	if got := pc.Slices[0].PercentLabel(); got != "40.0%" {
		t.Fatalf("Electronics share: got %s", got)
	}
	if got := pc.Slices[3].PercentLabel(); got != "13.3%" {
		t.Fatalf("Books share: got %s", got)
	}
}

func TestRenderPercentagesSumTo100(t *testing.T) {
	datasets := []core.Dataset{
		core.SeedDataset(),
		{core.NewRecord("A", 1), core.NewRecord("B", 1), core.NewRecord("C", 1)},
		{core.NewRecord("Only", 7)},
		{core.NewRecord("A", 3), core.NewRecord("A", 3), core.NewRecord("Z", 999999999)},
	}
	for i, ds := range datasets {
		if got := sumPercent(Render(ds)); math.Abs(got-100) > 1e-9 {
			t.Fatalf("dataset %d: sum=%v", i, got)
		}
	}
}

func TestRenderDoesNotMergeDuplicates(t *testing.T) {
	ds := core.Dataset{core.NewRecord("Food", 50), core.NewRecord("Food", 50)}
	pc := Render(ds)
	if len(pc.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(pc.Slices))
	}
	if pc.Slices[0].Percent != 50 || pc.Slices[1].Percent != 50 {
		t.Fatalf("unexpected shares %v %v", pc.Slices[0].Percent, pc.Slices[1].Percent)
	}
}

func TestRenderPaletteCycles(t *testing.T) {
	var ds core.Dataset
	for i := 0; i < len(Set3)+2; i++ {
		ds = ds.Append(core.NewRecord("c", 1))
	}
	pc := Render(ds)
	if pc.Slices[len(Set3)].Color != Set3[0] || pc.Slices[len(Set3)+1].Color != Set3[1] {
		t.Fatalf("palette did not wrap around")
	}
}

func TestRenderNonPositiveAmounts(t *testing.T) {
	ds := core.Dataset{core.NewRecord("A", 100), core.NewRecord("Refund", -50), core.NewRecord("Zero", 0)}
	pc := Render(ds)
	if pc.Total.String() != "100" {
		t.Fatalf("expected total of positive rows, got %s", pc.Total)
	}
	if pc.Slices[0].Percent != 100 || pc.Slices[1].Percent != 0 || pc.Slices[2].Percent != 0 {
		t.Fatalf("unexpected shares: %+v", pc.Slices)
	}
	if arcs := pc.Arcs(100, 100, 80); len(arcs) != 1 {
		t.Fatalf("expected only the positive slice to be drawn, got %d", len(arcs))
	}

	empty := Render(core.Dataset{core.NewRecord("Zero", 0)})
	if !empty.Empty() || empty.Arcs(100, 100, 80) != nil {
		t.Fatalf("zero total should draw nothing")
	}
}

func TestArcsGeometry(t *testing.T) {
	pc := Render(core.Dataset{core.NewRecord("A", 1), core.NewRecord("B", 1)})
	arcs := pc.Arcs(100, 100, 80)
	if len(arcs) != 2 {
		t.Fatalf("expected 2 arcs, got %d", len(arcs))
	}
	// First half starts at twelve o'clock and ends at six o'clock.
	if !strings.HasPrefix(arcs[0].Path, "M100,20 A80 80 0 0 1 100,180") {
		t.Fatalf("unexpected first path %q", arcs[0].Path)
	}
	// Label sits halfway through the ring at three o'clock.
	if arcs[0].LabelX != 152 || arcs[0].LabelY != 100 {
		t.Fatalf("unexpected label position %v,%v", arcs[0].LabelX, arcs[0].LabelY)
	}

	full := Render(core.Dataset{core.NewRecord("Only", 5)}).Arcs(100, 100, 80)
	if len(full) != 1 || strings.Count(full[0].Path, "A") != 4 {
		t.Fatalf("single slice should render as a full ring: %+v", full)
	}
}

func TestFigureJSON(t *testing.T) {
	fig := Render(core.SeedDataset()).Figure()
	raw, err := json.Marshal(fig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	data := decoded["data"].([]any)
	trace := data[0].(map[string]any)
	if trace["type"] != "pie" || trace["hole"] != 0.3 || trace["textinfo"] != "percent+label" {
		t.Fatalf("unexpected trace %v", trace)
	}
	values := trace["values"].([]any)
	if len(values) != 3 || values[0] != float64(30000) {
		t.Fatalf("unexpected values %v", values)
	}
	layout := decoded["layout"].(map[string]any)
	legend := layout["legend"].(map[string]any)
	if legend["orientation"] != "h" || legend["xanchor"] != "right" || legend["y"] != 1.02 {
		t.Fatalf("unexpected legend %v", legend)
	}
}
