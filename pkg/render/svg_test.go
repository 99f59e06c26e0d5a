package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashheat/hashheat/pkg/chart"
	"github.com/hashheat/hashheat/pkg/ranking"
	"github.com/hashheat/hashheat/pkg/report"
)

func barFixture() chart.BarChart {
	return chart.NewBarChart([]float64{120, 340, 90}, []string{"Jan", "Feb", "Mar"}, chart.DefaultLayout(), chart.TickModeStep100)
}

func lineFixture() chart.LineChart {
	return chart.NewLineChart([]float64{10, 25, 18, 32}, nil, chart.DefaultLayout(), chart.TickModeLog, 2)
}

func TestBarSVG(t *testing.T) {
	out := BarSVG(barFixture(), WithTitle("Monthly cost"))

	svg := string(out)
	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("output does not start with an svg element")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Errorf("output not closed")
	}
	if got := strings.Count(svg, "<rect"); got < 4 {
		// background + one rect per bar
		t.Errorf("got %d rects, want at least 4", got)
	}
	if !strings.Contains(svg, "Monthly cost") {
		t.Errorf("title missing from output")
	}
	for _, label := range []string{"Jan", "Feb", "Mar"} {
		if !strings.Contains(svg, label) {
			t.Errorf("category label %q missing", label)
		}
	}
}

func TestLineSVGEmbedsGeometryPath(t *testing.T) {
	c := lineFixture()
	out := LineSVG(c)

	// The path descriptor must appear byte for byte: the exported artifact
	// and the interactive chart share geometry exactly.
	if !bytes.Contains(out, []byte(`d="`+c.Line.Path+`"`)) {
		t.Errorf("geometry path not embedded verbatim:\n%s", c.Line.Path)
	}

	// One circle per point, the highlighted one larger.
	if got := strings.Count(string(out), "<circle"); got != len(c.Line.Points) {
		t.Errorf("got %d circles, want %d", got, len(c.Line.Points))
	}
	if !strings.Contains(string(out), `r="5.5"`) {
		t.Errorf("highlighted point missing")
	}
}

func TestDualSVGHasBothAxes(t *testing.T) {
	dual, err := chart.NewDualChart(
		[]float64{120, 340, 90},
		[]float64{1.2, 3.4, 0.9},
		[]string{"Jan", "Feb", "Mar"},
		chart.DefaultLayout(), chart.TickModeStep100, chart.TickModeLog)
	if err != nil {
		t.Fatalf("NewDualChart() error = %v", err)
	}

	svg := string(DualSVG(dual))
	if !strings.Contains(svg, `text-anchor="end"`) || !strings.Contains(svg, `text-anchor="start"`) {
		t.Errorf("dual chart should label both left and right axes")
	}
	if !strings.Contains(svg, "<path") {
		t.Errorf("line path missing")
	}
}

func TestSVGDeterministic(t *testing.T) {
	a := BarSVG(barFixture(), WithTitle("t"))
	b := BarSVG(barFixture(), WithTitle("t"))
	if !bytes.Equal(a, b) {
		t.Error("identical inputs produced different SVG")
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	c := chart.NewBarChart([]float64{1}, []string{`<script>`}, chart.DefaultLayout(), chart.TickModeLog)
	out := string(BarSVG(c))
	if strings.Contains(out, "<script>") {
		t.Error("labels must be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped label missing")
	}
}

func TestRankingPanel(t *testing.T) {
	pop := []ranking.Region{
		{Code: "AA", Name: "Alpha", Value: 50},
		{Code: "BB", Name: "Bravo", Value: 40},
	}
	res := ranking.Rank(pop, ranking.Region{Code: "YOU", Name: "You", Value: 45}, ranking.Descending)
	rows := res.Window(report.DefaultWindowTopN, report.DefaultWindowRadius)

	out := string(BarSVG(barFixture(), WithRankingPanel(rows, res.Position.Describe())))

	if !strings.Contains(out, res.Position.Describe()) {
		t.Errorf("position description missing")
	}
	for _, row := range rows {
		if !strings.Contains(out, row.Region.Name) {
			t.Errorf("ranking row %q missing", row.Region.Name)
		}
	}
	if !strings.Contains(out, `font-weight="bold"`) {
		t.Errorf("user row not highlighted")
	}

	// The panel extends the frame below the plot box.
	plain := string(BarSVG(barFixture()))
	if len(out) <= len(plain) {
		t.Errorf("panel did not grow the document")
	}
}
