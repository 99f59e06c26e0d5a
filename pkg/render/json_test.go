package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hashheat/hashheat/pkg/chart"
	"github.com/hashheat/hashheat/pkg/report"
)

func TestJSONRoundtripsGeometry(t *testing.T) {
	c := chart.NewBarChart([]float64{1, 2}, []string{"a", "b"}, chart.DefaultLayout(), chart.TickModeLog)

	out, err := JSON(c)
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if !strings.HasSuffix(string(out), "\n") {
		t.Error("output should end with a newline")
	}

	var decoded chart.BarChart
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Bars) != 2 || decoded.NiceMax != c.NiceMax {
		t.Errorf("roundtrip lost geometry: %+v", decoded)
	}
}

func TestDocumentJSONValidatesFirst(t *testing.T) {
	doc := report.New("Empty", "us", "USD")
	if _, err := DocumentJSON(doc); err == nil {
		t.Error("invalid document should not serialize")
	}

	doc.AddPage(report.Page{Sections: []report.Section{
		report.NewNarrativeSection("Intro", "hello"),
	}})
	out, err := DocumentJSON(doc)
	if err != nil {
		t.Fatalf("DocumentJSON() error = %v", err)
	}
	if !strings.Contains(string(out), doc.ID.String()) {
		t.Error("document ID missing from output")
	}
}
