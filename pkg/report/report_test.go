package report

import (
	"math"
	"strings"
	"testing"

	"github.com/hashheat/hashheat/pkg/chart"
	"github.com/hashheat/hashheat/pkg/ranking"
)

func sampleRanking() ranking.Result {
	pop := []ranking.Region{
		{Code: "AA", Name: "Alpha", Value: 50},
		{Code: "BB", Name: "Bravo", Value: 40},
		{Code: "CC", Name: "Charlie", Value: 30},
	}
	return ranking.Rank(pop, ranking.Region{Code: "YOU", Name: "You", Value: 35}, ranking.Descending)
}

func sampleBarChart() *chart.BarChart {
	bc := chart.NewBarChart([]float64{1, 2, 3}, nil, chart.DefaultLayout(), chart.TickModeLog)
	return &bc
}

func validDocument() *Document {
	doc := New("Heating Report", "us", "USD")
	doc.AddPage(Page{
		Title: "Overview",
		Sections: []Section{
			NewInputSummarySection("Your Inputs", Field{Label: "Heat demand", Value: "1000 kWh"}),
			NewChartSection("Costs", 2, ChartSlot{Title: "Monthly cost", Kind: ChartBar, Bar: sampleBarChart()}),
			NewRankingSection("Your State", "savings", ranking.Descending, sampleRanking()),
		},
	})
	return doc
}

func TestDocumentValidate(t *testing.T) {
	doc := validDocument()
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if doc.ID.String() == "" || doc.CreatedAt.IsZero() {
		t.Error("document missing identity")
	}
}

func TestDocumentValidateNoPages(t *testing.T) {
	doc := New("Empty", "us", "USD")
	if err := doc.Validate(); err == nil {
		t.Error("document without pages should fail validation")
	}
}

func TestValidateEmptyChartSlot(t *testing.T) {
	doc := New("Report", "us", "USD")
	doc.AddPage(Page{Sections: []Section{
		NewChartSection("Broken", 1, ChartSlot{Title: "Missing data", Kind: ChartLine}),
	}})
	err := doc.Validate()
	if err == nil {
		t.Fatal("declared chart slot without data should fail validation")
	}
	if !strings.Contains(err.Error(), "no data") {
		t.Errorf("error should name the empty slot: %v", err)
	}
}

func TestValidateChartSlotKindMismatch(t *testing.T) {
	doc := New("Report", "us", "USD")
	doc.AddPage(Page{Sections: []Section{
		NewChartSection("Broken", 1, ChartSlot{Title: "Wrong payload", Kind: ChartDual, Bar: sampleBarChart()}),
	}})
	if err := doc.Validate(); err == nil {
		t.Error("slot payload not matching its kind should fail validation")
	}
}

func TestValidateRankingTableUserRows(t *testing.T) {
	res := sampleRanking()

	// No user row at all.
	rows := res.Window(DefaultWindowTopN, DefaultWindowRadius)
	var withoutUser []ranking.Entry
	for _, row := range rows {
		if !row.Region.IsUser {
			withoutUser = append(withoutUser, row)
		}
	}

	doc := New("Report", "us", "USD")
	doc.AddPage(Page{Sections: []Section{{
		Kind: SectionRankingTable,
		RankingTable: &RankingTable{
			Metric: "savings",
			Rows:   withoutUser,
		},
	}}})
	if err := doc.Validate(); err == nil {
		t.Error("ranking table without a user row should fail validation")
	}

	// Duplicated user row.
	doubled := append([]ranking.Entry{}, rows...)
	doubled = append(doubled, res.User)
	doc = New("Report", "us", "USD")
	doc.AddPage(Page{Sections: []Section{{
		Kind: SectionRankingTable,
		RankingTable: &RankingTable{
			Metric: "savings",
			Rows:   doubled,
		},
	}}})
	if err := doc.Validate(); err == nil {
		t.Error("ranking table with two user rows should fail validation")
	}
}

func TestValidateSectionPayloadCount(t *testing.T) {
	doc := New("Report", "us", "USD")
	doc.AddPage(Page{Sections: []Section{{
		Kind:      SectionNarrative,
		Narrative: &Narrative{Text: "two payloads"},
		ChartGrid: &ChartGrid{Slots: []ChartSlot{{Kind: ChartBar, Bar: sampleBarChart()}}},
	}}})
	if err := doc.Validate(); err == nil {
		t.Error("section with two payloads should fail validation")
	}
}

func TestNewRankingSectionWindow(t *testing.T) {
	s := NewRankingSection("Ranking", "savings", ranking.Descending, sampleRanking())

	if s.Kind != SectionRankingTable || s.RankingTable == nil {
		t.Fatalf("unexpected section shape: %+v", s)
	}
	users := 0
	for _, row := range s.RankingTable.Rows {
		if row.Region.IsUser {
			users++
		}
	}
	if users != 1 {
		t.Errorf("window has %d user rows, want 1", users)
	}
	if s.RankingTable.Position == "" {
		t.Error("position description missing")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v        float64
		decimals int
		want     string
	}{
		{v: 3.14159, decimals: 2, want: "3.14"},
		{v: math.Inf(1), decimals: 2, want: "∞"},
		{v: math.Inf(-1), decimals: 2, want: "-∞"},
		{v: math.NaN(), decimals: 2, want: "n/a"},
		{v: 0, decimals: 0, want: "0"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v, tt.decimals); got != tt.want {
			t.Errorf("FormatValue(%v, %d) = %q, want %q", tt.v, tt.decimals, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(68.75); got != "68.8%" {
		t.Errorf("FormatPercent(68.75) = %q, want 68.8%%", got)
	}
	if got := FormatPercent(math.Inf(1)); got != "∞" {
		t.Errorf("FormatPercent(+Inf) = %q, want ∞", got)
	}
}
