// Package report assembles chart geometry, rankings and calculator results
// into a page-structured document model for the static renderer. It is purely
// compositional: no numbers are computed here, and validation checks only
// structural completeness.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/hashheat/hashheat/pkg/chart"
	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/ranking"
)

// Default window shape for compact ranking tables: the top five entries plus
// two neighbors on each side of the user.
const (
	DefaultWindowTopN   = 5
	DefaultWindowRadius = 2
)

// SectionKind discriminates the typed section payloads.
type SectionKind string

const (
	SectionInputSummary   SectionKind = "input-summary"
	SectionResultsSummary SectionKind = "results-summary"
	SectionChartGrid      SectionKind = "chart-grid"
	SectionRankingTable   SectionKind = "ranking-table"
	SectionNarrative      SectionKind = "narrative"
)

// Field is one labeled value in a summary section. Values are preformatted
// strings: formatting unbounded metrics (COPe at +Inf renders as "∞") is the
// assembler's job, never the ranking or geometry layers'.
type Field struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// InputSummary lists the user's inputs as entered.
type InputSummary struct {
	Fields []Field `json:"fields" bson:"fields"`
}

// ResultsSummary lists the headline calculator outputs.
type ResultsSummary struct {
	Fields []Field `json:"fields" bson:"fields"`
}

// ChartKind discriminates the chart payload inside a slot.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartDual ChartKind = "dual"
)

// ChartSlot is one declared chart position in a grid. Exactly the payload
// matching Kind must be set.
type ChartSlot struct {
	Title string    `json:"title" bson:"title"`
	Kind  ChartKind `json:"kind" bson:"kind"`

	Bar  *chart.BarChart  `json:"bar,omitempty" bson:"bar,omitempty"`
	Line *chart.LineChart `json:"line,omitempty" bson:"line,omitempty"`
	Dual *chart.DualChart `json:"dual,omitempty" bson:"dual,omitempty"`
}

// ChartGrid lays out one or more chart slots side by side.
type ChartGrid struct {
	Columns int         `json:"columns" bson:"columns"`
	Slots   []ChartSlot `json:"slots" bson:"slots"`
}

// RankingTable is the compact windowed ranking for one metric.
type RankingTable struct {
	Metric    string            `json:"metric" bson:"metric"`
	Direction ranking.Direction `json:"direction" bson:"direction"`
	Position  string            `json:"position" bson:"position"`
	Rows      []ranking.Entry   `json:"rows" bson:"rows"`
}

// Narrative is a block of explanatory prose.
type Narrative struct {
	Text string `json:"text" bson:"text"`
}

// Section is a tagged union: Kind names the payload, and exactly that payload
// pointer is non-nil.
type Section struct {
	Kind  SectionKind `json:"kind" bson:"kind"`
	Title string      `json:"title,omitempty" bson:"title,omitempty"`

	InputSummary   *InputSummary   `json:"input_summary,omitempty" bson:"input_summary,omitempty"`
	ResultsSummary *ResultsSummary `json:"results_summary,omitempty" bson:"results_summary,omitempty"`
	ChartGrid      *ChartGrid      `json:"chart_grid,omitempty" bson:"chart_grid,omitempty"`
	RankingTable   *RankingTable   `json:"ranking_table,omitempty" bson:"ranking_table,omitempty"`
	Narrative      *Narrative      `json:"narrative,omitempty" bson:"narrative,omitempty"`
}

// Page is an ordered list of sections.
type Page struct {
	Title    string    `json:"title,omitempty" bson:"title,omitempty"`
	Sections []Section `json:"sections" bson:"sections"`
}

// Document is a complete multi-page report.
type Document struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Title    string `json:"title" bson:"title"`
	Country  string `json:"country" bson:"country"`
	Currency string `json:"currency" bson:"currency"`

	Pages []Page `json:"pages" bson:"pages"`
}

// New creates an empty document with a fresh ID and timestamp.
func New(title, country, currency string) *Document {
	return &Document{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		Title:     title,
		Country:   country,
		Currency:  currency,
	}
}

// AddPage appends a page and returns the document for chaining.
func (d *Document) AddPage(p Page) *Document {
	d.Pages = append(d.Pages, p)
	return d
}

// Validate checks structural completeness: at least one page, every section
// carries exactly the payload its kind declares, every chart slot has data,
// and every ranking table has exactly one user-flagged row.
func (d *Document) Validate() error {
	if len(d.Pages) == 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "document %q has no pages", d.Title)
	}
	for pi, page := range d.Pages {
		if len(page.Sections) == 0 {
			return errors.New(errors.ErrCodeInvalidDocument, "page %d has no sections", pi+1)
		}
		for si, s := range page.Sections {
			if err := s.validate(); err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidDocument, "page %d section %d", pi+1, si+1)
			}
		}
	}
	return nil
}

func (s Section) validate() error {
	payloads := 0
	for _, set := range []bool{
		s.InputSummary != nil,
		s.ResultsSummary != nil,
		s.ChartGrid != nil,
		s.RankingTable != nil,
		s.Narrative != nil,
	} {
		if set {
			payloads++
		}
	}
	if payloads != 1 {
		return errors.New(errors.ErrCodeInvalidDocument, "section %s carries %d payloads, want exactly 1", s.Kind, payloads)
	}

	switch s.Kind {
	case SectionInputSummary:
		if s.InputSummary == nil {
			return kindMismatch(s.Kind)
		}
	case SectionResultsSummary:
		if s.ResultsSummary == nil {
			return kindMismatch(s.Kind)
		}
	case SectionChartGrid:
		if s.ChartGrid == nil {
			return kindMismatch(s.Kind)
		}
		return s.ChartGrid.validate()
	case SectionRankingTable:
		if s.RankingTable == nil {
			return kindMismatch(s.Kind)
		}
		return s.RankingTable.validate()
	case SectionNarrative:
		if s.Narrative == nil {
			return kindMismatch(s.Kind)
		}
	default:
		return errors.New(errors.ErrCodeInvalidDocument, "unknown section kind %q", s.Kind)
	}
	return nil
}

func kindMismatch(k SectionKind) error {
	return errors.New(errors.ErrCodeInvalidDocument, "section kind %s does not match its payload", k)
}

func (g *ChartGrid) validate() error {
	if len(g.Slots) == 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "chart grid has no slots")
	}
	for i, slot := range g.Slots {
		var ok bool
		switch slot.Kind {
		case ChartBar:
			ok = slot.Bar != nil
		case ChartLine:
			ok = slot.Line != nil
		case ChartDual:
			ok = slot.Dual != nil
		default:
			return errors.New(errors.ErrCodeInvalidDocument, "chart slot %d: unknown kind %q", i+1, slot.Kind)
		}
		if !ok {
			return errors.New(errors.ErrCodeInvalidDocument, "chart slot %d (%s) declared but has no data", i+1, slot.Kind)
		}
	}
	return nil
}

func (t *RankingTable) validate() error {
	users := 0
	for _, row := range t.Rows {
		if row.Region.IsUser {
			users++
		}
	}
	if users != 1 {
		return errors.New(errors.ErrCodeInvalidDocument, "ranking table %q has %d user rows, want exactly 1", t.Metric, users)
	}
	return nil
}
