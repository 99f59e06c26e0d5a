// Package pipeline provides the core compute → geometry → render pipeline.
//
// The CLI, HTTP API and TUI all execute through the same Runner, so a chart
// produced interactively and a chart exported in a report are built from
// byte-identical geometry. Each stage is cached independently under a
// content-hash key.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Calculator: pipeline.CalculatorHeating,
//	    Country:    "us",
//	    Region:     "WA",
//	    Heating:    &metrics.HeatingInputs{...},
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hashheat/hashheat/pkg/cache"
	"github.com/hashheat/hashheat/pkg/chart"
	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/metrics"
	"github.com/hashheat/hashheat/pkg/ranking"
)

// Calculator names.
const (
	CalculatorHeating = "heating"
	CalculatorSolar   = "solar"
)

// Defaults shared by CLI, API and TUI.
const (
	DefaultCountry  = "us"
	DefaultMonths   = 12
	DefaultTickMode = "log"

	// DefaultDecline is the assumed monthly hashprice decline for revenue
	// projections: difficulty growth slowly erodes revenue per TH.
	DefaultDecline = 0.02
)

// Chart type constants.
const (
	ChartTypeBar  = "bar"
	ChartTypeLine = "line"
	ChartTypeDual = "dual"
)

// DefaultChartType is the composite cost+revenue view.
const DefaultChartType = ChartTypeDual

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidChartTypes is the set of supported chart types.
var ValidChartTypes = map[string]bool{
	ChartTypeBar:  true,
	ChartTypeLine: true,
	ChartTypeDual: true,
}

// Options contains all configuration for one pipeline run. The struct
// serializes to JSON for API requests and for compute cache keys.
type Options struct {
	// Compute options
	Calculator string                 `json:"calculator"`
	Country    string                 `json:"country,omitempty"`
	Region     string                 `json:"region,omitempty"`
	Metric     string                 `json:"metric,omitempty"`
	Direction  string                 `json:"direction,omitempty"`
	Heating    *metrics.HeatingInputs `json:"heating,omitempty"`
	Solar      *metrics.SolarInputs   `json:"solar,omitempty"`
	Months     int                    `json:"months,omitempty"`
	Decline    float64                `json:"decline,omitempty"`
	Refresh    bool                   `json:"refresh,omitempty"`

	// Geometry options
	ChartType string  `json:"chart_type,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	TickMode  string  `json:"tick_mode,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Title        string   `json:"title,omitempty"`
	RankingPanel bool     `json:"ranking_panel,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Compute is the calculator output with its ranking.
	Compute *ComputeResult

	// ComputeHash is the content hash of the compute result, used as the
	// geometry cache key component and returned to API clients.
	ComputeHash string

	// Geometry holds the built chart.
	Geometry *Geometry

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution timings.
type Stats struct {
	ComputeTime  time.Duration
	GeometryTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	ComputeHit  bool
	GeometryHit bool
	RenderHit   bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be svg or json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateChartType checks that a chart type is valid.
func ValidateChartType(chartType string) error {
	if !ValidChartTypes[chartType] {
		return errors.New(errors.ErrCodeInvalidChartType, "invalid chart type: %q (must be bar, line or dual)", chartType)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	o.SetGeometryDefaults()
	if err := o.ValidateForGeometry(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompute checks required fields for the compute stage and
// applies compute defaults.
func (o *Options) ValidateForCompute() error {
	switch o.Calculator {
	case CalculatorHeating:
		if o.Heating == nil {
			return errors.New(errors.ErrCodeInvalidInput, "heating inputs are required for the heating calculator")
		}
		if err := o.Heating.Validate(); err != nil {
			return err
		}
	case CalculatorSolar:
		if o.Solar == nil {
			return errors.New(errors.ErrCodeInvalidInput, "solar inputs are required for the solar calculator")
		}
		if err := o.Solar.Validate(); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "calculator must be heating or solar, got %q", o.Calculator)
	}

	if o.Country == "" {
		o.Country = DefaultCountry
	}
	if o.Metric == "" {
		if o.Calculator == CalculatorSolar {
			o.Metric = string(metrics.MetricSubsidy)
		} else {
			o.Metric = string(metrics.MetricSavings)
		}
	}
	if _, err := metrics.ParseMetric(o.Metric); err != nil {
		return err
	}
	if _, err := ranking.ParseDirection(o.Direction); err != nil {
		return err
	}
	if o.Months == 0 {
		o.Months = DefaultMonths
	}
	if o.Months < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "months must be at least 1, got %d", o.Months)
	}
	if o.Decline == 0 {
		o.Decline = DefaultDecline
	}
	if o.Decline < 0 || o.Decline >= 1 {
		return errors.New(errors.ErrCodeInvalidInput, "decline must be in [0, 1), got %v", o.Decline)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetGeometryDefaults applies geometry-stage defaults.
func (o *Options) SetGeometryDefaults() {
	if o.ChartType == "" {
		o.ChartType = DefaultChartType
	}
	if o.Width == 0 {
		o.Width = chart.DefaultLayout().Width
	}
	if o.Height == 0 {
		o.Height = chart.DefaultLayout().Height
	}
	if o.TickMode == "" {
		o.TickMode = DefaultTickMode
	}
}

// ValidateForGeometry validates geometry options.
func (o *Options) ValidateForGeometry() error {
	o.SetGeometryDefaults()
	if err := ValidateChartType(o.ChartType); err != nil {
		return err
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "chart box %vx%v must be positive", o.Width, o.Height)
	}
	if _, err := parseTickMode(o.TickMode); err != nil {
		return err
	}
	return nil
}

// SetRenderDefaults applies render-stage defaults.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// Layout builds the chart layout for these options.
func (o *Options) Layout() chart.Layout {
	l := chart.DefaultLayout()
	if o.Width > 0 {
		l.Width = o.Width
	}
	if o.Height > 0 {
		l.Height = o.Height
	}
	return l
}

// GeometryKeyOpts returns cache key options for the geometry stage.
func (o *Options) GeometryKeyOpts() cache.GeometryKeyOpts {
	return cache.GeometryKeyOpts{
		ChartType: o.ChartType,
		Width:     o.Width,
		Height:    o.Height,
		TickMode:  o.TickMode,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	style := ""
	if o.RankingPanel {
		style = "ranking-panel"
	}
	return cache.ArtifactKeyOpts{Format: format, Style: style}
}

func parseTickMode(s string) (chart.TickMode, error) {
	switch s {
	case "log", "":
		return chart.TickModeLog, nil
	case "step100":
		return chart.TickModeStep100, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidLayout, "invalid tick mode: %q (must be log or step100)", s)
}
