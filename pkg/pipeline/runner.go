package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hashheat/hashheat/pkg/cache"
	"github.com/hashheat/hashheat/pkg/errors"
	"github.com/hashheat/hashheat/pkg/observability"
	"github.com/hashheat/hashheat/pkg/ranking"
	"github.com/hashheat/hashheat/pkg/render"
	"github.com/hashheat/hashheat/pkg/report"
)

// Runner executes the pipeline with per-stage caching. It is stateless apart
// from the cache and logger, so one Runner serves concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer gets the default keyer; a nil
// cache disables caching; a nil logger gets the package default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete compute → geometry → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	computeStart := time.Now()
	comp, computeHit, err := r.ComputeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Compute = comp
	result.Stats.ComputeTime = time.Since(computeStart)
	result.CacheInfo.ComputeHit = computeHit

	if data, err := json.Marshal(comp); err == nil {
		result.ComputeHash = cache.Hash(data)
	}

	r.Logger.Info("computed metrics",
		"calculator", opts.Calculator,
		"metric", comp.Metric,
		"rank", comp.Ranking.User.Rank,
		"duration", result.Stats.ComputeTime)

	geometryStart := time.Now()
	geo, geometryHit, err := r.GeometryWithCacheInfo(ctx, comp, result.ComputeHash, opts)
	if err != nil {
		return nil, err
	}
	result.Geometry = geo
	result.Stats.GeometryTime = time.Since(geometryStart)
	result.CacheInfo.GeometryHit = geometryHit

	r.Logger.Info("built geometry",
		"chart", opts.ChartType,
		"duration", result.Stats.GeometryTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, comp, geo, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeWithCacheInfo runs the compute stage with caching and reports
// whether the result came from the cache.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, opts Options) (*ComputeResult, bool, error) {
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.ComputeKey(opts.Calculator, opts.computeKeyInputs())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var comp ComputeResult
			if err := json.Unmarshal(data, &comp); err == nil {
				observability.Cache().OnCacheHit(ctx, "compute")
				return &comp, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "compute")

	start := time.Now()
	observability.Pipeline().OnComputeStart(ctx, opts.Calculator, opts.Country)
	comp, err := Compute(opts)
	if err != nil {
		observability.Pipeline().OnComputeComplete(ctx, opts.Calculator, opts.Country, 0, time.Since(start), err)
		return nil, false, err
	}
	observability.Pipeline().OnComputeComplete(ctx, opts.Calculator, opts.Country, comp.Ranking.Position.Size, time.Since(start), nil)

	if data, err := json.Marshal(comp); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.ComputeTTL)
		observability.Cache().OnCacheSet(ctx, "compute", len(data))
	}

	return comp, false, nil
}

// GeometryWithCacheInfo runs the geometry stage with caching.
func (r *Runner) GeometryWithCacheInfo(ctx context.Context, comp *ComputeResult, computeHash string, opts Options) (*Geometry, bool, error) {
	if err := opts.ValidateForGeometry(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.GeometryKey(computeHash, opts.GeometryKeyOpts())

	if !opts.Refresh && computeHash != "" {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var geo Geometry
			if err := json.Unmarshal(data, &geo); err == nil {
				observability.Cache().OnCacheHit(ctx, "geometry")
				return &geo, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "geometry")

	start := time.Now()
	observability.Pipeline().OnGeometryStart(ctx, opts.ChartType)
	geo, err := BuildGeometry(comp, opts)
	observability.Pipeline().OnGeometryComplete(ctx, opts.ChartType, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if computeHash != "" {
		if data, err := json.Marshal(geo); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.GeometryTTL)
			observability.Cache().OnCacheSet(ctx, "geometry", len(data))
		}
	}

	return geo, false, nil
}

// RenderWithCacheInfo renders all requested formats with per-format caching.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, comp *ComputeResult, geo *Geometry, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	geoData, err := json.Marshal(geo)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeInternal, "hashing geometry for cache key")
	}
	geometryHash := cache.Hash(geoData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(geometryHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := renderFormats(comp, geo, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(geometryHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// computeKeyInputs narrows the options to the fields that actually change
// compute output, so render-only tweaks never miss the compute cache.
func (o *Options) computeKeyInputs() any {
	return struct {
		Country   string  `json:"country"`
		Region    string  `json:"region"`
		Metric    string  `json:"metric"`
		Direction string  `json:"direction"`
		Heating   any     `json:"heating,omitempty"`
		Solar     any     `json:"solar,omitempty"`
		Months    int     `json:"months"`
		Decline   float64 `json:"decline"`
	}{
		Country:   o.Country,
		Region:    o.Region,
		Metric:    o.Metric,
		Direction: o.Direction,
		Heating:   o.Heating,
		Solar:     o.Solar,
		Months:    o.Months,
		Decline:   o.Decline,
	}
}

// jsonArtifact is the machine-readable export: geometry plus the windowed
// ranking and headline metric.
type jsonArtifact struct {
	Calculator  string          `json:"calculator"`
	Metric      string          `json:"metric"`
	MetricValue float64         `json:"metric_value"`
	Currency    string          `json:"currency"`
	Geometry    *Geometry       `json:"geometry"`
	Position    string          `json:"position"`
	Window      []ranking.Entry `json:"window"`
}

func renderFormats(comp *ComputeResult, geo *Geometry, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = renderSVG(comp, geo, opts)
		case FormatJSON:
			data, err := render.JSON(jsonArtifact{
				Calculator:  comp.Calculator,
				Metric:      string(comp.Metric),
				MetricValue: comp.MetricValue,
				Currency:    comp.Currency,
				Geometry:    geo,
				Position:    comp.Ranking.Position.Describe(),
				Window:      comp.Ranking.Window(report.DefaultWindowTopN, report.DefaultWindowRadius),
			})
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
		}
	}
	return artifacts, nil
}

func renderSVG(comp *ComputeResult, geo *Geometry, opts Options) []byte {
	svgOpts := []render.SVGOption{
		render.WithTickFormatter(func(v float64) string { return report.FormatValue(v, 0) }),
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	if opts.RankingPanel {
		svgOpts = append(svgOpts, render.WithRankingPanel(
			comp.Ranking.Window(report.DefaultWindowTopN, report.DefaultWindowRadius),
			comp.Ranking.Position.Describe()))
	}

	switch geo.ChartType {
	case ChartTypeBar:
		return render.BarSVG(*geo.Bar, svgOpts...)
	case ChartTypeLine:
		return render.LineSVG(*geo.Line, svgOpts...)
	default:
		return render.DualSVG(*geo.Dual, svgOpts...)
	}
}
