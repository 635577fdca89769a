package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barchart/pkg/cache"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/errors"
	"github.com/matzehuels/barchart/pkg/measure"
	"github.com/matzehuels/barchart/pkg/observability"
)

// Key kinds reported to cache hooks.
const (
	kindRender = "render"
	kindPNG    = "png"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL caps how long artifacts are kept. Zero keeps the defaults,
	// cache.TTLRender for documents and cache.TTLArtifact for PNGs.
	TTL time.Duration
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching and a nil logger means log.Default().
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

// Execute runs layout and render for data.
func (r *Runner) Execute(ctx context.Context, data chart.Dataset, opts Options) (result *Result, err error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Export()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err) }()

	hash, err := requestHash(data, opts)
	if err != nil {
		return nil, err
	}
	result = &Result{RequestHash: hash}
	renderKey := r.Keyer.RenderKey(result.RequestHash, opts.RenderKeyOpts())

	if !opts.Refresh {
		if artifacts, ok := r.lookupAll(ctx, renderKey, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("served from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	layoutStart := time.Now()
	c, err := Layout(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	result.Chart = c
	result.Stats.Bars = len(c.Data())
	result.Stats.LayoutTime = time.Since(layoutStart)
	r.Logger.Info("laid out chart",
		"orientation", c.Orientation(),
		"bars", result.Stats.Bars,
		"viewbox", c.ViewBox(),
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := Render(c, opts)
	if err != nil {
		return nil, err
	}
	if opts.HasFormat(FormatPNG) {
		png, hit, err := r.renderPNG(ctx, c, opts)
		if err != nil {
			return nil, err
		}
		artifacts[FormatPNG] = png
		result.CacheInfo.PNGHit = hit
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	for format, b := range artifacts {
		r.store(ctx, kindRender, r.Keyer.ArtifactKey(renderKey, opts.ArtifactKeyOpts(format)), b, r.ttl(cache.TTLRender))
	}
	return result, nil
}

// RenderPNG rasterises an existing chart, reusing a cached PNG of an
// identical frame.
func (r *Runner) RenderPNG(ctx context.Context, c *chart.Chart, opts Options) ([]byte, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	png, _, err := r.renderPNG(ctx, c, opts)
	return png, err
}

func (r *Runner) renderPNG(ctx context.Context, c *chart.Chart, opts Options) ([]byte, bool, error) {
	svg, err := staticSVG(c)
	if err != nil {
		return nil, false, err
	}
	key := r.Keyer.ArtifactKey(cache.Hash(svg), opts.ArtifactKeyOpts(FormatPNG))

	if !opts.Refresh {
		if data, ok := r.lookup(ctx, kindPNG, key); ok {
			return data, true, nil
		}
	}
	png, err := RenderPNG(ctx, c, opts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, kindPNG, key, png, r.ttl(cache.TTLArtifact))
	return png, false, nil
}

func (r *Runner) lookupAll(ctx context.Context, renderKey string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.lookup(ctx, kindRender, r.Keyer.ArtifactKey(renderKey, opts.ArtifactKeyOpts(format)))
		if !ok {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) lookup(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 && r.TTL < def {
		return r.TTL
	}
	return def
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func requestHash(data chart.Dataset, opts Options) (string, error) {
	b, err := json.Marshal(requestKey{
		Data:      data,
		Title:     opts.Title,
		Color:     opts.Color,
		Margin:    opts.Margin,
		Bandwidth: opts.Bandwidth,
		Padding:   opts.Padding,
		EmbedFont: opts.EmbedFont,
		PageTitle: opts.PageTitle,
		Measurer:  measure.ID(opts.Measurer),
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash request")
	}
	return cache.Hash(b), nil
}
