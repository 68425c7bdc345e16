package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/exprtree/pkg/cache"
	errs "github.com/matzehuels/exprtree/pkg/errors"
	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of cached layouts and artifacts.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultCacheTTL,
	}
}

// Execute runs the complete compile → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Compile
	compileStart := time.Now()
	t, err := r.Compile(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Tree = t
	result.TreeHash = TreeHash(t)
	result.Stats.CompileTime = time.Since(compileStart)
	result.Stats.NodeCount = t.Count()
	result.Stats.EdgeCount = t.Count() - 1
	result.Stats.MaxDepth = t.MaxDepth()

	r.Logger.Info("compiled expression",
		"nodes", t.Count(),
		"depth", t.MaxDepth(),
		"result", t.ResultString(),
		"duration", result.Stats.CompileTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"cell", fmt.Sprintf("%dx%d", l.CellWidth, l.CellHeight),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Compile builds the tree for opts.Expression. Parse failures come back as
// INVALID_EXPRESSION errors that still wrap the *expr.ParseError.
func (r *Runner) Compile(ctx context.Context, opts Options) (*expr.Tree, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompile(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnCompileStart(ctx, opts.Expression)
	start := time.Now()

	var copts []expr.Option
	if opts.Strict {
		copts = append(copts, expr.Strict())
	}
	t, err := expr.Compile(opts.Expression, copts...)
	if err != nil {
		hooks.OnCompileComplete(ctx, 0, 0, time.Since(start), err)
		return nil, errs.FromParse(err)
	}
	hooks.OnCompileComplete(ctx, t.Count(), len(t.Diagnostics), time.Since(start), nil)

	for _, d := range t.Diagnostics {
		opts.Logger.Debug("recovered from parse problem", "kind", d.Kind.Code(), "pos", d.Pos, "msg", d.Message)
	}
	return t, nil
}

// GraphWithCacheInfo compiles the expression and returns its serialized
// tree, keyed in the cache by expression and strictness.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompile(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.CompileKey(opts.Expression, opts.Strict)
	if data, ok := r.get(ctx, cache.KeyTypeCompile, key); ok {
		return data, true, nil
	}

	t, err := r.Compile(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	data, err := graph.MarshalGraph(graph.FromTree(t))
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeInternal, err, "serialize tree")
	}
	r.set(ctx, cache.KeyTypeCompile, key, data)
	return data, false, nil
}

// LayoutWithCacheInfo places t with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, t *expr.Tree, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(TreeHash(t), opts.LayoutKeyOpts())
	if data, ok := r.get(ctx, cache.KeyTypeLayout, cacheKey); ok {
		cached, err := graph.UnmarshalLayout(data)
		if err == nil {
			return cached, true, nil
		}
		opts.Logger.Warn("discarding unreadable cached layout", "err", err)
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, t.Count())
	start := time.Now()
	l := GenerateLayout(t, opts)
	hooks.OnLayoutComplete(ctx, time.Since(start), nil)

	if data, err := graph.MarshalLayout(l); err == nil {
		r.set(ctx, cache.KeyTypeLayout, cacheKey, data)
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Layout(ctx context.Context, t *expr.Tree, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, t, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. t may be nil when rendering a layout read from a file.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *expr.Tree, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, ok := r.get(ctx, cache.KeyTypeArtifact, key); ok {
			artifacts[format] = data
		} else {
			missing = append(missing, format)
		}
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, t, l, renderOpts)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.set(ctx, cache.KeyTypeArtifact, key, data)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, t *expr.Tree, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, t, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// TreeHash returns the content hash of t's serialized form.
func TreeHash(t *expr.Tree) string {
	data, err := graph.MarshalGraph(graph.FromTree(t))
	if err != nil {
		return cache.Hash([]byte(t.Source))
	}
	return cache.Hash(data)
}

// get reads from the cache. Backend errors count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
