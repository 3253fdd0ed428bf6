package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beaconnet/pkg/cache"
	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/model"
	"github.com/matzehuels/beaconnet/pkg/observability"
	"github.com/matzehuels/beaconnet/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results. Every Execute builds its own engine, so multiple
// goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long rendered artifacts stay cached.
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
		TTL:    cache.TTLRender,
	}
}

// Execute runs the complete load → highlight → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	// Stage 1: Load
	loadStart := time.Now()
	eng, err := r.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{
		Engine:       eng,
		ScenarioHash: opts.Scenario.Hash(),
	}
	result.Stats.Beacons = eng.Beacons.Count()
	result.Stats.Points = eng.Fibres.PointCount()
	result.Stats.Fibres = eng.Fibres.FibreCount()
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded scenario",
		"name", opts.Scenario.Name,
		"beacons", result.Stats.Beacons,
		"fibres", result.Stats.Fibres,
		"duration", result.Stats.LoadTime)

	// Stage 2: Highlight
	result.Steps = r.Highlight(ctx, eng, opts.Route)
	if opts.Route != nil {
		r.Logger.Info("computed highlight", "route", opts.Route.String(), "points", len(result.Steps))
	}

	// Stage 3: Render
	renderStart := time.Now()
	result.DOT = r.DOT(eng, opts, result.Steps)
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.ScenarioHash, result.DOT, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"view", opts.View,
		"formats", formatNames(opts.Formats),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load applies the scenario to a new engine that logs through opts.Logger.
func (r *Runner) Load(opts Options) (*engine.Engine, error) {
	r.applyLogger(&opts)
	return opts.Scenario.Engine(engine.WithLogger(opts.Logger), engine.WithStrict(opts.Strict))
}

// Highlight runs the requested route query. It returns nil when spec is nil
// or no route exists.
func (r *Runner) Highlight(ctx context.Context, eng *engine.Engine, spec *RouteSpec) []model.Coord {
	if spec == nil {
		return nil
	}
	switch spec.Algorithm {
	case RouteAny:
		return render.StepCoords(eng.RouteAny(ctx, spec.From, spec.To))
	case RouteLeast:
		return render.StepCoords(eng.RouteLeastPoints(ctx, spec.From, spec.To))
	case RouteFastest:
		return render.StepCoords(eng.RouteFastest(ctx, spec.From, spec.To))
	case RouteCycle:
		return eng.RouteCycle(ctx, spec.From)
	}
	return nil
}

// DOT generates the Graphviz source for the requested view.
func (r *Runner) DOT(eng *engine.Engine, opts Options, highlight []model.Coord) string {
	if opts.View == ViewBeams {
		return render.BeamDOT(eng.Beacons)
	}
	return render.NetworkDOT(eng.Fibres, render.NetworkOptions{Highlight: highlight, Scale: opts.Scale})
}

// RenderWithCacheInfo renders every requested format, serving each from the
// cache when possible. The boolean is true only if every format was cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scenarioHash, dot string, opts Options) (map[render.Format][]byte, bool, error) {
	keyOpts := func(f render.Format) cache.RenderKeyOpts {
		return cache.RenderKeyOpts{
			View:      opts.View,
			Format:    string(f),
			Highlight: fmt.Sprintf("%s|%g", opts.Route, opts.Scale),
		}
	}

	artifacts := make(map[render.Format][]byte, len(opts.Formats))
	var missing []render.Format
	for _, f := range opts.Formats {
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.RenderKey(scenarioHash, keyOpts(f)))
			if err != nil {
				r.Logger.Warn("cache read failed", "format", f, "error", err)
			}
			if err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				artifacts[f] = data
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, "render")
		missing = append(missing, f)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := render.RenderAll(ctx, opts.View, dot, opts.layout(), missing)
	if err != nil {
		return nil, false, err
	}
	for f, data := range rendered {
		artifacts[f] = data
		if err := r.Cache.Set(ctx, r.Keyer.RenderKey(scenarioHash, keyOpts(f)), data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", f, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
