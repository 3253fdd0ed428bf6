package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beaconnet/pkg/beacon"
	"github.com/matzehuels/beaconnet/pkg/fibre"
	"github.com/matzehuels/beaconnet/pkg/model"
	"github.com/matzehuels/beaconnet/pkg/observability"
)

// Engine owns one beacon store and one fibre network.
type Engine struct {
	Beacons *beacon.Store
	Fibres  *fibre.Network

	logger *log.Logger
	strict bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-query debug records.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStrict enables an invariant check after every mutation and query.
func WithStrict(strict bool) Option {
	return func(e *Engine) { e.strict = strict }
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		Beacons: beacon.New(),
		Fibres:  fibre.New(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *log.Logger { return e.logger }

// Strict reports whether strict mode is on.
func (e *Engine) Strict() bool { return e.strict }

// Check validates both structures and returns the first violation found.
func (e *Engine) Check() error {
	return errors.Join(e.Beacons.Validate(), e.Fibres.Validate())
}

func (e *Engine) assert(op string) {
	if !e.strict {
		return
	}
	if err := e.Check(); err != nil {
		panic(fmt.Sprintf("engine: after %s: %v", op, err))
	}
}

// =============================================================================
// Beacon mutations
// =============================================================================

// AddBeacon inserts a beacon. See [beacon.Store.Add].
func (e *Engine) AddBeacon(id, name string, xy model.Coord, color model.Color) bool {
	ok := e.Beacons.Add(id, name, xy, color)
	e.logger.Debug("add beacon", "id", id, "ok", ok)
	e.assert("add beacon")
	return ok
}

// RenameBeacon changes a beacon's name.
func (e *Engine) RenameBeacon(id, name string) bool {
	ok := e.Beacons.Rename(id, name)
	e.logger.Debug("rename beacon", "id", id, "name", name, "ok", ok)
	e.assert("rename beacon")
	return ok
}

// RecolorBeacon changes a beacon's color.
func (e *Engine) RecolorBeacon(id string, color model.Color) bool {
	ok := e.Beacons.Recolor(id, color)
	e.logger.Debug("recolor beacon", "id", id, "color", color, "ok", ok)
	e.assert("recolor beacon")
	return ok
}

// RemoveBeacon deletes a beacon and repairs its beams.
func (e *Engine) RemoveBeacon(id string) bool {
	ok := e.Beacons.Remove(id)
	e.logger.Debug("remove beacon", "id", id, "ok", ok)
	e.assert("remove beacon")
	return ok
}

// Wire points source's beam at target.
func (e *Engine) Wire(source, target string) bool {
	ok := e.Beacons.Wire(source, target)
	e.logger.Debug("wire beam", "from", source, "to", target, "ok", ok)
	e.assert("wire beam")
	return ok
}

// ClearBeacons removes every beacon.
func (e *Engine) ClearBeacons() {
	e.Beacons.Clear()
	e.assert("clear beacons")
}

// =============================================================================
// Fibre mutations
// =============================================================================

// AddFibre connects two cross-points.
func (e *Engine) AddFibre(a, b model.Coord, cost model.Cost) bool {
	ok := e.Fibres.AddFibre(a, b, cost)
	e.logger.Debug("add fibre", "a", a, "b", b, "cost", cost, "ok", ok)
	e.assert("add fibre")
	return ok
}

// RemoveFibre disconnects two cross-points.
func (e *Engine) RemoveFibre(a, b model.Coord) bool {
	ok := e.Fibres.RemoveFibre(a, b)
	e.logger.Debug("remove fibre", "a", a, "b", b, "ok", ok)
	e.assert("remove fibre")
	return ok
}

// ClearFibres removes every cross-point and fibre.
func (e *Engine) ClearFibres() {
	e.Fibres.Clear()
	e.assert("clear fibres")
}

// Trim reduces the network to a minimum spanning forest. See [fibre.Network.Trim].
func (e *Engine) Trim(ctx context.Context) model.Cost {
	before := e.Fibres.FibreCount()
	done := e.traced(ctx, "trim")
	cost := e.Fibres.Trim()
	done(0)
	e.logger.Debug("trim", "cost", cost, "removed", before-e.Fibres.FibreCount())
	e.assert("trim")
	return cost
}

// =============================================================================
// Route queries
// =============================================================================

// RouteAny returns some route between two cross-points.
func (e *Engine) RouteAny(ctx context.Context, from, to model.Coord) []fibre.Step {
	return e.route(ctx, "any", from, to, e.Fibres.RouteAny)
}

// RouteLeastPoints returns a route with the fewest fibres.
func (e *Engine) RouteLeastPoints(ctx context.Context, from, to model.Coord) []fibre.Step {
	return e.route(ctx, "least", from, to, e.Fibres.RouteLeastPoints)
}

// RouteFastest returns a route with the lowest total cost.
func (e *Engine) RouteFastest(ctx context.Context, from, to model.Coord) []fibre.Step {
	return e.route(ctx, "fastest", from, to, e.Fibres.RouteFastest)
}

// RouteCycle returns a closed loop reachable from start, or nil.
func (e *Engine) RouteCycle(ctx context.Context, start model.Coord) []model.Coord {
	done := e.traced(ctx, "cycle")
	t := time.Now()
	loop := e.Fibres.RouteCycle(start)
	done(len(loop))
	e.logger.Debug("route", "algorithm", "cycle", "from", start, "steps", len(loop), "duration", time.Since(t))
	e.assert("route cycle")
	return loop
}

func (e *Engine) route(ctx context.Context, algorithm string, from, to model.Coord, fn func(a, b model.Coord) []fibre.Step) []fibre.Step {
	done := e.traced(ctx, algorithm)
	t := time.Now()
	steps := fn(from, to)
	done(len(steps))
	e.logger.Debug("route",
		"algorithm", algorithm,
		"from", from,
		"to", to,
		"steps", len(steps),
		"duration", time.Since(t))
	e.assert("route " + algorithm)
	return steps
}

// traced reports a traversal start and returns a func that reports its end.
func (e *Engine) traced(ctx context.Context, algorithm string) func(steps int) {
	hooks := observability.Traversal()
	start := time.Now()
	hooks.OnTraversalStart(ctx, algorithm, e.Fibres.PointCount())
	return func(steps int) {
		hooks.OnTraversalComplete(ctx, algorithm, steps, time.Since(start))
	}
}
