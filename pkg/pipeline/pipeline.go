// Package pipeline runs the scenario → engine → render pipeline with caching.
//
// This package is used by the CLI's render, route and cycle commands. By
// centralizing the steps here every entry point loads scenarios, computes
// highlights and consults the render cache the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: apply a scenario to a fresh engine
//  2. Highlight: optionally run a route or loop query to mark on the drawing
//  3. Render: generate DOT and turn it into SVG, PNG or DOT bytes
//
// Only stage 3 is cached. Its key combines the scenario hash, the view, the
// format and the highlighted walk, so editing the scenario or asking for a
// different route never returns a stale drawing.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Scenario: sc,
//	    View:     pipeline.ViewNetwork,
//	    Formats:  []render.Format{render.FormatSVG},
//	    Route:    &pipeline.RouteSpec{Algorithm: pipeline.RouteFastest, From: a, To: b},
//	})
//	svg := result.Artifacts[render.FormatSVG]
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/model"
	"github.com/matzehuels/beaconnet/pkg/render"
	"github.com/matzehuels/beaconnet/pkg/scenario"
)

// Views.
const (
	ViewNetwork = "network"
	ViewBeams   = "beams"
)

// Route algorithms for [RouteSpec].
const (
	RouteAny     = "any"
	RouteLeast   = "least"
	RouteFastest = "fastest"
	RouteCycle   = "cycle"
)

// DefaultView is the view rendered when Options.View is empty.
const DefaultView = ViewNetwork

// ValidViews is the set of supported views.
var ValidViews = map[string]bool{
	ViewNetwork: true,
	ViewBeams:   true,
}

// ValidRouteAlgorithms is the set of supported route algorithms.
var ValidRouteAlgorithms = map[string]bool{
	RouteAny:     true,
	RouteLeast:   true,
	RouteFastest: true,
	RouteCycle:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// RouteSpec selects a route or loop to highlight. To is ignored for
// RouteCycle.
type RouteSpec struct {
	Algorithm string
	From      model.Coord
	To        model.Coord
}

// String formats the spec for cache keys and log lines.
func (r *RouteSpec) String() string {
	if r == nil {
		return ""
	}
	if r.Algorithm == RouteCycle {
		return fmt.Sprintf("cycle %s", r.From)
	}
	return fmt.Sprintf("%s %s->%s", r.Algorithm, r.From, r.To)
}

// Options contains all configuration for a pipeline run.
type Options struct {
	Scenario *scenario.Scenario
	View     string
	Formats  []render.Format
	Route    *RouteSpec
	Scale    float64
	Refresh  bool // skip cache reads
	Strict   bool // run the engine in strict mode

	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Engine holds the loaded scenario.
	Engine *engine.Engine

	// ScenarioHash is the content hash used for cache keys.
	ScenarioHash string

	// Steps is the highlighted route, if a route was requested.
	Steps []model.Coord

	// DOT is the generated Graphviz source.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[render.Format][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Beacons    int
	Points     int
	Fibres     int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errors.New(errors.ErrCodeInvalidView, "invalid view: %q (must be one of: network, beams)", view)
	}
	return nil
}

// ValidateRoute checks a route spec. A nil spec is valid.
func ValidateRoute(r *RouteSpec) error {
	if r == nil {
		return nil
	}
	if !ValidRouteAlgorithms[r.Algorithm] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid route algorithm: %q (must be one of: any, least, fastest, cycle)", r.Algorithm)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Scenario == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no scenario given")
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{render.FormatSVG}
	}
	if err := ValidateRoute(o.Route); err != nil {
		return err
	}
	if o.Route != nil && o.View != ViewNetwork {
		return errors.New(errors.ErrCodeInvalidInput, "routes can only be highlighted on the network view")
	}
	return nil
}

// layout returns the Graphviz layout engine for the view.
func (o *Options) layout() render.Layout {
	if o.View == ViewBeams {
		return render.LayoutDot
	}
	return render.LayoutNeato
}

// formatNames joins formats for log lines.
func formatNames(formats []render.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ",")
}
