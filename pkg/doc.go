// Package pkg provides the core libraries for beaconnet.
//
// # Overview
//
// Beaconnet models two independent structures on a 2D integer grid: beacons
// that send their light to one another, forming lightbeam trees, and optical
// fibres with costs that join cross-points into an undirected network. The
// pkg directory is organized into these areas:
//
//  1. [model] - Coordinates, colours, costs and the not-found sentinels
//  2. [beacon] - The beacon store, its order indexes and the lightbeam trees
//  3. [fibre] - The fibre network, route searches and trimming
//  4. [engine] - Both structures behind one logged, observable facade
//  5. [script] - The line-oriented command language
//  6. [scenario] - TOML scenario files
//  7. [render], [cache], [pipeline] - Graphviz drawings and their cache
//
// # Architecture
//
// The typical data flow through beaconnet:
//
//	Scenario file / command script
//	         ↓
//	    [scenario] or [script] (parse input)
//	         ↓
//	    [engine] (beacon store + fibre network)
//	         ↓
//	    [pipeline] (highlight a route, consult the cache)
//	         ↓
//	    [render] (DOT → SVG/PNG via Graphviz)
//
// # Quick Start
//
// Build a small network and query it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/beaconnet/pkg/engine"
//	    "github.com/matzehuels/beaconnet/pkg/model"
//	)
//
//	eng := engine.New()
//	eng.AddFibre(model.Coord{X: 0, Y: 0}, model.Coord{X: 1, Y: 1}, 5)
//	eng.AddFibre(model.Coord{X: 1, Y: 1}, model.Coord{X: 2, Y: 2}, 3)
//	steps := eng.RouteFastest(context.Background(),
//	    model.Coord{X: 0, Y: 0}, model.Coord{X: 2, Y: 2})
//	// steps: (0,0) 0, (1,1) 5, (2,2) 8
//
// Or render a scenario through the cached pipeline:
//
//	sc, _ := scenario.Load("city.toml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{Scenario: sc})
//	svg := result.Artifacts[render.FormatSVG]
//
// # Errors
//
// Core queries report absence with booleans and the sentinels in [model].
// Everything that reads input or talks to a backend returns structured errors
// from [errors], which carry a machine-readable code.
package pkg
