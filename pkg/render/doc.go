// Package render draws the fibre network and the lightbeam forest with
// Graphviz.
//
// # Overview
//
// Rendering happens in two steps. First a DOT document is generated from the
// in-memory structures:
//
//   - [NetworkDOT]: an undirected graph with one node per cross-point, pinned
//     at its coordinate, and one edge per fibre labelled with its cost.
//     A route or loop can be highlighted.
//   - [BeamDOT]: a directed graph with one node per beacon, filled with the
//     beacon's color, and one edge per lightbeam from source to target.
//
// Then [Render] turns the DOT text into the requested [Format] using the
// in-process Graphviz build from [github.com/goccy/go-graphviz]:
//
//	dot := render.NetworkDOT(eng.Fibres, render.NetworkOptions{Highlight: route})
//	svg, err := render.Render(ctx, dot, render.LayoutNeato, render.FormatSVG)
//
// [RenderAll] renders several formats in one call. DOT generation reads the
// engine; rendering works only on the DOT string, so the engine is free as
// soon as the DOT has been built.
//
// # Concurrency
//
// go-graphviz is not safe for concurrent use, so every Graphviz layout in the
// process runs under one package-level lock. Render and RenderAll may be
// called from any number of goroutines; their Graphviz work is queued.
package render
