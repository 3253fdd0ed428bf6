// Package beacon provides an in-memory registry of beacons: named, colored
// points that can be wired into a forest of lightbeams.
//
// # Overview
//
// A [Store] owns every beacon record together with two order indexes, one by
// name and one by brightness (3R + 6G + B). Both indexes are red-black trees
// keyed by the indexed field plus the beacon ID, so duplicate names and equal
// brightness values coexist and iterate deterministically.
//
//	s := beacon.New()
//	s.Add("A", "Alpha", model.Coord{X: 0, Y: 0}, model.Color{R: 255})
//	s.Add("B", "Beta", model.Coord{X: 1, Y: 1}, model.Color{G: 255})
//	s.Alphabetical()   // [A B]
//	s.MinBrightness()  // "A"
//
// # Lightbeams
//
// Each beacon sends light to at most one target and can receive light from any
// number of sources. [Store.Wire] enforces the out-degree limit and refuses
// wires that would close a loop, so the beams always form a forest. Queries
// walk the forest in either direction:
//
//   - [Store.ChainToRoot]: follow targets until a beacon with no target
//   - [Store.Sources]: direct incoming beacons
//   - [Store.LongestIncomingChain]: longest path of sources ending at a beacon
//   - [Store.AggregateColor]: per-level average of a beacon and its sources
//
// # Missing Data
//
// Queries return the sentinels from package model ([model.NoID],
// [model.NoName], [model.NoCoord], [model.NoColor]) or an empty slice rather
// than errors. Mutations report success with a bool.
//
// # Concurrency
//
// Store is not safe for concurrent use.
package beacon
