// Package fibre provides a weighted undirected graph of cross-points joined by
// fibres, with depth-first, breadth-first and Dijkstra route queries.
//
// # Overview
//
// A cross-point is identified by its coordinate. [Network.AddFibre] creates
// missing cross-points on demand and [Network.RemoveFibre] deletes a
// cross-point once its last fibre is gone, so the network never holds
// isolated points.
//
//	n := fibre.New()
//	n.AddFibre(model.Coord{X: 0, Y: 0}, model.Coord{X: 1, Y: 1}, 5)
//	n.AddFibre(model.Coord{X: 1, Y: 1}, model.Coord{X: 2, Y: 2}, 3)
//	n.AddFibre(model.Coord{X: 0, Y: 0}, model.Coord{X: 2, Y: 2}, 10)
//	n.RouteFastest(model.Coord{X: 0, Y: 0}, model.Coord{X: 2, Y: 2})
//	// [{(0,0) 0} {(1,1) 5} {(2,2) 8}]
//
// # Storage
//
// Cross-points live in an arena addressed by integer slot. Adjacency is a map
// from neighbour slot to fibre cost, mirrored on both endpoints. A separate
// ordered catalog holds each fibre once as a (lesser, greater) coordinate pair
// for listing.
//
// # Traversals
//
// Every route query starts by resetting a traversal table that holds, per
// slot, a white/gray/black colour, a predecessor slot, the accumulated route
// cost and the Dijkstra distance. The algorithm fills the table and the route
// is rebuilt by following predecessors back from the target:
//
//   - [Network.RouteAny]: iterative depth-first search, stops at the target
//   - [Network.RouteLeastPoints]: breadth-first search, fewest fibres
//   - [Network.RouteFastest]: Dijkstra with a binary heap, lowest total cost
//   - [Network.RouteCycle]: depth-first search for a back edge
//
// Neighbours are always visited in ascending coordinate order, which makes
// every result deterministic. Costs are expected to be non-negative.
//
// # Trimming
//
// [Network.SpanningCost] and [Network.Trim] compute a minimum spanning forest
// with Kruskal's algorithm. Trim also removes every fibre outside the forest.
//
// # Concurrency
//
// Network is not safe for concurrent use. Route queries mutate the shared
// traversal table, so even read-only callers must not overlap.
package fibre
