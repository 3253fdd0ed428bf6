package fibre

import "github.com/matzehuels/beaconnet/pkg/model"

// Step is one cross-point on a route with the cost accumulated from the
// route's start up to and including the fibre that reached it.
type Step struct {
	Coord model.Coord
	Cost  model.Cost
}

// RouteAny returns some route from one cross-point to another, found by
// depth-first search. The result is empty if either point is missing or no
// route exists. A route from a point to itself is the single step (from, 0).
func (n *Network) RouteAny(from, to model.Coord) []Step {
	i, j, ok := n.endpoints(from, to)
	if !ok {
		return nil
	}
	if i == j {
		return []Step{{Coord: from}}
	}
	if found, _, _ := n.dfs(i, j); !found {
		return nil
	}
	return n.route(i, j)
}

// RouteLeastPoints returns a route with the fewest fibres, found by
// breadth-first search. Step costs are summed along that route, so a cheaper
// route with more fibres may exist.
func (n *Network) RouteLeastPoints(from, to model.Coord) []Step {
	i, j, ok := n.endpoints(from, to)
	if !ok {
		return nil
	}
	n.bfs(i)
	return n.route(i, j)
}

// RouteFastest returns a route with the lowest total cost, found by
// Dijkstra's algorithm. Fibre costs must be non-negative.
func (n *Network) RouteFastest(from, to model.Coord) []Step {
	i, j, ok := n.endpoints(from, to)
	if !ok {
		return nil
	}
	n.dijkstra(i)
	return n.route(i, j)
}

// RouteCycle looks for a loop in the part of the network reachable from
// start. The returned loop begins and ends at the same cross-point. The result
// is empty if start is missing or its component is a tree.
func (n *Network) RouteCycle(start model.Coord) []model.Coord {
	i, ok := n.index[start]
	if !ok {
		return nil
	}
	found, u, w := n.dfs(i, noPred)
	if !found {
		return nil
	}
	v := n.state.visits
	loop := []model.Coord{n.points[w].coord}
	for cur := u; cur != noPred; cur = v[cur].pred {
		loop = append(loop, n.points[cur].coord)
		if cur == w {
			break
		}
	}
	return loop
}

func (n *Network) endpoints(from, to model.Coord) (int, int, bool) {
	i, okFrom := n.index[from]
	j, okTo := n.index[to]
	return i, j, okFrom && okTo
}
