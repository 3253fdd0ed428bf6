package fibre

import (
	"slices"

	"github.com/matzehuels/beaconnet/pkg/model"
)

// SpanningCost returns the total cost of a minimum spanning forest of the
// network without changing it. It returns [model.NoCost] for an empty network.
func (n *Network) SpanningCost() model.Cost {
	if len(n.index) == 0 {
		return model.NoCost
	}
	total, _ := n.spanningForest()
	return total
}

// Trim removes every fibre that is not part of a minimum spanning forest and
// returns the total cost of the fibres that remain. Connectivity between
// cross-points is unchanged and no cross-point is deleted. It returns
// [model.NoCost] for an empty network.
func (n *Network) Trim() model.Cost {
	if len(n.index) == 0 {
		return model.NoCost
	}
	total, dropped := n.spanningForest()
	for _, f := range dropped {
		n.RemoveFibre(f.A, f.B)
	}
	return total
}

// spanningForest runs Kruskal's algorithm over the catalog. Ties in cost are
// broken by catalog order, so the forest is deterministic.
func (n *Network) spanningForest() (model.Cost, []Fibre) {
	type weighted struct {
		Fibre
		cost model.Cost
	}
	fibres := n.Fibres()
	edges := make([]weighted, len(fibres))
	for k, f := range fibres {
		c, _ := n.Cost(f.A, f.B)
		edges[k] = weighted{Fibre: f, cost: c}
	}
	slices.SortStableFunc(edges, func(x, y weighted) int { return compareCost(x.cost, y.cost) })

	sets := newDisjointSets(len(n.points))
	var total model.Cost
	var dropped []Fibre
	for _, e := range edges {
		if sets.union(n.index[e.A], n.index[e.B]) {
			total += e.cost
		} else {
			dropped = append(dropped, e.Fibre)
		}
	}
	return total, dropped
}

type disjointSets struct {
	parent []int
	rank   []int
}

func newDisjointSets(size int) *disjointSets {
	d := &disjointSets{parent: make([]int, size), rank: make([]int, size)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *disjointSets) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

// union merges the sets holding x and y and reports whether they were apart.
func (d *disjointSets) union(x, y int) bool {
	rx, ry := d.find(x), d.find(y)
	if rx == ry {
		return false
	}
	switch {
	case d.rank[rx] < d.rank[ry]:
		d.parent[rx] = ry
	case d.rank[rx] > d.rank[ry]:
		d.parent[ry] = rx
	default:
		d.parent[ry] = rx
		d.rank[rx]++
	}
	return true
}
