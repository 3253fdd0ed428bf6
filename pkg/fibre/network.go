package fibre

import (
	"cmp"
	"slices"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/matzehuels/beaconnet/pkg/model"
)

// Fibre is an undirected connection listed with its lesser endpoint first.
type Fibre struct {
	A model.Coord
	B model.Coord
}

func newFibre(a, b model.Coord) Fibre {
	if b.Less(a) {
		a, b = b, a
	}
	return Fibre{A: a, B: b}
}

func compareFibres(x, y interface{}) int {
	f, g := x.(Fibre), y.(Fibre)
	if c := f.A.Compare(g.A); c != 0 {
		return c
	}
	return f.B.Compare(g.B)
}

// Link is one fibre seen from a cross-point: the far end and the cost.
type Link struct {
	To   model.Coord
	Cost model.Cost
}

type point struct {
	coord model.Coord
	links map[int]model.Cost
}

// Network is the fibre graph. The zero value is not usable; call [New].
type Network struct {
	points  []*point
	free    []int
	index   map[model.Coord]int
	catalog *treeset.Set
	state   traversal
}

// New creates an empty network.
func New() *Network {
	return &Network{
		index:   make(map[model.Coord]int),
		catalog: treeset.NewWith(compareFibres),
	}
}

// PointCount returns the number of cross-points.
func (n *Network) PointCount() int { return len(n.index) }

// FibreCount returns the number of fibres.
func (n *Network) FibreCount() int { return n.catalog.Size() }

// Has reports whether xy is a cross-point.
func (n *Network) Has(xy model.Coord) bool {
	_, ok := n.index[xy]
	return ok
}

// Points returns every cross-point in ascending coordinate order.
func (n *Network) Points() []model.Coord {
	out := make([]model.Coord, 0, len(n.index))
	for xy := range n.index {
		out = append(out, xy)
	}
	slices.SortFunc(out, model.Coord.Compare)
	return out
}

// AddFibre connects a and b with the given cost, creating missing cross-points.
// It returns false if a equals b or the fibre already exists.
func (n *Network) AddFibre(a, b model.Coord, cost model.Cost) bool {
	if a == b {
		return false
	}
	ia, okA := n.index[a]
	ib, okB := n.index[b]
	if okA && okB {
		if _, dup := n.points[ia].links[ib]; dup {
			return false
		}
	}
	if !okA {
		ia = n.alloc(a)
	}
	if !okB {
		ib = n.alloc(b)
	}
	n.points[ia].links[ib] = cost
	n.points[ib].links[ia] = cost
	n.catalog.Add(newFibre(a, b))
	return true
}

// RemoveFibre disconnects a and b. Cross-points left without fibres are
// deleted. It returns false if either point or the fibre does not exist.
func (n *Network) RemoveFibre(a, b model.Coord) bool {
	ia, okA := n.index[a]
	ib, okB := n.index[b]
	if !okA || !okB {
		return false
	}
	if _, ok := n.points[ia].links[ib]; !ok {
		return false
	}
	delete(n.points[ia].links, ib)
	delete(n.points[ib].links, ia)
	n.catalog.Remove(newFibre(a, b))
	if len(n.points[ia].links) == 0 {
		n.release(ia)
	}
	if len(n.points[ib].links) == 0 {
		n.release(ib)
	}
	return true
}

// Cost returns the cost of the fibre between a and b.
func (n *Network) Cost(a, b model.Coord) (model.Cost, bool) {
	ia, okA := n.index[a]
	ib, okB := n.index[b]
	if !okA || !okB {
		return model.NoCost, false
	}
	c, ok := n.points[ia].links[ib]
	if !ok {
		return model.NoCost, false
	}
	return c, true
}

// FibresFrom returns the fibres leaving xy sorted by far end. The result is
// empty if xy is not a cross-point.
func (n *Network) FibresFrom(xy model.Coord) []Link {
	i, ok := n.index[xy]
	if !ok {
		return nil
	}
	var out []Link
	for _, j := range n.neighbours(i) {
		out = append(out, Link{To: n.points[j].coord, Cost: n.points[i].links[j]})
	}
	return out
}

// Fibres returns every fibre once, ordered by lesser then greater endpoint.
func (n *Network) Fibres() []Fibre {
	out := make([]Fibre, 0, n.catalog.Size())
	for _, v := range n.catalog.Values() {
		out = append(out, v.(Fibre))
	}
	return out
}

// Clear removes every cross-point and fibre.
func (n *Network) Clear() {
	n.points = nil
	n.free = nil
	clear(n.index)
	n.catalog.Clear()
	n.state = traversal{}
}

func (n *Network) alloc(xy model.Coord) int {
	p := &point{coord: xy, links: make(map[int]model.Cost)}
	var i int
	if k := len(n.free); k > 0 {
		i = n.free[k-1]
		n.free = n.free[:k-1]
		n.points[i] = p
	} else {
		i = len(n.points)
		n.points = append(n.points, p)
	}
	n.index[xy] = i
	return i
}

func (n *Network) release(i int) {
	delete(n.index, n.points[i].coord)
	n.points[i] = nil
	n.free = append(n.free, i)
}

// neighbours returns the slots adjacent to i in ascending coordinate order.
func (n *Network) neighbours(i int) []int {
	out := make([]int, 0, len(n.points[i].links))
	for j := range n.points[i].links {
		out = append(out, j)
	}
	slices.SortFunc(out, func(x, y int) int {
		return n.points[x].coord.Compare(n.points[y].coord)
	})
	return out
}

func compareCost(a, b model.Cost) int { return cmp.Compare(a, b) }
