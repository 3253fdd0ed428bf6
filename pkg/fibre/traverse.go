package fibre

import (
	"math"
	"slices"

	"github.com/emirpasic/gods/queues/arrayqueue"
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/matzehuels/beaconnet/pkg/model"
)

type colour uint8

const (
	white colour = iota // not yet discovered
	gray                // discovered, still being expanded
	black               // finished
)

const (
	noPred   = -1
	infinity = model.Cost(math.MaxInt)
)

type visit struct {
	colour colour
	pred   int
	cost   model.Cost
	dist   model.Cost
}

// traversal is the per-query scratch table, indexed by arena slot.
type traversal struct {
	visits []visit
}

func (t *traversal) reset(size int) {
	if cap(t.visits) < size {
		t.visits = make([]visit, size)
	}
	t.visits = t.visits[:size]
	for i := range t.visits {
		t.visits[i] = visit{colour: white, pred: noPred, dist: infinity}
	}
}

// dfs runs an iterative depth-first search from 'from'. In target mode it
// stops as soon as 'to' is discovered. In cycle mode (to < 0) it stops at the
// first fibre from the node being expanded into a gray node other than that
// node's predecessor, and returns both slots.
func (n *Network) dfs(from, to int) (found bool, expanded, back int) {
	n.state.reset(len(n.points))
	v := n.state.visits
	findCycle := to < 0

	stack := arraystack.New()
	stack.Push(from)
	for !stack.Empty() {
		top, _ := stack.Pop()
		u := top.(int)
		if v[u].colour != white {
			v[u].colour = black
			continue
		}
		v[u].colour = gray
		stack.Push(u)
		for _, w := range n.neighbours(u) {
			switch v[w].colour {
			case white:
				v[w].pred = u
				v[w].cost = v[u].cost + n.points[u].links[w]
				if !findCycle && w == to {
					return true, noPred, noPred
				}
				stack.Push(w)
			case gray:
				if findCycle && w != v[u].pred {
					return true, u, w
				}
			}
		}
	}
	return false, noPred, noPred
}

// bfs runs a breadth-first search from 'from', recording for each reached
// node the first discovering predecessor and the cost along that tree path.
func (n *Network) bfs(from int) {
	n.state.reset(len(n.points))
	v := n.state.visits

	v[from].colour = gray
	v[from].dist = 0
	queue := arrayqueue.New()
	queue.Enqueue(from)
	for !queue.Empty() {
		head, _ := queue.Dequeue()
		u := head.(int)
		for _, w := range n.neighbours(u) {
			if v[w].colour != white {
				continue
			}
			v[w].colour = gray
			v[w].pred = u
			v[w].cost = v[u].cost + n.points[u].links[w]
			v[w].dist = v[u].dist + 1
			queue.Enqueue(w)
		}
		v[u].colour = black
	}
}

type heapEntry struct {
	dist model.Cost
	slot int
}

// dijkstra computes lowest-cost predecessors from 'from'. The heap may hold
// several entries per node; only the one matching the node's current
// distance is expanded.
func (n *Network) dijkstra(from int) {
	n.state.reset(len(n.points))
	v := n.state.visits

	pq := priorityqueue.NewWith(func(a, b interface{}) int {
		x, y := a.(heapEntry), b.(heapEntry)
		if c := compareCost(x.dist, y.dist); c != 0 {
			return c
		}
		return n.points[x.slot].coord.Compare(n.points[y.slot].coord)
	})

	v[from].colour = gray
	v[from].dist = 0
	pq.Enqueue(heapEntry{dist: 0, slot: from})
	for !pq.Empty() {
		head, _ := pq.Dequeue()
		e := head.(heapEntry)
		u := e.slot
		if v[u].colour == black || e.dist != v[u].dist {
			continue
		}
		for _, w := range n.neighbours(u) {
			if v[w].colour == black {
				continue
			}
			cost := n.points[u].links[w]
			if d := v[u].dist + cost; d < v[w].dist {
				v[w].dist = d
				v[w].pred = u
				v[w].cost = v[u].cost + cost
				v[w].colour = gray
				pq.Enqueue(heapEntry{dist: d, slot: w})
			}
		}
		v[u].colour = black
	}
}

// route rebuilds the path ending at 'to' from the predecessor links of the
// last traversal. It returns nil if 'to' was not reached from 'from'.
func (n *Network) route(from, to int) []Step {
	v := n.state.visits
	if to != from && v[to].pred == noPred {
		return nil
	}
	var steps []Step
	for cur := to; cur != noPred; cur = v[cur].pred {
		steps = append(steps, Step{Coord: n.points[cur].coord, Cost: v[cur].cost})
		if cur == from {
			break
		}
	}
	slices.Reverse(steps)
	return steps
}
