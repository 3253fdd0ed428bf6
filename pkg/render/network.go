package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/beaconnet/pkg/fibre"
	"github.com/matzehuels/beaconnet/pkg/model"
)

// NetworkOptions configures [NetworkDOT].
type NetworkOptions struct {
	// Highlight is a walk through the network (a route or a loop) drawn in
	// the highlight color. Consecutive points that are not joined by a fibre
	// are ignored.
	Highlight []model.Coord

	// Scale is the distance in inches between adjacent grid coordinates.
	// Zero means 1.
	Scale float64
}

const highlightColor = "#d62728"

// NetworkDOT converts the fibre network to an undirected DOT graph meant for
// the neato layout. Every node is pinned at its coordinate.
func NetworkDOT(n *fibre.Network, opts NetworkOptions) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	onPath := make(map[model.Coord]bool, len(opts.Highlight))
	onEdge := make(map[fibre.Fibre]bool, len(opts.Highlight))
	for i, p := range opts.Highlight {
		onPath[p] = true
		if i > 0 {
			onEdge[normalize(opts.Highlight[i-1], p)] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("graph fibres {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.5, fixedsize=true];\n")
	buf.WriteString("  edge [fontsize=9, color=\"#555555\"];\n")
	buf.WriteString("\n")

	for _, p := range n.Points() {
		attrs := fmt.Sprintf("label=%q, pos=\"%g,%g!\"", p.String(), float64(p.X)*scale, float64(p.Y)*scale)
		if onPath[p] {
			attrs += fmt.Sprintf(", color=%q, penwidth=2", highlightColor)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(p), attrs)
	}

	buf.WriteString("\n")
	for _, f := range n.Fibres() {
		cost, _ := n.Cost(f.A, f.B)
		attrs := fmt.Sprintf("label=\"%d\"", cost)
		if onEdge[f] {
			attrs += fmt.Sprintf(", color=%q, penwidth=3", highlightColor)
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", nodeID(f.A), nodeID(f.B), attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// StepCoords extracts the coordinates of a route for use as a highlight.
func StepCoords(steps []fibre.Step) []model.Coord {
	out := make([]model.Coord, len(steps))
	for i, s := range steps {
		out[i] = s.Coord
	}
	return out
}

func nodeID(p model.Coord) string {
	return fmt.Sprintf("p%d_%d", p.X, p.Y)
}

func normalize(a, b model.Coord) fibre.Fibre {
	if b.Less(a) {
		a, b = b, a
	}
	return fibre.Fibre{A: a, B: b}
}
