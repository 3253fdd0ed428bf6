package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/beaconnet/pkg/beacon"
	"github.com/matzehuels/beaconnet/pkg/model"
)

// BeamDOT converts the lightbeam forest to a directed DOT graph meant for the
// dot layout. Roots (beacons without a target) end up at the top.
func BeamDOT(s *beacon.Store) string {
	var buf bytes.Buffer
	buf.WriteString("digraph beams {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	ids := s.IDs()
	for _, id := range ids {
		b, _ := s.Get(id)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, fontcolor=%q];\n",
			id, b.Name+"\n"+id, hexColor(b.Color), textColor(b.Color))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		if t := s.Target(id); t != model.NoID {
			fmt.Fprintf(&buf, "  %q -> %q;\n", id, t)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func clamp(v int) int {
	return min(max(v, 0), 255)
}

// hexColor formats c as #rrggbb with every channel clamped to 0..255.
func hexColor(c model.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp(c.R), clamp(c.G), clamp(c.B))
}

// textColor picks black or white text for a fill, using the same weighting
// as beacon brightness.
func textColor(c model.Color) string {
	bright := model.Color{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B)}.Brightness()
	if bright > 10*255/2 {
		return "black"
	}
	return "white"
}
