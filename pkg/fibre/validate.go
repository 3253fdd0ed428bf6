package fibre

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every error returned from [Network.Validate]. It
// signals a bug in the network, never bad caller input.
var ErrInvariant = errors.New("fibre network invariant violated")

// Validate checks that the coordinate index matches the arena, that every
// cross-point has at least one fibre, that fibres are mirrored with equal
// costs, and that the catalog lists exactly the mirrored fibres.
func (n *Network) Validate() error {
	live := 0
	halfEdges := 0
	for i, p := range n.points {
		if p == nil {
			continue
		}
		live++
		if j, ok := n.index[p.coord]; !ok || j != i {
			return fmt.Errorf("%w: %v not indexed at slot %d", ErrInvariant, p.coord, i)
		}
		if len(p.links) == 0 {
			return fmt.Errorf("%w: %v has no fibres", ErrInvariant, p.coord)
		}
		for j, c := range p.links {
			if j < 0 || j >= len(n.points) || n.points[j] == nil {
				return fmt.Errorf("%w: %v links to a freed slot", ErrInvariant, p.coord)
			}
			back, ok := n.points[j].links[i]
			if !ok || back != c {
				return fmt.Errorf("%w: fibre %v-%v is not mirrored", ErrInvariant, p.coord, n.points[j].coord)
			}
			if !n.catalog.Contains(newFibre(p.coord, n.points[j].coord)) {
				return fmt.Errorf("%w: fibre %v-%v missing from catalog", ErrInvariant, p.coord, n.points[j].coord)
			}
			halfEdges++
		}
	}
	if live != len(n.index) {
		return fmt.Errorf("%w: %d live slots for %d indexed points", ErrInvariant, live, len(n.index))
	}
	if halfEdges != 2*n.catalog.Size() {
		return fmt.Errorf("%w: catalog lists %d fibres, adjacency holds %d", ErrInvariant, n.catalog.Size(), halfEdges/2)
	}
	return nil
}
