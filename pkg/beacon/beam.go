package beacon

import (
	"slices"

	"github.com/matzehuels/beaconnet/pkg/model"
)

// Wire makes source send light to target. It returns false if either beacon is
// missing, source already has a target, source and target are the same, or
// target already forwards light to source (the wire would close a loop).
func (s *Store) Wire(source, target string) bool {
	src, ok := s.records[source]
	if !ok {
		return false
	}
	dst, ok := s.records[target]
	if !ok {
		return false
	}
	if src.target != model.NoID || source == target {
		return false
	}
	for cur := dst.target; cur != model.NoID; cur = s.records[cur].target {
		if cur == source {
			return false
		}
	}
	src.target = target
	dst.sources[source] = struct{}{}
	return true
}

// Target returns the beacon id sends light to, or [model.NoID].
func (s *Store) Target(id string) string {
	if r, ok := s.records[id]; ok {
		return r.target
	}
	return model.NoID
}

// Sources returns the beacons sending light directly to id, sorted ascending.
// The result is empty if id does not exist or has no sources.
func (s *Store) Sources(id string) []string {
	r, ok := s.records[id]
	if !ok {
		return nil
	}
	return r.sortedSources()
}

// ChainToRoot returns [id, target, target of target, ...] ending at the first
// beacon without a target. The result is empty if id does not exist.
func (s *Store) ChainToRoot(id string) []string {
	r, ok := s.records[id]
	if !ok {
		return nil
	}
	chain := []string{id}
	for cur := r.target; cur != model.NoID; cur = s.records[cur].target {
		chain = append(chain, cur)
	}
	return chain
}

// LongestIncomingChain returns the longest chain of beacons whose light
// reaches id, ordered from the farthest source to id itself. Every path in the
// source tree below id is enumerated; sources are visited in ascending ID order
// and the first chain of maximal length wins. The result is empty if id does
// not exist.
func (s *Store) LongestIncomingChain(id string) []string {
	if _, ok := s.records[id]; !ok {
		return nil
	}
	var best []string
	var walk func(id string, path []string)
	walk = func(id string, path []string) {
		path = append(path, id)
		if len(path) > len(best) {
			best = slices.Clone(path)
		}
		for _, src := range s.records[id].sortedSources() {
			walk(src, path)
		}
	}
	walk(id, nil)
	slices.Reverse(best)
	return best
}

// AggregateColor averages a beacon's color with the aggregated colors of its
// direct sources. Each source counts once regardless of how many beacons feed
// it, and every channel is averaged with integer division. It returns
// [model.NoColor] if id does not exist.
func (s *Store) AggregateColor(id string) model.Color {
	r, ok := s.records[id]
	if !ok {
		return model.NoColor
	}
	if len(r.sources) == 0 {
		return r.color
	}
	sum := r.color
	for _, src := range r.sortedSources() {
		c := s.AggregateColor(src)
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
	}
	n := len(r.sources) + 1
	return model.Color{R: sum.R / n, G: sum.G / n, B: sum.B / n}
}
