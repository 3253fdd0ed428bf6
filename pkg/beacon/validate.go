package beacon

import (
	"errors"
	"fmt"

	"github.com/matzehuels/beaconnet/pkg/model"
)

// ErrInvariant is wrapped by every error returned from [Store.Validate]. It
// signals a bug in the store, never bad caller input.
var ErrInvariant = errors.New("beacon store invariant violated")

// Validate checks that both indexes hold exactly one entry per beacon and that
// target and source links mirror each other.
func (s *Store) Validate() error {
	if n := s.byName.size(); n != len(s.records) {
		return fmt.Errorf("%w: name index has %d entries for %d beacons", ErrInvariant, n, len(s.records))
	}
	if n := s.byBrightness.size(); n != len(s.records) {
		return fmt.Errorf("%w: brightness index has %d entries for %d beacons", ErrInvariant, n, len(s.records))
	}
	for id, r := range s.records {
		if !s.byName.has(r.nameKey()) {
			return fmt.Errorf("%w: %s missing from name index", ErrInvariant, id)
		}
		if !s.byBrightness.has(r.brightnessKey()) {
			return fmt.Errorf("%w: %s missing from brightness index", ErrInvariant, id)
		}
		if r.brightness != r.color.Brightness() {
			return fmt.Errorf("%w: %s has stale brightness", ErrInvariant, id)
		}
		if r.target == id {
			return fmt.Errorf("%w: %s targets itself", ErrInvariant, id)
		}
		if r.target != model.NoID {
			t, ok := s.records[r.target]
			if !ok {
				return fmt.Errorf("%w: %s targets missing beacon %s", ErrInvariant, id, r.target)
			}
			if _, ok := t.sources[id]; !ok {
				return fmt.Errorf("%w: %s targets %s but is not among its sources", ErrInvariant, id, r.target)
			}
		}
		for src := range r.sources {
			sr, ok := s.records[src]
			if !ok {
				return fmt.Errorf("%w: %s lists missing source %s", ErrInvariant, id, src)
			}
			if sr.target != id {
				return fmt.Errorf("%w: %s lists source %s which targets %s", ErrInvariant, id, src, sr.target)
			}
		}
	}
	return s.checkForest()
}

func (s *Store) checkForest() error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(s.records))
	for id := range s.records {
		if color[id] != white {
			continue
		}
		var trail []string
		cur := id
		for cur != model.NoID && color[cur] == white {
			color[cur] = gray
			trail = append(trail, cur)
			cur = s.records[cur].target
		}
		if cur != model.NoID && color[cur] == gray {
			return fmt.Errorf("%w: lightbeams loop through %s", ErrInvariant, cur)
		}
		for _, t := range trail {
			color[t] = black
		}
	}
	return nil
}
