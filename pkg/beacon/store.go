package beacon

import (
	"maps"
	"slices"

	"github.com/matzehuels/beaconnet/pkg/model"
)

// Beacon is a snapshot of one registry record. Target is [model.NoID] when the
// beacon does not send light anywhere; Sources is sorted ascending.
type Beacon struct {
	ID         string
	Name       string
	Coord      model.Coord
	Color      model.Color
	Brightness int
	Target     string
	Sources    []string
}

type record struct {
	id         string
	name       string
	coord      model.Coord
	color      model.Color
	brightness int
	target     string
	sources    map[string]struct{}
}

func (r *record) nameKey() nameKey { return nameKey{name: r.name, id: r.id} }

func (r *record) brightnessKey() brightnessKey {
	return brightnessKey{brightness: r.brightness, id: r.id}
}

func (r *record) sortedSources() []string {
	return slices.Sorted(maps.Keys(r.sources))
}

// Store is the beacon registry. The zero value is not usable; call [New].
type Store struct {
	records      map[string]*record
	byName       *orderIndex
	byBrightness *orderIndex
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records:      make(map[string]*record),
		byName:       newNameIndex(),
		byBrightness: newBrightnessIndex(),
	}
}

// Count returns the number of beacons.
func (s *Store) Count() int { return len(s.records) }

// Clear removes every beacon and empties both indexes.
func (s *Store) Clear() {
	clear(s.records)
	s.byName.clear()
	s.byBrightness.clear()
}

// IDs returns all beacon IDs in ascending order.
func (s *Store) IDs() []string {
	return slices.Sorted(maps.Keys(s.records))
}

// Add inserts a new beacon. It returns false if the ID is already taken or is
// the reserved [model.NoID].
func (s *Store) Add(id, name string, xy model.Coord, color model.Color) bool {
	if id == model.NoID {
		return false
	}
	if _, exists := s.records[id]; exists {
		return false
	}
	r := &record{
		id:         id,
		name:       name,
		coord:      xy,
		color:      color,
		brightness: color.Brightness(),
		target:     model.NoID,
		sources:    make(map[string]struct{}),
	}
	s.records[id] = r
	s.byName.put(r.nameKey(), id)
	s.byBrightness.put(r.brightnessKey(), id)
	return true
}

// Get returns a snapshot of the beacon with the given ID.
func (s *Store) Get(id string) (Beacon, bool) {
	r, ok := s.records[id]
	if !ok {
		return Beacon{}, false
	}
	return Beacon{
		ID:         r.id,
		Name:       r.name,
		Coord:      r.coord,
		Color:      r.color,
		Brightness: r.brightness,
		Target:     r.target,
		Sources:    r.sortedSources(),
	}, true
}

// Name returns the beacon's name, or [model.NoName].
func (s *Store) Name(id string) string {
	if r, ok := s.records[id]; ok {
		return r.name
	}
	return model.NoName
}

// Coords returns the beacon's coordinates, or [model.NoCoord].
func (s *Store) Coords(id string) model.Coord {
	if r, ok := s.records[id]; ok {
		return r.coord
	}
	return model.NoCoord
}

// Color returns the beacon's color, or [model.NoColor].
func (s *Store) Color(id string) model.Color {
	if r, ok := s.records[id]; ok {
		return r.color
	}
	return model.NoColor
}

// Alphabetical returns every beacon ID ordered by name. Beacons sharing a name
// are ordered by ID.
func (s *Store) Alphabetical() []string { return s.byName.ids() }

// ByBrightness returns every beacon ID ordered by increasing brightness.
// Beacons of equal brightness are ordered by ID.
func (s *Store) ByBrightness() []string { return s.byBrightness.ids() }

// MinBrightness returns the dimmest beacon, or [model.NoID] if the store is empty.
func (s *Store) MinBrightness() string {
	if id, ok := s.byBrightness.first(); ok {
		return id
	}
	return model.NoID
}

// MaxBrightness returns the brightest beacon, or [model.NoID] if the store is empty.
func (s *Store) MaxBrightness() string {
	if id, ok := s.byBrightness.last(); ok {
		return id
	}
	return model.NoID
}

// Find returns the IDs of all beacons named exactly name, in ascending order.
func (s *Store) Find(name string) []string {
	var ids []string
	s.byName.from(nameKey{name: name}, func(key interface{}, id string) bool {
		if key.(nameKey).name != name {
			return false
		}
		ids = append(ids, id)
		return true
	})
	return ids
}

// Rename changes a beacon's name and relocates its name index entry.
func (s *Store) Rename(id, name string) bool {
	r, ok := s.records[id]
	if !ok {
		return false
	}
	old := r.nameKey()
	r.name = name
	s.byName.move(old, r.nameKey(), id)
	return true
}

// Recolor changes a beacon's color, recomputes its brightness and relocates its
// brightness index entry.
func (s *Store) Recolor(id string, color model.Color) bool {
	r, ok := s.records[id]
	if !ok {
		return false
	}
	old := r.brightnessKey()
	r.color = color
	r.brightness = color.Brightness()
	s.byBrightness.move(old, r.brightnessKey(), id)
	return true
}

// Remove deletes a beacon. Its sources lose their target, it is dropped from
// its own target's sources, and both index entries are removed.
func (s *Store) Remove(id string) bool {
	r, ok := s.records[id]
	if !ok {
		return false
	}
	if r.target != model.NoID {
		delete(s.records[r.target].sources, id)
	}
	for src := range r.sources {
		s.records[src].target = model.NoID
	}
	s.byName.remove(r.nameKey())
	s.byBrightness.remove(r.brightnessKey())
	delete(s.records, id)
	return true
}
