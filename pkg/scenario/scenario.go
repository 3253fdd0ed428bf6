package scenario

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/model"
)

// Scenario is the decoded form of a scenario file.
type Scenario struct {
	Name    string   `toml:"name"`
	Beacons []Beacon `toml:"beacon"`
	Beams   []Beam   `toml:"beam"`
	Fibres  []Fibre  `toml:"fibre"`
}

// Beacon is one [[beacon]] table.
type Beacon struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Coord [2]int `toml:"coord"`
	Color [3]int `toml:"color"`
}

// Beam is one [[beam]] table: From sends light to To.
type Beam struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Fibre is one [[fibre]] table.
type Fibre struct {
	A    [2]int     `toml:"a"`
	B    [2]int     `toml:"b"`
	Cost model.Cost `toml:"cost"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scenario %s", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	var s Scenario
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScenario, "unknown keys: %s", strings.Join(keys, ", "))
	}
	s.assignIDs()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) assignIDs() {
	for i := range s.Beacons {
		b := &s.Beacons[i]
		if b.ID == "" {
			b.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%d/%s", s.Name, i, b.Name))).String()
		}
	}
}

// Validate checks ids, names and costs. It does not check that beams and
// fibres can be applied; [Scenario.Apply] reports those.
func (s *Scenario) Validate() error {
	for i, b := range s.Beacons {
		if err := errors.ValidateBeaconID(b.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "beacon %d", i+1)
		}
		if err := errors.ValidateBeaconName(b.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "beacon %d (%s)", i+1, b.ID)
		}
	}
	for i, f := range s.Fibres {
		if err := errors.ValidateCost(f.Cost); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScenario, err, "fibre %d", i+1)
		}
	}
	return nil
}

// Apply adds every beacon, beam and fibre to eng, in that order. It stops at
// the first record the engine rejects.
func (s *Scenario) Apply(eng *engine.Engine) error {
	for i, b := range s.Beacons {
		if !eng.AddBeacon(b.ID, b.Name, coord(b.Coord), color(b.Color)) {
			return errors.New(errors.ErrCodeInvalidScenario, "beacon %d: duplicate id %q", i+1, b.ID)
		}
	}
	for i, b := range s.Beams {
		if !eng.Wire(b.From, b.To) {
			return errors.New(errors.ErrCodeInvalidScenario, "beam %d: cannot send light from %q to %q", i+1, b.From, b.To)
		}
	}
	for i, f := range s.Fibres {
		if !eng.AddFibre(coord(f.A), coord(f.B), f.Cost) {
			return errors.New(errors.ErrCodeInvalidScenario, "fibre %d: %v-%v is a loop or a duplicate", i+1, coord(f.A), coord(f.B))
		}
	}
	eng.Logger().Debug("applied scenario",
		"name", s.Name,
		"beacons", len(s.Beacons),
		"beams", len(s.Beams),
		"fibres", len(s.Fibres))
	return nil
}

// Engine creates a new engine with opts and applies the scenario to it.
func (s *Scenario) Engine(opts ...engine.Option) (*engine.Engine, error) {
	eng := engine.New(opts...)
	if err := s.Apply(eng); err != nil {
		return nil, err
	}
	return eng, nil
}

// Encode writes the scenario as TOML.
func (s *Scenario) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// Save writes the scenario to path.
func (s *Scenario) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scenario: %w", err)
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode scenario: %w", err)
	}
	return f.Close()
}

// Hash returns the hex SHA-256 of the scenario's TOML encoding. Records are
// hashed after ids are assigned, so a scenario with generated ids hashes the
// same on every load. Render caches key artifacts by it.
func (s *Scenario) Hash() string {
	h := sha256.New()
	_ = s.Encode(h)
	return hex.EncodeToString(h.Sum(nil))
}

// FromEngine captures the current contents of eng as a scenario. Beacons are
// listed by id, beams by source id, fibres in catalog order.
func FromEngine(eng *engine.Engine, name string) *Scenario {
	s := &Scenario{Name: name}
	for _, id := range eng.Beacons.IDs() {
		b, _ := eng.Beacons.Get(id)
		s.Beacons = append(s.Beacons, Beacon{
			ID:    b.ID,
			Name:  b.Name,
			Coord: [2]int{b.Coord.X, b.Coord.Y},
			Color: [3]int{b.Color.R, b.Color.G, b.Color.B},
		})
		if b.Target != model.NoID {
			s.Beams = append(s.Beams, Beam{From: b.ID, To: b.Target})
		}
	}
	for _, f := range eng.Fibres.Fibres() {
		cost, _ := eng.Fibres.Cost(f.A, f.B)
		s.Fibres = append(s.Fibres, Fibre{
			A:    [2]int{f.A.X, f.A.Y},
			B:    [2]int{f.B.X, f.B.Y},
			Cost: cost,
		})
	}
	return s
}

func coord(v [2]int) model.Coord { return model.Coord{X: v[0], Y: v[1]} }

func color(v [3]int) model.Color { return model.Color{R: v[0], G: v[1], B: v[2]} }
