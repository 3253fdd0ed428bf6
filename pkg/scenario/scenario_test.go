package scenario

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/fibre"
	"github.com/matzehuels/beaconnet/pkg/model"
)

func TestLoadAndApply(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "demo.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "demo" || len(s.Beacons) != 4 || len(s.Beams) != 2 || len(s.Fibres) != 3 {
		t.Fatalf("unexpected scenario: %+v", s)
	}
	if _, err := uuid.Parse(s.Beacons[3].ID); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", s.Beacons[3].ID, err)
	}

	eng, err := s.Engine(engine.WithStrict(true))
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if got := eng.Beacons.ChainToRoot("A"); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("ChainToRoot(A) = %v", got)
	}
	if got := eng.Beacons.LongestIncomingChain("C"); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("LongestIncomingChain(C) = %v", got)
	}
	want := []fibre.Step{
		{Coord: model.Coord{X: 0, Y: 0}, Cost: 0},
		{Coord: model.Coord{X: 1, Y: 1}, Cost: 5},
		{Coord: model.Coord{X: 2, Y: 2}, Cost: 8},
	}
	if got := eng.RouteFastest(context.Background(), model.Coord{}, model.Coord{X: 2, Y: 2}); !slices.Equal(got, want) {
		t.Errorf("RouteFastest = %v, want %v", got, want)
	}
}

func TestGeneratedIDsAreStable(t *testing.T) {
	a, err := Load(filepath.Join("testdata", "demo.toml"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(filepath.Join("testdata", "demo.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Beacons[3].ID != b.Beacons[3].ID {
		t.Errorf("generated ids differ: %s vs %s", a.Beacons[3].ID, b.Beacons[3].ID)
	}
	if a.Hash() != b.Hash() {
		t.Error("Hash should be stable across loads")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("Hash length = %d, want 64", len(a.Hash()))
	}
	if len(b.Fibres) == 0 {
		t.Fatal("demo scenario has no fibres")
	}
	b.Fibres[0].Cost++
	if a.Hash() == b.Hash() {
		t.Error("Hash should change with a fibre cost")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `name = `},
		{"unknown key", "name = \"x\"\nmood = \"grumpy\""},
		{"reserved id", "[[beacon]]\nid = \"----------\"\nname = \"x\"\ncoord = [0, 0]\ncolor = [0, 0, 0]"},
		{"negative cost", "[[fibre]]\na = [0, 0]\nb = [1, 1]\ncost = -1"},
		{"short coord", "[[fibre]]\na = [0]\nb = [1, 1]\ncost = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidScenario) {
				t.Errorf("Parse error = %v, want INVALID_SCENARIO", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestApplyRejections(t *testing.T) {
	tests := []struct {
		name string
		s    Scenario
		want string
	}{
		{
			name: "duplicate beacon",
			s:    Scenario{Beacons: []Beacon{{ID: "A"}, {ID: "A"}}},
			want: "beacon 2",
		},
		{
			name: "beam to missing beacon",
			s:    Scenario{Beacons: []Beacon{{ID: "A"}}, Beams: []Beam{{From: "A", To: "Z"}}},
			want: "beam 1",
		},
		{
			name: "beam loop",
			s: Scenario{
				Beacons: []Beacon{{ID: "A"}, {ID: "B"}},
				Beams:   []Beam{{From: "A", To: "B"}, {From: "B", To: "A"}},
			},
			want: "beam 2",
		},
		{
			name: "duplicate fibre",
			s:    Scenario{Fibres: []Fibre{{A: [2]int{0, 0}, B: [2]int{1, 1}, Cost: 1}, {A: [2]int{1, 1}, B: [2]int{0, 0}, Cost: 2}}},
			want: "fibre 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Apply(engine.New())
			if !errors.Is(err, errors.ErrCodeInvalidScenario) || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Apply error = %v, want INVALID_SCENARIO mentioning %q", err, tt.want)
			}
		})
	}
}

func TestFromEngineRoundTrip(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "demo.toml"))
	if err != nil {
		t.Fatal(err)
	}
	eng, err := s.Engine()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := FromEngine(eng, "copy").Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	eng2, err := back.Engine(engine.WithStrict(true))
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}

	if got, want := eng2.Beacons.Alphabetical(), eng.Beacons.Alphabetical(); !slices.Equal(got, want) {
		t.Errorf("Alphabetical = %v, want %v", got, want)
	}
	if got, want := eng2.Fibres.Fibres(), eng.Fibres.Fibres(); !slices.Equal(got, want) {
		t.Errorf("Fibres = %v, want %v", got, want)
	}
	if got := eng2.Beacons.Target("B"); got != "C" {
		t.Errorf("Target(B) = %q, want C", got)
	}
}
