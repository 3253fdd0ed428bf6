package beacon

import (
	"slices"
	"testing"

	"github.com/matzehuels/beaconnet/pkg/model"
)

func chainStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	for _, id := range []string{"A", "B", "C"} {
		s.Add(id, id, model.Coord{}, model.Color{})
	}
	if !s.Wire("A", "B") || !s.Wire("B", "C") {
		t.Fatal("Wire failed")
	}
	mustValidate(t, s)
	return s
}

func TestWire(t *testing.T) {
	s := chainStore(t)
	s.Add("D", "D", model.Coord{}, model.Color{})

	tests := []struct {
		name     string
		src, dst string
		want     bool
	}{
		{"MissingSource", "X", "C", false},
		{"MissingTarget", "D", "X", false},
		{"AlreadyWired", "A", "D", false},
		{"Self", "D", "D", false},
		{"ClosesLoop", "C", "A", false},
		{"Valid", "D", "C", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Wire(tt.src, tt.dst); got != tt.want {
				t.Errorf("Wire(%s, %s) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
			mustValidate(t, s)
		})
	}
}

func TestChainScenario(t *testing.T) {
	s := chainStore(t)

	if got, want := s.ChainToRoot("A"), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("ChainToRoot(A) = %v, want %v", got, want)
	}
	if got, want := s.Sources("C"), []string{"B"}; !slices.Equal(got, want) {
		t.Errorf("Sources(C) = %v, want %v", got, want)
	}
	if got, want := s.LongestIncomingChain("C"), []string{"A", "B", "C"}; !slices.Equal(got, want) {
		t.Errorf("LongestIncomingChain(C) = %v, want %v", got, want)
	}
	if got, want := s.LongestIncomingChain("A"), []string{"A"}; !slices.Equal(got, want) {
		t.Errorf("LongestIncomingChain(A) = %v, want %v", got, want)
	}
}

func TestNotFoundReturnsEmpty(t *testing.T) {
	s := chainStore(t)
	if got := s.Sources("X"); got != nil {
		t.Errorf("Sources(X) = %v, want nil", got)
	}
	if got := s.ChainToRoot("X"); got != nil {
		t.Errorf("ChainToRoot(X) = %v, want nil", got)
	}
	if got := s.LongestIncomingChain("X"); got != nil {
		t.Errorf("LongestIncomingChain(X) = %v, want nil", got)
	}
	if got := s.AggregateColor("X"); got != model.NoColor {
		t.Errorf("AggregateColor(X) = %v, want NoColor", got)
	}
}

func TestLongestIncomingChainTieBreak(t *testing.T) {
	// r <- a <- a1
	// r <- b <- b1
	s := New()
	for _, id := range []string{"r", "a", "a1", "b", "b1", "c"} {
		s.Add(id, id, model.Coord{}, model.Color{})
	}
	s.Wire("b", "r")
	s.Wire("a", "r")
	s.Wire("c", "r")
	s.Wire("b1", "b")
	s.Wire("a1", "a")

	want := []string{"a1", "a", "r"}
	if got := s.LongestIncomingChain("r"); !slices.Equal(got, want) {
		t.Errorf("LongestIncomingChain(r) = %v, want %v", got, want)
	}
}

func TestAggregateColor(t *testing.T) {
	s := New()
	s.Add("root", "root", model.Coord{}, model.Color{R: 90, G: 0, B: 0})
	s.Add("s1", "s1", model.Coord{}, model.Color{R: 0, G: 90, B: 0})
	s.Add("s2", "s2", model.Coord{}, model.Color{R: 0, G: 0, B: 90})
	s.Add("s11", "s11", model.Coord{}, model.Color{R: 0, G: 0, B: 30})
	s.Wire("s1", "root")
	s.Wire("s2", "root")
	s.Wire("s11", "s1")

	// s1 aggregates to (0/2, 90/2, 30/2) = (0, 45, 15).
	if got, want := s.AggregateColor("s1"), (model.Color{R: 0, G: 45, B: 15}); got != want {
		t.Errorf("AggregateColor(s1) = %v, want %v", got, want)
	}
	// root averages itself, s1's aggregate and s2 with one unit each.
	want := model.Color{R: 90 / 3, G: 45 / 3, B: (15 + 90) / 3}
	if got := s.AggregateColor("root"); got != want {
		t.Errorf("AggregateColor(root) = %v, want %v", got, want)
	}
	if got, want := s.AggregateColor("s2"), (model.Color{B: 90}); got != want {
		t.Errorf("AggregateColor(s2) = %v, want %v", got, want)
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	s := chainStore(t)
	s.records["C"].sources = map[string]struct{}{}
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() = nil on asymmetric beam")
	}

	s = chainStore(t)
	s.byName.remove(s.records["A"].nameKey())
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() = nil on missing index entry")
	}

	s = chainStore(t)
	s.records["C"].target = "A"
	s.records["A"].sources["C"] = struct{}{}
	if err := s.Validate(); err == nil {
		t.Fatal("Validate() = nil on beam loop")
	}
}
