package render

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/beaconnet/pkg/beacon"
	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/fibre"
	"github.com/matzehuels/beaconnet/pkg/model"
)

func xy(x, y int) model.Coord { return model.Coord{X: x, Y: y} }

func triangle() *fibre.Network {
	n := fibre.New()
	n.AddFibre(xy(0, 0), xy(1, 1), 5)
	n.AddFibre(xy(1, 1), xy(2, 2), 3)
	n.AddFibre(xy(0, 0), xy(2, 2), 10)
	return n
}

func TestNetworkDOT(t *testing.T) {
	n := triangle()
	dot := NetworkDOT(n, NetworkOptions{Scale: 2})

	for _, want := range []string{
		"graph fibres {",
		`"p0_0" [label="(0,0)", pos="0,0!"];`,
		`"p2_2" [label="(2,2)", pos="4,4!"];`,
		`"p0_0" -- "p1_1" [label="5"];`,
		`"p1_1" -- "p2_2" [label="3"];`,
		`"p0_0" -- "p2_2" [label="10"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, highlightColor) {
		t.Error("DOT without highlight should not use the highlight color")
	}
}

func TestNetworkDOTHighlight(t *testing.T) {
	n := triangle()
	route := StepCoords(n.RouteFastest(xy(0, 0), xy(2, 2)))
	dot := NetworkDOT(n, NetworkOptions{Highlight: route})

	if got := strings.Count(dot, "penwidth=3"); got != 2 {
		t.Errorf("highlighted %d fibres, want 2:\n%s", got, dot)
	}
	if got := strings.Count(dot, "penwidth=2"); got != 3 {
		t.Errorf("highlighted %d points, want 3:\n%s", got, dot)
	}
	if !strings.Contains(dot, `"p0_0" -- "p2_2" [label="10"];`) {
		t.Error("fibre off the route should not be highlighted")
	}
}

func TestBeamDOT(t *testing.T) {
	s := beacon.New()
	s.Add("A", "Alpha", xy(0, 0), model.Color{R: 255, G: 255, B: 255})
	s.Add("B", "Beta", xy(1, 1), model.Color{R: -5, G: 300, B: 16})
	s.Add("C", "Gamma", xy(2, 2), model.Color{})
	s.Wire("A", "B")
	s.Wire("C", "B")
	dot := BeamDOT(s)

	for _, want := range []string{
		"digraph beams {",
		`"A" [label="Alpha\nA", fillcolor="#ffffff", fontcolor="black"];`,
		`"B" [label="Beta\nB", fillcolor="#00ff10", fontcolor="black"];`,
		`"C" [label="Gamma\nC", fillcolor="#000000", fontcolor="white"];`,
		`"A" -> "B";`,
		`"C" -> "B";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"B" ->`) {
		t.Error("B has no target and should have no outgoing edge")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []Format
		wantErr bool
	}{
		{"svg", []Format{FormatSVG}, false},
		{"svg, PNG,dot", []Format{FormatSVG, FormatPNG, FormatDOT}, false},
		{"pdf", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %v", errors.GetCode(err))
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseFormats(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := NetworkDOT(triangle(), NetworkOptions{})
	out, err := Render(context.Background(), dot, LayoutNeato, FormatDOT)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != dot {
		t.Error("FormatDOT should return the input unchanged")
	}
	if _, err := Render(context.Background(), dot, LayoutNeato, Format("gif")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v", err)
	}
}

func TestRenderAllSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz render in short mode")
	}
	dot := NetworkDOT(triangle(), NetworkOptions{})
	out, err := RenderAll(context.Background(), "network", dot, LayoutNeato, []Format{FormatSVG, FormatDOT})
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	svg := out[FormatSVG]
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("viewBox=")) {
		t.Errorf("not an SVG:\n%s", svg)
	}
	if string(out[FormatDOT]) != dot {
		t.Error("DOT output differs from input")
	}
}

func TestRenderAllConcurrentCallers(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz render in short mode")
	}
	dot := NetworkDOT(triangle(), NetworkOptions{})
	formats := []Format{FormatSVG, FormatPNG, FormatSVG}

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	outs := make([]map[Format][]byte, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outs[i], errs[i] = RenderAll(context.Background(), "network", dot, LayoutNeato, formats)
		}()
	}
	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: RenderAll: %v", i, errs[i])
		}
		if !bytes.Contains(outs[i][FormatSVG], []byte("<svg")) {
			t.Errorf("caller %d: SVG output missing <svg", i)
		}
		if !bytes.HasPrefix(outs[i][FormatPNG], []byte("\x89PNG")) {
			t.Errorf("caller %d: PNG output missing signature", i)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox = %s, want %s", got, want)
	}
}
