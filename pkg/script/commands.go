package script

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/fibre"
	"github.com/matzehuels/beaconnet/pkg/model"
)

// Command describes one command of the language.
type Command struct {
	Name string
	Args []string
	Help string

	run func(ctx context.Context, in *Interpreter, args []string) error
}

// Usage returns the command name followed by its argument placeholders.
func (c Command) Usage() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

var (
	commands []Command
	byName   map[string]Command
)

func init() {
	commands = []Command{
		// Beacons
		{"add_beacon", []string{"ID", "NAME", "(x,y)", "(r,g,b)"}, "add a beacon", addBeacon},
		{"beacon_count", nil, "print the number of beacons", beaconCount},
		{"clear_beacons", nil, "remove every beacon", clearBeacons},
		{"all_beacons", nil, "list beacons by id", allBeacons},
		{"get_name", []string{"ID"}, "print a beacon's name", getName},
		{"get_coordinates", []string{"ID"}, "print a beacon's coordinates", getCoordinates},
		{"get_color", []string{"ID"}, "print a beacon's color", getColor},
		{"beacons_alphabetically", nil, "list beacons by name", beaconsAlphabetically},
		{"beacons_brightness_increasing", nil, "list beacons by brightness", beaconsByBrightness},
		{"min_brightness", nil, "print the dimmest beacon", minBrightness},
		{"max_brightness", nil, "print the brightest beacon", maxBrightness},
		{"find_beacons", []string{"NAME"}, "list beacons with a name", findBeacons},
		{"change_beacon_name", []string{"ID", "NAME"}, "rename a beacon", changeName},
		{"change_beacon_color", []string{"ID", "(r,g,b)"}, "recolor a beacon", changeColor},
		{"remove_beacon", []string{"ID"}, "remove a beacon and its beams", removeBeacon},

		// Lightbeams
		{"add_lightbeam", []string{"SOURCE", "TARGET"}, "send a beacon's light to another", addLightbeam},
		{"get_lightsources", []string{"ID"}, "list beacons sending light to a beacon", getLightsources},
		{"path_outbeam", []string{"ID"}, "follow a beacon's light to its end", pathOutbeam},
		{"path_inbeam_longest", []string{"ID"}, "longest chain of light ending at a beacon", pathInbeamLongest},
		{"total_color", []string{"ID"}, "aggregated color of a beacon and its sources", totalColor},

		// Fibres
		{"all_xpoints", nil, "list cross-points", allXpoints},
		{"add_fibre", []string{"(x,y)", "(x,y)", "COST"}, "connect two cross-points", addFibre},
		{"get_fibres_from", []string{"(x,y)"}, "list fibres leaving a cross-point", getFibresFrom},
		{"all_fibres", nil, "list every fibre", allFibres},
		{"remove_fibre", []string{"(x,y)", "(x,y)"}, "disconnect two cross-points", removeFibre},
		{"clear_fibres", nil, "remove every fibre", clearFibres},
		{"route_any", []string{"(x,y)", "(x,y)"}, "any route between two cross-points", routeAny},
		{"route_least_xpoints", []string{"(x,y)", "(x,y)"}, "route with the fewest fibres", routeLeast},
		{"route_fastest", []string{"(x,y)", "(x,y)"}, "route with the lowest cost", routeFastest},
		{"route_fibre_cycle", []string{"(x,y)"}, "a loop reachable from a cross-point", routeCycle},
		{"trim_fibre_network", nil, "reduce the network to a minimum spanning forest", trimNetwork},

		{"help", nil, "list commands", help},
	}
	byName = make(map[string]Command, len(commands))
	for _, c := range commands {
		byName[c.Name] = c
	}
}

// Commands returns every command in help order.
func Commands() []Command { return slices.Clone(commands) }

func lookup(name string) (Command, bool) {
	c, ok := byName[name]
	return c, ok
}

// =============================================================================
// Argument parsing
// =============================================================================

func parseCoord(s string) (model.Coord, error) {
	c, err := model.ParseCoord(s)
	if err != nil {
		return model.NoCoord, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad coordinate")
	}
	return c, nil
}

func parseColor(s string) (model.Color, error) {
	c, err := model.ParseColor(s)
	if err != nil {
		return model.NoColor, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad color")
	}
	return c, nil
}

func parseCost(s string) (model.Cost, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return model.NoCost, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad cost %q", s)
	}
	if err := errors.ValidateCost(v); err != nil {
		return model.NoCost, err
	}
	return v, nil
}

// =============================================================================
// Output
// =============================================================================

func (in *Interpreter) result(ok bool, success, failure string) {
	if ok {
		in.printf("%s", success)
		return
	}
	in.printf("Failed: %s", failure)
}

func (in *Interpreter) beaconLine(id string) {
	if id == model.NoID {
		in.printf("%s", model.NoID)
		return
	}
	in.printf("%s: %s", in.eng.Beacons.Name(id), id)
}

func (in *Interpreter) beaconLines(ids []string) {
	if len(ids) == 0 {
		in.printf("No beacons")
		return
	}
	for _, id := range ids {
		in.beaconLine(id)
	}
}

// legacyBeaconLines prints the single not-found line for a missing id and
// the id list otherwise.
func (in *Interpreter) legacyBeaconLines(id string, ids []string) {
	if _, ok := in.eng.Beacons.Get(id); !ok {
		in.printf("%s", model.NoID)
		return
	}
	in.beaconLines(ids)
}

func (in *Interpreter) steps(steps []fibre.Step) {
	if len(steps) == 0 {
		in.printf("No route found")
		return
	}
	for _, s := range steps {
		in.printf("%s: %d", s.Coord, s.Cost)
	}
}

// =============================================================================
// Beacon commands
// =============================================================================

func addBeacon(_ context.Context, in *Interpreter, a []string) error {
	if err := errors.ValidateBeaconID(a[0]); err != nil {
		return err
	}
	if err := errors.ValidateBeaconName(a[1]); err != nil {
		return err
	}
	xy, err := parseCoord(a[2])
	if err != nil {
		return err
	}
	color, err := parseColor(a[3])
	if err != nil {
		return err
	}
	in.result(in.eng.AddBeacon(a[0], a[1], xy, color),
		"Added beacon "+a[1]+": "+a[0],
		"beacon "+a[0]+" already exists")
	return nil
}

func beaconCount(_ context.Context, in *Interpreter, _ []string) error {
	in.printf("Number of beacons: %d", in.eng.Beacons.Count())
	return nil
}

func clearBeacons(_ context.Context, in *Interpreter, _ []string) error {
	in.eng.ClearBeacons()
	in.printf("Cleared all beacons")
	return nil
}

func allBeacons(_ context.Context, in *Interpreter, _ []string) error {
	in.beaconLines(in.eng.Beacons.IDs())
	return nil
}

func getName(_ context.Context, in *Interpreter, a []string) error {
	in.printf("%s", in.eng.Beacons.Name(a[0]))
	return nil
}

func getCoordinates(_ context.Context, in *Interpreter, a []string) error {
	in.printf("%s", in.eng.Beacons.Coords(a[0]))
	return nil
}

func getColor(_ context.Context, in *Interpreter, a []string) error {
	in.printf("%s", in.eng.Beacons.Color(a[0]))
	return nil
}

func beaconsAlphabetically(_ context.Context, in *Interpreter, _ []string) error {
	in.beaconLines(in.eng.Beacons.Alphabetical())
	return nil
}

func beaconsByBrightness(_ context.Context, in *Interpreter, _ []string) error {
	in.beaconLines(in.eng.Beacons.ByBrightness())
	return nil
}

func minBrightness(_ context.Context, in *Interpreter, _ []string) error {
	in.beaconLine(in.eng.Beacons.MinBrightness())
	return nil
}

func maxBrightness(_ context.Context, in *Interpreter, _ []string) error {
	in.beaconLine(in.eng.Beacons.MaxBrightness())
	return nil
}

func findBeacons(_ context.Context, in *Interpreter, a []string) error {
	in.beaconLines(in.eng.Beacons.Find(a[0]))
	return nil
}

func changeName(_ context.Context, in *Interpreter, a []string) error {
	if err := errors.ValidateBeaconName(a[1]); err != nil {
		return err
	}
	in.result(in.eng.RenameBeacon(a[0], a[1]),
		"Renamed "+a[0]+" to "+a[1],
		"no beacon "+a[0])
	return nil
}

func changeColor(_ context.Context, in *Interpreter, a []string) error {
	color, err := parseColor(a[1])
	if err != nil {
		return err
	}
	in.result(in.eng.RecolorBeacon(a[0], color),
		"Recolored "+a[0]+" to "+color.String(),
		"no beacon "+a[0])
	return nil
}

func removeBeacon(_ context.Context, in *Interpreter, a []string) error {
	name := in.eng.Beacons.Name(a[0])
	in.result(in.eng.RemoveBeacon(a[0]),
		"Removed beacon "+name+": "+a[0],
		"no beacon "+a[0])
	return nil
}

// =============================================================================
// Lightbeam commands
// =============================================================================

func addLightbeam(_ context.Context, in *Interpreter, a []string) error {
	in.result(in.eng.Wire(a[0], a[1]),
		"Added lightbeam "+a[0]+" -> "+a[1],
		"cannot send light from "+a[0]+" to "+a[1])
	return nil
}

func getLightsources(_ context.Context, in *Interpreter, a []string) error {
	in.legacyBeaconLines(a[0], in.eng.Beacons.Sources(a[0]))
	return nil
}

func pathOutbeam(_ context.Context, in *Interpreter, a []string) error {
	in.legacyBeaconLines(a[0], in.eng.Beacons.ChainToRoot(a[0]))
	return nil
}

func pathInbeamLongest(_ context.Context, in *Interpreter, a []string) error {
	in.legacyBeaconLines(a[0], in.eng.Beacons.LongestIncomingChain(a[0]))
	return nil
}

func totalColor(_ context.Context, in *Interpreter, a []string) error {
	in.printf("%s", in.eng.Beacons.AggregateColor(a[0]))
	return nil
}

// =============================================================================
// Fibre commands
// =============================================================================

func allXpoints(_ context.Context, in *Interpreter, _ []string) error {
	pts := in.eng.Fibres.Points()
	if len(pts) == 0 {
		in.printf("No cross-points")
		return nil
	}
	for _, p := range pts {
		in.printf("%s", p)
	}
	return nil
}

func addFibre(_ context.Context, in *Interpreter, a []string) error {
	from, err := parseCoord(a[0])
	if err != nil {
		return err
	}
	to, err := parseCoord(a[1])
	if err != nil {
		return err
	}
	cost, err := parseCost(a[2])
	if err != nil {
		return err
	}
	in.result(in.eng.AddFibre(from, to, cost),
		"Added fibre "+from.String()+" <-> "+to.String()+" ("+strconv.Itoa(cost)+")",
		"cannot add fibre "+from.String()+" <-> "+to.String())
	return nil
}

func getFibresFrom(_ context.Context, in *Interpreter, a []string) error {
	xy, err := parseCoord(a[0])
	if err != nil {
		return err
	}
	links := in.eng.Fibres.FibresFrom(xy)
	if len(links) == 0 {
		in.printf("No fibres")
		return nil
	}
	for _, l := range links {
		in.printf("%s: %d", l.To, l.Cost)
	}
	return nil
}

func allFibres(_ context.Context, in *Interpreter, _ []string) error {
	fibres := in.eng.Fibres.Fibres()
	if len(fibres) == 0 {
		in.printf("No fibres")
		return nil
	}
	for _, f := range fibres {
		in.printf("%s <-> %s", f.A, f.B)
	}
	return nil
}

func removeFibre(_ context.Context, in *Interpreter, a []string) error {
	from, err := parseCoord(a[0])
	if err != nil {
		return err
	}
	to, err := parseCoord(a[1])
	if err != nil {
		return err
	}
	in.result(in.eng.RemoveFibre(from, to),
		"Removed fibre "+from.String()+" <-> "+to.String(),
		"no fibre "+from.String()+" <-> "+to.String())
	return nil
}

func clearFibres(_ context.Context, in *Interpreter, _ []string) error {
	in.eng.ClearFibres()
	in.printf("Cleared all fibres")
	return nil
}

func routeArgs(a []string) (model.Coord, model.Coord, error) {
	from, err := parseCoord(a[0])
	if err != nil {
		return model.NoCoord, model.NoCoord, err
	}
	to, err := parseCoord(a[1])
	if err != nil {
		return model.NoCoord, model.NoCoord, err
	}
	return from, to, nil
}

func routeAny(ctx context.Context, in *Interpreter, a []string) error {
	from, to, err := routeArgs(a)
	if err != nil {
		return err
	}
	in.steps(in.eng.RouteAny(ctx, from, to))
	return nil
}

func routeLeast(ctx context.Context, in *Interpreter, a []string) error {
	from, to, err := routeArgs(a)
	if err != nil {
		return err
	}
	in.steps(in.eng.RouteLeastPoints(ctx, from, to))
	return nil
}

func routeFastest(ctx context.Context, in *Interpreter, a []string) error {
	from, to, err := routeArgs(a)
	if err != nil {
		return err
	}
	in.steps(in.eng.RouteFastest(ctx, from, to))
	return nil
}

func routeCycle(ctx context.Context, in *Interpreter, a []string) error {
	start, err := parseCoord(a[0])
	if err != nil {
		return err
	}
	loop := in.eng.RouteCycle(ctx, start)
	if len(loop) == 0 {
		in.printf("No fibre cycles found")
		return nil
	}
	for _, p := range loop {
		in.printf("%s", p)
	}
	return nil
}

func trimNetwork(ctx context.Context, in *Interpreter, _ []string) error {
	cost := in.eng.Trim(ctx)
	if cost == model.NoCost {
		in.printf("Fibre network is empty")
		return nil
	}
	in.printf("Trimmed fibre network, total cost: %d", cost)
	return nil
}

func help(_ context.Context, in *Interpreter, _ []string) error {
	width := 0
	for _, c := range commands {
		width = max(width, len(c.Usage()))
	}
	for _, c := range commands {
		in.printf("%-*s  %s", width, c.Usage(), c.Help)
	}
	return nil
}
