package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/fibre"
	"github.com/matzehuels/beaconnet/pkg/model"
	"github.com/matzehuels/beaconnet/pkg/pipeline"
	"github.com/matzehuels/beaconnet/pkg/scenario"
)

// =============================================================================
// route
// =============================================================================

// routeCommand creates the route command for point-to-point queries.
func (c *CLI) routeCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "route fastest|least|any FROM TO",
		Short: "Find a route between two cross-points",
		Long: `Find a route through the fibre network of a scenario.

  fastest  lowest total fibre cost
  least    fewest cross-points
  any      the first route a depth-first search finds

Coordinates are written x,y.`,
		Example:   `  beaconnet route fastest 0,0 2,2 --scenario city.toml`,
		ValidArgs: []string{pipeline.RouteFastest, pipeline.RouteLeast, pipeline.RouteAny},
		Args:      cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireScenario(path); err != nil {
				return err
			}
			from, err := parseCoordArg(args[1])
			if err != nil {
				return err
			}
			to, err := parseCoordArg(args[2])
			if err != nil {
				return err
			}
			eng, _, err := c.newEngine(path)
			if err != nil {
				return err
			}

			var steps []fibre.Step
			switch args[0] {
			case pipeline.RouteFastest:
				steps = eng.RouteFastest(cmd.Context(), from, to)
			case pipeline.RouteLeast:
				steps = eng.RouteLeastPoints(cmd.Context(), from, to)
			case pipeline.RouteAny:
				steps = eng.RouteAny(cmd.Context(), from, to)
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown route algorithm %q (must be one of: fastest, least, any)", args[0])
			}

			out := cmd.OutOrStdout()
			if len(steps) == 0 {
				printInfo(out, "No route from %s to %s", from, to)
				return nil
			}
			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = []string{strconv.Itoa(i), s.Coord.String(), strconv.Itoa(s.Cost)}
			}
			printTable(out, []string{"#", "Point", "Cost"}, rows)
			printSuccess(out, "%d hops, total cost %s", len(steps)-1,
				StyleHighlight.Render(strconv.Itoa(steps[len(steps)-1].Cost)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "scenario", "s", "", "scenario file (required)")
	return cmd
}

// =============================================================================
// cycle
// =============================================================================

// cycleCommand creates the cycle command, which finds a fibre loop reachable
// from a cross-point.
func (c *CLI) cycleCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:     "cycle FROM",
		Short:   "Find a fibre loop reachable from a cross-point",
		Example: `  beaconnet cycle 0,0 --scenario city.toml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireScenario(path); err != nil {
				return err
			}
			start, err := parseCoordArg(args[0])
			if err != nil {
				return err
			}
			eng, _, err := c.newEngine(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			loop := eng.RouteCycle(cmd.Context(), start)
			if len(loop) == 0 {
				printInfo(out, "No fibre cycles reachable from %s", start)
				return nil
			}
			rows := make([][]string, len(loop))
			for i, p := range loop {
				rows[i] = []string{strconv.Itoa(i), p.String()}
			}
			printTable(out, []string{"#", "Point"}, rows)
			printSuccess(out, "Loop closes at %s", StyleHighlight.Render(loop[len(loop)-1].String()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "scenario", "s", "", "scenario file (required)")
	return cmd
}

// =============================================================================
// beams
// =============================================================================

// beamsCommand creates the beams command for lightbeam tree queries.
func (c *CLI) beamsCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "beams chain|sources|longest|color ID",
		Short: "Query the lightbeam trees of a scenario",
		Long: `Query the lightbeam trees of a scenario.

  chain    the beacon and every beacon its light passes through
  sources  beacons sending light directly to the beacon
  longest  the longest chain of beacons ending at the beacon
  color    the beacon's own and aggregated colour`,
		Example:   `  beaconnet beams longest C --scenario city.toml`,
		ValidArgs: []string{"chain", "sources", "longest", "color"},
		Args:      cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireScenario(path); err != nil {
				return err
			}
			eng, _, err := c.newEngine(path)
			if err != nil {
				return err
			}
			id := args[1]
			if _, ok := eng.Beacons.Get(id); !ok {
				return errors.New(errors.ErrCodeNotFound, "no beacon with id %q", id)
			}

			out := cmd.OutOrStdout()
			switch args[0] {
			case "chain":
				printBeacons(cmd, eng, eng.Beacons.ChainToRoot(id), "no outgoing beam")
			case "sources":
				printBeacons(cmd, eng, eng.Beacons.Sources(id), "no incoming beams")
			case "longest":
				printBeacons(cmd, eng, eng.Beacons.LongestIncomingChain(id), "no incoming beams")
			case "color":
				printKeyValue(out, "Beacon", fmt.Sprintf("%s (%s)", eng.Beacons.Name(id), id))
				printKeyValue(out, "Color", eng.Beacons.Color(id).String())
				printKeyValue(out, "Aggregate", eng.Beacons.AggregateColor(id).String())
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown beams query %q (must be one of: chain, sources, longest, color)", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "scenario", "s", "", "scenario file (required)")
	return cmd
}

// printBeacons prints ids with names and brightness as a table.
func printBeacons(cmd *cobra.Command, eng *engine.Engine, ids []string, empty string) {
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		printInfo(out, "%s", empty)
		return
	}
	rows := make([][]string, len(ids))
	for i, id := range ids {
		b, _ := eng.Beacons.Get(id)
		rows[i] = []string{id, b.Name, b.Coord.String(), strconv.Itoa(b.Brightness)}
	}
	printTable(out, []string{"ID", "Name", "Coord", "Brightness"}, rows)
}

// =============================================================================
// trim
// =============================================================================

// trimOpts holds the command-line flags for the trim command.
type trimOpts struct {
	scenario string
	apply    bool   // remove the redundant fibres and save the result
	output   string // where to save; defaults to the scenario file
}

// trimCommand creates the trim command, which reduces the fibre network to a
// minimum spanning forest.
func (c *CLI) trimCommand() *cobra.Command {
	var opts trimOpts

	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Reduce a fibre network to its cheapest spanning forest",
		Long: `Compute the cheapest set of fibres that keeps every connected group of
cross-points connected. Without --apply only the cost is reported.`,
		Example: `  beaconnet trim --scenario city.toml
  beaconnet trim --scenario city.toml --apply -o city-trimmed.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireScenario(opts.scenario); err != nil {
				return err
			}
			eng, sc, err := c.newEngine(opts.scenario)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			before := eng.Fibres.FibreCount()
			if !opts.apply {
				cost := eng.Fibres.SpanningCost()
				if cost == model.NoCost {
					printInfo(out, "Fibre network is empty")
					return nil
				}
				printSuccess(out, "Spanning cost %s", StyleHighlight.Render(strconv.Itoa(cost)))
				printNextStep(out, "Remove redundant fibres", "beaconnet trim --scenario "+opts.scenario+" --apply")
				return nil
			}

			cost := eng.Trim(cmd.Context())
			if cost == model.NoCost {
				printInfo(out, "Fibre network is empty")
				return nil
			}
			printSuccess(out, "Trimmed fibre network, total cost %s", StyleHighlight.Render(strconv.Itoa(cost)))
			printDetail(out, "Removed %d of %d fibres", before-eng.Fibres.FibreCount(), before)

			dest := opts.output
			if dest == "" {
				dest = opts.scenario
			}
			return c.saveStateNamed(cmd, eng, sc.Name, dest)
		},
	}

	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "scenario file (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "remove redundant fibres and save the scenario")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output scenario file (default: overwrite --scenario)")
	return cmd
}

// =============================================================================
// Saving
// =============================================================================

// saveState writes the engine as a scenario named after the file.
func (c *CLI) saveState(cmd *cobra.Command, eng *engine.Engine, path string) error {
	return c.saveStateNamed(cmd, eng, "", path)
}

func (c *CLI) saveStateNamed(cmd *cobra.Command, eng *engine.Engine, name, path string) error {
	if err := errors.ValidateOutputBase(path); err != nil {
		return err
	}
	if name == "" {
		name = path
	}
	if err := scenario.FromEngine(eng, name).Save(path); err != nil {
		return err
	}
	printFile(cmd.ErrOrStderr(), path)
	return nil
}
