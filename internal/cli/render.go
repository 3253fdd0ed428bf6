package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beaconnet/pkg/errors"
	"github.com/matzehuels/beaconnet/pkg/pipeline"
	"github.com/matzehuels/beaconnet/pkg/render"
	"github.com/matzehuels/beaconnet/pkg/scenario"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	scenario  string  // scenario file
	view      string  // "network" or "beams"
	formats   string  // comma-separated output formats
	output    string  // output base path; extensions are appended
	route     string  // "FROM;TO" route to highlight
	algorithm string  // route algorithm for --route
	cycle     string  // start point of a loop to highlight
	scale     float64 // inches per grid unit
	noCache   bool    // disable the render cache
	refresh   bool    // re-render even if cached
}

// renderCommand creates the render command for drawing scenarios.
//
// Default settings:
//   - view: network (fibres laid out at their coordinates with neato)
//   - format: svg
//   - output: the scenario path without its extension
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		view:      pipeline.DefaultView,
		formats:   string(render.FormatSVG),
		algorithm: pipeline.RouteFastest,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scenario with Graphviz",
		Long: `Render the fibre network or the lightbeam trees of a scenario.

The network view pins every cross-point at its coordinate; --route or --cycle
highlight a walk through it. The beams view draws each lightbeam tree with
its root at the top. Rendered files are cached by scenario content.`,
		Example: `  beaconnet render --scenario city.toml
  beaconnet render --scenario city.toml --route "0,0;2,2" --format svg,png -o out/city
  beaconnet render --scenario city.toml --view beams --format dot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "scenario file (required)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "view: network or beams")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "comma-separated formats: svg, png, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: scenario path without extension)")
	cmd.Flags().StringVar(&opts.route, "route", "", `highlight a route, written "FROM;TO" (e.g. "0,0;2,2")`)
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", opts.algorithm, "route algorithm for --route: fastest, least or any")
	cmd.Flags().StringVar(&opts.cycle, "cycle", "", "highlight a fibre loop reachable from this point")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "inches per grid unit in the network view")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if a cached drawing exists")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	if err := requireScenario(opts.scenario); err != nil {
		return err
	}
	formats, err := render.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	route, err := parseRouteFlags(opts)
	if err != nil {
		return err
	}
	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(opts.scenario, filepath.Ext(opts.scenario))
	}
	if err := errors.ValidateOutputBase(base); err != nil {
		return err
	}

	sc, err := scenario.Load(opts.scenario)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s view...", opts.view))
	spin.Start()
	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, pipeline.Options{
		Scenario: sc,
		View:     opts.view,
		Formats:  formats,
		Route:    route,
		Scale:    opts.scale,
		Refresh:  opts.refresh,
		Strict:   c.strict,
	})
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(result.Artifacts)))

	out := cmd.OutOrStdout()
	if route != nil && len(result.Steps) == 0 {
		printError(out, "Nothing to highlight for %s", route)
	}
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	printSuccess(out, "Rendered %s", StyleHighlight.Render(sc.Name))
	printStats(out, result.Stats.Beacons, result.Stats.Fibres, result.CacheInfo.RenderHit)
	for _, f := range formats {
		path := base + "." + string(f)
		if err := os.WriteFile(path, result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(out, path)
	}
	return nil
}

// parseRouteFlags turns --route/--algorithm/--cycle into a route spec.
func parseRouteFlags(opts renderOpts) (*pipeline.RouteSpec, error) {
	if opts.route != "" && opts.cycle != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--route and --cycle cannot be combined")
	}
	if opts.cycle != "" {
		start, err := parseCoordArg(opts.cycle)
		if err != nil {
			return nil, err
		}
		return &pipeline.RouteSpec{Algorithm: pipeline.RouteCycle, From: start}, nil
	}
	if opts.route == "" {
		return nil, nil
	}
	ends := strings.Split(opts.route, ";")
	if len(ends) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--route must be FROM;TO, got %q", opts.route)
	}
	from, err := parseCoordArg(ends[0])
	if err != nil {
		return nil, err
	}
	to, err := parseCoordArg(ends[1])
	if err != nil {
		return nil, err
	}
	spec := &pipeline.RouteSpec{Algorithm: opts.algorithm, From: from, To: to}
	if opts.algorithm == pipeline.RouteCycle {
		return nil, errors.New(errors.ErrCodeInvalidInput, "use --cycle to highlight a loop")
	}
	if err := pipeline.ValidateRoute(spec); err != nil {
		return nil, err
	}
	return spec, nil
}
