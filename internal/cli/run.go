package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beaconnet/pkg/script"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	scenario    string // scenario file loaded before the first script
	stopOnError bool   // stop at the first failing line instead of reporting and continuing
	save        string // write the final state to this scenario file
}

// runCommand creates the run command, which executes command scripts.
// A script argument of "-" reads from standard input.
func (c *CLI) runCommand() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run SCRIPT...",
		Short: "Execute beacon command scripts",
		Long: `Execute one or more command scripts against a single engine.

Scripts share state, so a later script sees the beacons and fibres created by
an earlier one. Failing lines print "Error: ..." and execution continues unless
--stop-on-error is given. Use "beaconnet run - <<<help" to list the commands.`,
		Example: `  beaconnet run setup.txt queries.txt
  beaconnet run --scenario city.toml routes.txt
  echo 'route_fastest (0,0) (2,2)' | beaconnet run --scenario city.toml -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScripts(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", "scenario file to load first")
	cmd.Flags().BoolVar(&opts.stopOnError, "stop-on-error", false, "stop at the first failing line")
	cmd.Flags().StringVar(&opts.save, "save", "", "save the final state as a scenario file")

	return cmd
}

func (c *CLI) runScripts(cmd *cobra.Command, paths []string, opts runOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	eng, _, err := c.newEngine(opts.scenario)
	if err != nil {
		return err
	}
	in := script.New(eng, cmd.OutOrStdout())

	var failed error
	for _, path := range paths {
		prog := newProgress(logger)
		if err := c.runScript(cmd, in, path, opts.stopOnError); err != nil {
			if opts.stopOnError {
				return fmt.Errorf("%s: %w", path, err)
			}
			failed = fmt.Errorf("%s: some lines failed", path)
		}
		prog.done(fmt.Sprintf("Ran %s", path))
	}

	if opts.save != "" {
		if err := c.saveState(cmd, eng, opts.save); err != nil {
			return err
		}
	}
	return failed
}

func (c *CLI) runScript(cmd *cobra.Command, in *script.Interpreter, path string, stop bool) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if stop {
		return in.Run(cmd.Context(), r)
	}
	return in.RunAll(cmd.Context(), r)
}
