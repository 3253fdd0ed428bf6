package cli

import (
	"bytes"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beaconnet/pkg/script"
)

// shellCommand creates the interactive shell command.
func (c *CLI) shellCommand() *cobra.Command {
	var path, save string

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively",
		Long: `Start an interactive command interpreter. Every line is one script
command; type help to list them and quit or esc to leave.`,
		Example: `  beaconnet shell --scenario city.toml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := c.newEngine(path)
			if err != nil {
				return err
			}

			var out bytes.Buffer
			model := NewShellModel(cmd.Context(), script.New(eng, &out), &out)
			p := tea.NewProgram(model,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return err
			}

			if save != "" {
				return c.saveState(cmd, eng, save)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "scenario", "s", "", "scenario file to load first")
	cmd.Flags().StringVar(&save, "save", "", "save the final state as a scenario file on exit")
	return cmd
}
