package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/vex/cmd/vexc/internal/ui"
	"github.com/recera/vex/pkg/sfc"
)

// defaultTemplate seeds the explorer when no file is given.
const defaultTemplate = `<div class="counter">
  <p v-if="count > 0">{{ count }}</p>
  <p v-else>press start</p>
  <button @click="increment">+1</button>
</div>
`

func newExploreCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Interactively explore generated code",
		Long: `Opens a terminal playground: edit a template on the left and watch the
compiled module update live on the right, switching backends on the fly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(args, mode)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Initial backend: dom, vapor or ssr")

	return cmd
}

func runExplore(args []string, mode string) error {
	cfg, err := loadConfig(mode, "", "")
	if err != nil {
		return err
	}

	initial := defaultTemplate
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		file, err := sfc.Parse(args[0], string(data))
		if err != nil {
			return err
		}
		if file.Template == nil {
			return fmt.Errorf("%s has no template block", args[0])
		}
		initial = file.Template.Content
	}

	p := tea.NewProgram(
		ui.NewModel(initial, cfg.BackendMode(), cfg.RuntimeModule),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explorer error: %w", err)
	}
	return nil
}
