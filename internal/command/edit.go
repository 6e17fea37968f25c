package command

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hexforge/scriptstudio/internal/config"
	"github.com/hexforge/scriptstudio/internal/editor"
	"github.com/hexforge/scriptstudio/internal/panel"
	"github.com/hexforge/scriptstudio/internal/scene"
	"github.com/hexforge/scriptstudio/internal/scripting"
)

// EditCommand opens the property grid panel on a scene document.
type EditCommand struct {
	*BaseCommand
	cfg *config.Config
}

// NewEditCommand creates the edit command.
func NewEditCommand(cfg *config.Config) *EditCommand {
	return &EditCommand{
		BaseCommand: NewBaseCommand("edit", "Edit a scene's script components in the property grid", "edit <scene.yaml>"),
		cfg:         cfg,
	}
}

// Execute implements Command.
func (c *EditCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: scriptstudio %s", c.Usage())
	}
	scenePath := args[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := scripting.NewLogger(nil, 1000)
	engine := scripting.NewEngine(ctx, io.Discard, logger)

	sc := scene.NewMemoryScene(logger.Slog())
	sc.SetBackend(engine)
	doc, err := scene.LoadDocument(scenePath)
	if err != nil {
		return err
	}
	handles := sc.Populate(doc)
	if len(handles) == 0 {
		handles = append(handles, sc.CreateComponent())
	}

	grid := panel.NewGrid(sc, editor.NewExecutor(), logger, handles, panel.GridOptions{
		FloatStep: c.cfg.Console.FloatStep,
		ScenePath: scenePath,
	})

	p := tea.NewProgram(grid, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("property grid failed: %w", err)
	}

	for _, w := range logger.Recent(10) {
		_, _ = fmt.Fprintf(stderr, "%s: %s\n", w.Level, w.Message)
	}
	return nil
}
