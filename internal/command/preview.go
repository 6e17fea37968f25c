package command

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hexforge/scriptstudio/internal/assets"
	"github.com/hexforge/scriptstudio/internal/config"
	"github.com/hexforge/scriptstudio/internal/panel"
	"github.com/hexforge/scriptstudio/internal/scripting"
)

// PreviewCommand opens the asset preview editor on a script source file.
type PreviewCommand struct {
	*BaseCommand
	cfg *config.Config
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(cfg *config.Config) *PreviewCommand {
	return &PreviewCommand{
		BaseCommand: NewBaseCommand("preview", "Preview and edit a script source", "preview <script.js>"),
		cfg:         cfg,
	}
}

// Execute implements Command.
func (c *PreviewCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: scriptstudio %s", c.Usage())
	}

	logger := scripting.NewLogger(nil, 100)
	editorCmd, _ := c.cfg.GetCommandOption("preview", "editor")
	pv, err := panel.NewPreview(args[0], logger, editorCmd)
	if err != nil {
		return err
	}

	p := tea.NewProgram(pv, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return nil
}

// NewScriptCommand creates a new empty script source file.
type NewScriptCommand struct {
	*BaseCommand
}

// NewNewScriptCommand creates the new command.
func NewNewScriptCommand() *NewScriptCommand {
	return &NewScriptCommand{
		BaseCommand: NewBaseCommand("new", "Create a new empty script source", "new <script.js>"),
	}
}

// Execute implements Command.
func (c *NewScriptCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: scriptstudio %s", c.Usage())
	}
	if err := assets.CreateEmpty(args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "created %s\n", args[0])
	return nil
}
