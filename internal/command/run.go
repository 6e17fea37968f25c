package command

import (
	"context"
	"fmt"
	"io"

	"github.com/hexforge/scriptstudio/internal/scripting"
)

// RunCommand evaluates script files and exits, for non-interactive use.
type RunCommand struct {
	*BaseCommand
}

// NewRunCommand creates the run command.
func NewRunCommand() *RunCommand {
	return &RunCommand{
		BaseCommand: NewBaseCommand("run", "Evaluate script files", "run <file.js> [...]"),
	}
}

// Execute implements Command.
func (c *RunCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: scriptstudio %s", c.Usage())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := scripting.NewLogger(stderr, 1000)
	engine := scripting.NewEngine(ctx, stdout, logger)

	for _, path := range args {
		if _, err := engine.EvalFile(path); err != nil {
			return err
		}
	}
	return nil
}
