package command

import (
	"fmt"
	"io"
)

// HelpCommand prints usage for all registered commands.
type HelpCommand struct {
	*BaseCommand
	registry *Registry
}

// NewHelpCommand creates the help command.
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{
		BaseCommand: NewBaseCommand("help", "Show help for commands", "help [command]"),
		registry:    registry,
	}
}

// Execute implements Command.
func (c *HelpCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		cmd, err := c.registry.Get(args[0])
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "Usage: scriptstudio %s\n\n%s\n", cmd.Usage(), cmd.Description())
		return nil
	}

	_, _ = fmt.Fprintln(stdout, "scriptstudio - script component editor tooling")
	_, _ = fmt.Fprintln(stdout, "\nCommands:")
	for _, name := range c.registry.List() {
		cmd, _ := c.registry.Get(name)
		_, _ = fmt.Fprintf(stdout, "  %-10s %s\n", name, cmd.Description())
	}
	_, _ = fmt.Fprintln(stdout, "\nUse 'scriptstudio help <command>' for details.")
	return nil
}

// VersionCommand prints the build version.
type VersionCommand struct {
	*BaseCommand
	version string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *VersionCommand {
	return &VersionCommand{
		BaseCommand: NewBaseCommand("version", "Show version information", "version"),
		version:     version,
	}
}

// Execute implements Command.
func (c *VersionCommand) Execute(args []string, stdout, stderr io.Writer) error {
	_, _ = fmt.Fprintf(stdout, "scriptstudio %s\n", c.version)
	return nil
}
