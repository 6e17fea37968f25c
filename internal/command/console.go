package command

import (
	"context"
	"flag"
	"io"

	"github.com/hexforge/scriptstudio/internal/config"
	"github.com/hexforge/scriptstudio/internal/console"
	"github.com/hexforge/scriptstudio/internal/scene"
	"github.com/hexforge/scriptstudio/internal/scripting"
)

// ConsoleCommand runs the interactive script console against a scene.
type ConsoleCommand struct {
	*BaseCommand
	cfg       *config.Config
	scenePath string
}

// NewConsoleCommand creates the console command.
func NewConsoleCommand(cfg *config.Config) *ConsoleCommand {
	return &ConsoleCommand{
		BaseCommand: NewBaseCommand("console", "Run the interactive script console", "console [-scene file.yaml]"),
		cfg:         cfg,
	}
}

// SetupFlags implements Command.
func (c *ConsoleCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.scenePath, "scene", "", "scene document to load and expose as 'scene'")
}

// Execute implements Command.
func (c *ConsoleCommand) Execute(args []string, stdout, stderr io.Writer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := scripting.NewLogger(stderr, 1000)
	engine := scripting.NewEngine(ctx, stdout, logger)

	sc := scene.NewMemoryScene(logger.Slog())
	sc.SetBackend(engine)
	if c.scenePath != "" {
		doc, err := scene.LoadDocument(c.scenePath)
		if err != nil {
			return err
		}
		sc.Populate(doc)
	}
	BindSceneAPI(engine, sc)

	cons := console.New(engine)
	cons.RunREPL(console.ReplOptions{
		HistoryFile:  c.cfg.Console.HistoryFile,
		HistoryLimit: c.cfg.Console.HistoryLimit,
		Output:       stdout,
		PromptColor:  c.cfg.Console.PromptColor,
	})
	return nil
}
