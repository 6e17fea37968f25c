package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
)

// ReplOptions configures the interactive console loop.
type ReplOptions struct {
	// HistoryFile, when non-empty, seeds the prompt history and appends
	// executed lines.
	HistoryFile string
	// HistoryLimit bounds how many lines are loaded from HistoryFile; 0
	// means unbounded.
	HistoryLimit int
	// Output receives result and help text. Defaults to os.Stdout.
	Output io.Writer
	// PromptColor names the prefix color; unrecognized names fall back to
	// cyan.
	PromptColor string
}

// RunREPL runs the interactive console until the user exits. Each submitted
// line is evaluated immediately; dotted-path completion against the global
// namespace drives the suggestion popup (up/down to navigate, enter to
// insert, esc to dismiss, per go-prompt's selection behavior).
func (c *Console) RunREPL(opts ReplOptions) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	_, _ = fmt.Fprintln(out, "script console - type JS to evaluate it")
	_, _ = fmt.Fprintln(out, "commands: .load <file>, .log [n], .clear, exit")

	executor := func(line string) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			return
		case trimmed == "exit" || trimmed == "quit":
			os.Exit(0)
		case strings.HasPrefix(trimmed, ".load "):
			path := strings.TrimSpace(strings.TrimPrefix(trimmed, ".load"))
			if err := c.ExecuteFile(path); err == nil {
				_, _ = fmt.Fprintf(out, "loaded %s\n", path)
			}
			return
		case trimmed == ".log" || strings.HasPrefix(trimmed, ".log "):
			n := 20
			if rest := strings.TrimSpace(strings.TrimPrefix(trimmed, ".log")); rest != "" {
				_, _ = fmt.Sscanf(rest, "%d", &n)
			}
			_, _ = io.WriteString(out, c.RecentLog(n))
			return
		case trimmed == ".clear":
			c.engine.Logger().Clear()
			return
		}
		if result, err := c.EvalLine(line); err == nil && result != "" {
			_, _ = fmt.Fprintln(out, result)
		}
		if opts.HistoryFile != "" {
			appendHistory(opts.HistoryFile, line)
		}
	}

	completer := func(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
		before := d.TextBeforeCursor()
		cursor := len([]rune(before))
		candidates := c.Complete(before, cursor)
		// A unique candidate never opens the popup; tab inserts it directly
		// through the key binding below.
		if len(candidates) < 2 {
			return nil, 0, 0
		}
		// Replace only the trailing identifier, never the full path.
		start := WordStart(before, cursor)
		suggestions := make([]prompt.Suggest, len(candidates))
		for i, cand := range candidates {
			suggestions[i] = prompt.Suggest{Text: cand}
		}
		return suggestions, istrings.RuneNumber(start), istrings.RuneNumber(cursor)
	}

	acceptUnique := prompt.KeyBind{
		Key: prompt.Tab,
		Fn: func(p *prompt.Prompt) bool {
			before := p.Buffer().Document().TextBeforeCursor()
			remainder, ok := c.AcceptCompletion(before, len([]rune(before)))
			if !ok {
				return false
			}
			p.InsertTextMoveCursor(remainder, false)
			return true
		},
	}

	options := []prompt.Option{
		prompt.WithPrefix("js> "),
		prompt.WithPrefixTextColor(parseColor(opts.PromptColor)),
		prompt.WithCompleter(completer),
		prompt.WithKeyBind(acceptUnique),
	}
	if opts.HistoryFile != "" {
		if history := loadHistory(opts.HistoryFile, opts.HistoryLimit); len(history) > 0 {
			options = append(options, prompt.WithHistory(history))
		}
	}

	p := prompt.New(executor, options...)
	p.Run()
}

// parseColor converts a color name to prompt.Color.
func parseColor(name string) prompt.Color {
	switch strings.ToLower(name) {
	case "black":
		return prompt.Black
	case "red":
		return prompt.Red
	case "green":
		return prompt.Green
	case "yellow":
		return prompt.Yellow
	case "blue":
		return prompt.Blue
	case "fuchsia":
		return prompt.Fuchsia
	case "white":
		return prompt.White
	case "turquoise":
		return prompt.Turquoise
	default:
		return prompt.Cyan
	}
}

// loadHistory reads up to limit most recent non-blank lines from path.
func loadHistory(path string, limit int) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}

func appendHistory(path, line string) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = fmt.Fprintln(f, line)
}
