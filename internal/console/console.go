// Package console implements the script console: a draft buffer evaluated
// against the scripting engine, with object-graph autocompletion over the
// engine's global namespace.
package console

import (
	"fmt"
	"strings"

	"github.com/hexforge/scriptstudio/internal/scripting"
)

// Console holds the script draft buffer and wires completion to the
// evaluator's global namespace. Failures are reported through the engine's
// logger; the console stays usable after errors.
type Console struct {
	engine *scripting.Engine
	buffer string

	// pendingInsert is the candidate queued for insertion when completion
	// produced exactly one match.
	pendingInsert string
}

// New creates a console over the given engine.
func New(engine *scripting.Engine) *Console {
	return &Console{engine: engine}
}

// Buffer returns the current draft.
func (c *Console) Buffer() string { return c.buffer }

// SetBuffer replaces the draft.
func (c *Console) SetBuffer(s string) { c.buffer = s }

// Execute hands the draft to the evaluator. Evaluation errors are logged
// and returned; the buffer is kept either way.
func (c *Console) Execute() error {
	return c.eval(c.buffer)
}

// ExecuteFile evaluates a script file. Open failures and evaluation errors
// are logged and returned.
func (c *Console) ExecuteFile(path string) error {
	if _, err := c.engine.EvalFile(path); err != nil {
		c.engine.Logger().Error(err.Error())
		return err
	}
	return nil
}

// EvalLine evaluates one line of input, returning the result's display text.
// Undefined results display as the empty string.
func (c *Console) EvalLine(line string) (string, error) {
	v, err := c.engine.Eval(line)
	if err != nil {
		c.engine.Logger().Error(err.Error())
		return "", err
	}
	if v == nil {
		return "", nil
	}
	s := v.String()
	if s == "undefined" {
		return "", nil
	}
	return s, nil
}

func (c *Console) eval(src string) error {
	if _, err := c.engine.Eval(src); err != nil {
		c.engine.Logger().Error(err.Error())
		return err
	}
	return nil
}

// Complete runs autocompletion for the dotted path ending at cursor (a rune
// index into text). It returns the candidate leaf names sorted ascending.
// When exactly one candidate results it is queued for insertion and applied
// by TakePendingInsert/Insert; callers should open a selection popup
// otherwise.
func (c *Console) Complete(text string, cursor int) []string {
	path := PathPrefix(text, cursor)
	if path == "" {
		return nil
	}
	candidates := scripting.Complete(c.engine.GlobalNamespace(), path)
	if len(candidates) == 1 {
		c.pendingInsert = candidates[0]
	}
	return candidates
}

// AcceptCompletion completes the path ending at cursor when it resolves to
// exactly one candidate: the queued insertion is consumed and the text that
// finishes the typed partial in place is returned. ok is false when the
// candidate set is empty or ambiguous.
func (c *Console) AcceptCompletion(text string, cursor int) (string, bool) {
	if len(c.Complete(text, cursor)) != 1 {
		c.pendingInsert = ""
		return "", false
	}
	candidate, ok := c.TakePendingInsert()
	if !ok {
		return "", false
	}
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		cursor = len(runes)
	}
	partial := string(runes[WordStart(text, cursor):cursor])
	if !strings.HasPrefix(candidate, partial) {
		return "", false
	}
	return strings.TrimPrefix(candidate, partial), true
}

// TakePendingInsert returns and clears the queued single-candidate
// insertion, if any.
func (c *Console) TakePendingInsert() (string, bool) {
	if c.pendingInsert == "" {
		return "", false
	}
	v := c.pendingInsert
	c.pendingInsert = ""
	return v, true
}

// Insert replaces the partially typed trailing identifier before cursor with
// candidate, returning the new text and cursor position. Only the plain
// identifier run is replaced, never the preceding path.
func Insert(text string, cursor int, candidate string) (string, int) {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		cursor = len(runes)
	}
	start := WordStart(text, cursor)
	out := string(runes[:start]) + candidate + string(runes[cursor:])
	return out, start + len([]rune(candidate))
}

// isWordChar reports whether r belongs to an identifier.
func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// WordStart scans backward from cursor over identifier characters and
// returns the rune index where the current identifier begins.
func WordStart(text string, cursor int) int {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		cursor = len(runes)
	}
	start := cursor
	for start > 0 && isWordChar(runes[start-1]) {
		start--
	}
	return start
}

// PathPrefix extracts the identifier-or-dotted-path run ending at cursor:
// the substring produced by scanning backward over identifier characters and
// the path separator.
func PathPrefix(text string, cursor int) string {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		cursor = len(runes)
	}
	start := cursor
	for start > 0 && (isWordChar(runes[start-1]) || runes[start-1] == '.') {
		start--
	}
	return string(runes[start:cursor])
}

// RecentLog formats the n most recent log entries for display.
func (c *Console) RecentLog(n int) string {
	entries := c.engine.Logger().Recent(n)
	out := ""
	for _, e := range entries {
		out += fmt.Sprintf("%s %s: %s\n", e.Time.Format("15:04:05"), e.Level, e.Message)
	}
	return out
}
