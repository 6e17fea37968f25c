package editor

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hexforge/scriptstudio/internal/scene"
)

// Executor runs commands and maintains the undo/redo stacks. It is intended
// for a single goroutine (the UI loop); nothing here locks.
type Executor struct {
	undo []stackEntry
	redo []Command
}

type stackEntry struct {
	id  uuid.UUID
	cmd Command
}

// NewExecutor creates an empty executor.
func NewExecutor() *Executor { return &Executor{} }

// Execute runs cmd and records it for undo. If cmd merges into the current
// undo-stack top it is discarded after executing; otherwise it is pushed.
// Executing anything truncates the redo history.
func (e *Executor) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("command %s failed: %w", cmd.Type(), err)
	}
	e.redo = e.redo[:0]
	if n := len(e.undo); n > 0 {
		top := e.undo[n-1].cmd
		if top.Type() == cmd.Type() && cmd.Merge(top) {
			return nil
		}
	}
	e.undo = append(e.undo, stackEntry{id: uuid.New(), cmd: cmd})
	return nil
}

// Undo reverts the most recent command, reporting whether there was one.
func (e *Executor) Undo() bool {
	n := len(e.undo)
	if n == 0 {
		return false
	}
	entry := e.undo[n-1]
	e.undo = e.undo[:n-1]
	entry.cmd.Undo()
	e.redo = append(e.redo, entry.cmd)
	return true
}

// Redo re-executes the most recently undone command, reporting whether
// there was one.
func (e *Executor) Redo() bool {
	n := len(e.redo)
	if n == 0 {
		return false
	}
	cmd := e.redo[n-1]
	e.redo = e.redo[:n-1]
	if err := cmd.Execute(); err != nil {
		// A redo replays a command that already succeeded once on this
		// scene; surface the inconsistency instead of silently dropping it.
		panic(err)
	}
	e.undo = append(e.undo, stackEntry{id: uuid.New(), cmd: cmd})
	return true
}

// HistoryEntry identifies one recorded command on the undo stack.
type HistoryEntry struct {
	ID   uuid.UUID
	Type string
}

// History returns the undo stack contents, oldest first. A merged edit keeps
// the identity of the entry it merged into; a redone command is a new entry.
func (e *Executor) History() []HistoryEntry {
	out := make([]HistoryEntry, len(e.undo))
	for i, entry := range e.undo {
		out[i] = HistoryEntry{ID: entry.id, Type: entry.cmd.Type()}
	}
	return out
}

// UndoDepth returns the number of undoable commands.
func (e *Executor) UndoDepth() int { return len(e.undo) }

// RedoDepth returns the number of redoable commands.
func (e *Executor) RedoDepth() int { return len(e.redo) }

// Creator builds a blank command of one type bound to a scene, ready for
// Deserialize.
type Creator func(s scene.Scene) Command

// Creators maps command type names to constructors, mirroring the host's
// command-creator registration.
var Creators = map[string]Creator{
	"add_script":          func(s scene.Scene) Command { return &AddScript{Scene: s} },
	"move_script":         func(s scene.Scene) Command { return &MoveScript{Scene: s} },
	"remove_script":       func(s scene.Scene) Command { return &RemoveScript{Scene: s} },
	"set_script_property": func(s scene.Scene) Command { return &SetProperty{Scene: s} },
}

type commandEnvelope struct {
	Type   string  `json:"type"`
	Fields *Record `json:"fields"`
}

// Marshal persists a command as a structured text record.
func Marshal(cmd Command) ([]byte, error) {
	rec := NewRecord()
	cmd.Serialize(rec)
	return json.Marshal(commandEnvelope{Type: cmd.Type(), Fields: rec})
}

// Unmarshal reconstructs a command against the given scene. Missing fields
// fall back to each command's documented defaults.
func Unmarshal(s scene.Scene, data []byte) (Command, error) {
	var env commandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode command: %w", err)
	}
	create, ok := Creators[env.Type]
	if !ok {
		return nil, fmt.Errorf("unknown command type %q", env.Type)
	}
	cmd := create(s)
	if env.Fields == nil {
		env.Fields = NewRecord()
	}
	cmd.Deserialize(env.Fields)
	return cmd, nil
}
