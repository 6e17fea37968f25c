package editor

import (
	"errors"
	"testing"
)

// failingCommand always fails to execute.
type failingCommand struct{}

func (failingCommand) Execute() error      { return errors.New("boom") }
func (failingCommand) Undo()               {}
func (failingCommand) Type() string        { return "failing" }
func (failingCommand) Serialize(*Record)   {}
func (failingCommand) Deserialize(*Record) {}
func (failingCommand) Merge(Command) bool  { return false }

func TestExecutorUndoRedo(t *testing.T) {
	sc, cmp := newTestScene(t)
	exec := NewExecutor()

	if err := exec.Execute(NewAddScript(sc, cmp)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := exec.Execute(NewAddScript(sc, cmp)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := sc.ScriptCount(cmp); got != 2 {
		t.Fatalf("Expected 2 scripts, got %d", got)
	}
	if got := exec.UndoDepth(); got != 2 {
		t.Fatalf("Expected undo depth 2, got %d", got)
	}

	if !exec.Undo() {
		t.Fatal("Expected Undo to succeed")
	}
	if got := sc.ScriptCount(cmp); got != 1 {
		t.Errorf("Expected 1 script after undo, got %d", got)
	}
	if got := exec.RedoDepth(); got != 1 {
		t.Errorf("Expected redo depth 1, got %d", got)
	}

	if !exec.Redo() {
		t.Fatal("Expected Redo to succeed")
	}
	if got := sc.ScriptCount(cmp); got != 2 {
		t.Errorf("Expected 2 scripts after redo, got %d", got)
	}
}

func TestExecutorEmptyStacks(t *testing.T) {
	exec := NewExecutor()
	if exec.Undo() {
		t.Error("Expected Undo to report false on an empty stack")
	}
	if exec.Redo() {
		t.Error("Expected Redo to report false on an empty stack")
	}
}

func TestExecutorExecuteTruncatesRedo(t *testing.T) {
	sc, cmp := newTestScene(t)
	exec := NewExecutor()

	for i := 0; i < 3; i++ {
		if err := exec.Execute(NewAddScript(sc, cmp)); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	}
	exec.Undo()
	exec.Undo()
	if got := exec.RedoDepth(); got != 2 {
		t.Fatalf("Expected redo depth 2, got %d", got)
	}

	if err := exec.Execute(NewAddScript(sc, cmp)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := exec.RedoDepth(); got != 0 {
		t.Errorf("Expected redo history truncated, got depth %d", got)
	}
	if exec.Redo() {
		t.Error("Expected Redo to report false after truncation")
	}
}

func TestExecutorMergesConsecutivePropertyEdits(t *testing.T) {
	sc, cmp := newTestScene(t)
	sc.AddScript(cmp)
	sc.SetPropertyValue(cmp, 0, "speed", "1")
	exec := NewExecutor()

	// Keystroke-level edits: 1 -> 2 -> 3 -> 4 should collapse into a single
	// undo step that restores 1.
	for _, v := range []string{"2", "3", "4"} {
		if err := exec.Execute(NewSetProperty(sc, cmp, 0, "speed", v)); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	}
	if got := exec.UndoDepth(); got != 1 {
		t.Fatalf("Expected undo depth 1 after merge, got %d", got)
	}
	if got := sc.PropertyValue(cmp, 0, "speed"); got != "4" {
		t.Fatalf("Expected speed=4, got %q", got)
	}

	exec.Undo()
	if got := sc.PropertyValue(cmp, 0, "speed"); got != "1" {
		t.Errorf("Expected speed=1 after single undo, got %q", got)
	}

	exec.Redo()
	if got := sc.PropertyValue(cmp, 0, "speed"); got != "4" {
		t.Errorf("Expected speed=4 after redo, got %q", got)
	}
}

func TestExecutorDoesNotMergeAcrossOtherCommands(t *testing.T) {
	sc, cmp := newTestScene(t)
	sc.AddScript(cmp)
	sc.SetPropertyValue(cmp, 0, "speed", "1")
	exec := NewExecutor()

	if err := exec.Execute(NewSetProperty(sc, cmp, 0, "speed", "2")); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := exec.Execute(NewAddScript(sc, cmp)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := exec.Execute(NewSetProperty(sc, cmp, 0, "speed", "3")); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if got := exec.UndoDepth(); got != 3 {
		t.Errorf("Expected undo depth 3, got %d", got)
	}
}

func TestExecutorHistoryIdentity(t *testing.T) {
	sc, cmp := newTestScene(t)
	sc.AddScript(cmp)
	sc.SetPropertyValue(cmp, 0, "speed", "1")
	exec := NewExecutor()

	if err := exec.Execute(NewAddScript(sc, cmp)); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if err := exec.Execute(NewSetProperty(sc, cmp, 0, "speed", "2")); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	history := exec.History()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if history[0].Type != "add_script" || history[1].Type != "set_script_property" {
		t.Errorf("Unexpected history order: %+v", history)
	}
	if history[0].ID == history[1].ID {
		t.Error("Expected distinct identities per entry")
	}
	editID := history[1].ID

	// A merged edit keeps the identity of the entry it merged into.
	if err := exec.Execute(NewSetProperty(sc, cmp, 0, "speed", "3")); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	history = exec.History()
	if len(history) != 2 {
		t.Fatalf("Expected merge to keep 2 entries, got %d", len(history))
	}
	if history[1].ID != editID {
		t.Error("Expected merged edit to keep its identity")
	}

	// Undo then redo records a fresh entry.
	exec.Undo()
	exec.Redo()
	history = exec.History()
	if len(history) != 2 {
		t.Fatalf("Expected 2 entries after redo, got %d", len(history))
	}
	if history[1].ID == editID {
		t.Error("Expected a redone command to get a new identity")
	}
}

func TestExecutorFailedCommandNotRecorded(t *testing.T) {
	exec := NewExecutor()
	if err := exec.Execute(failingCommand{}); err == nil {
		t.Fatal("Expected error from failing command")
	}
	if got := exec.UndoDepth(); got != 0 {
		t.Errorf("Expected failing command off the undo stack, got depth %d", got)
	}
}

func TestExecutorUndoRedoPropertyTypes(t *testing.T) {
	// One undo/redo round trip per property value shape.
	cases := []struct {
		name     string
		old, new string
	}{
		{"boolean", "false", "true"},
		{"float", "1.5", "3.1416"},
		{"entity", "7", "12"},
		{"resource", "old.wav", "new.wav"},
		{"string", "hello", "world"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc, cmp := newTestScene(t)
			sc.AddScript(cmp)
			sc.SetPropertyValue(cmp, 0, "prop", tc.old)
			exec := NewExecutor()

			if err := exec.Execute(NewSetProperty(sc, cmp, 0, "prop", tc.new)); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			exec.Undo()
			if got := sc.PropertyValue(cmp, 0, "prop"); got != tc.old {
				t.Errorf("Expected %q after undo, got %q", tc.old, got)
			}
			exec.Redo()
			if got := sc.PropertyValue(cmp, 0, "prop"); got != tc.new {
				t.Errorf("Expected %q after redo, got %q", tc.new, got)
			}
		})
	}
}
