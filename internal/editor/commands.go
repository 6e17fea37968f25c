package editor

import (
	"strings"

	"github.com/hexforge/scriptstudio/internal/scene"
)

// sourceSentinel is the reserved prefix: SetProperty on a name starting with
// it targets the script's source path instead of a script property.
const sourceSentinel = "-"

// SourceProperty is the conventional pseudo-property name for the script
// source path, as produced by the property grid's source control.
const SourceProperty = "-source"

// AddScript appends a new script instance to a component. Undo removes the
// instance at the index Execute recorded.
type AddScript struct {
	Scene     scene.Scene
	Component scene.ComponentHandle

	index int
}

// NewAddScript creates an AddScript command.
func NewAddScript(s scene.Scene, cmp scene.ComponentHandle) *AddScript {
	return &AddScript{Scene: s, Component: cmp}
}

// Execute implements Command.
func (c *AddScript) Execute() error {
	c.index = c.Scene.AddScript(c.Component)
	return nil
}

// Undo implements Command. If Execute failed silently (invalid component,
// index -1) there is nothing to remove.
func (c *AddScript) Undo() {
	if c.index < 0 {
		return
	}
	c.Scene.RemoveScript(c.Component, c.index)
}

// Type implements Command.
func (c *AddScript) Type() string { return "add_script" }

// Serialize implements Command.
func (c *AddScript) Serialize(rec *Record) {
	rec.SetInt("component", int(c.Component))
}

// Deserialize implements Command.
func (c *AddScript) Deserialize(rec *Record) {
	c.Component = scene.ComponentHandle(rec.Int("component", int(scene.InvalidComponent)))
}

// Merge implements Command.
func (c *AddScript) Merge(Command) bool { return false }

// MoveScript swaps a script instance with its neighbor. Undo is the move of
// the resulting position in the opposite direction; no extra state is
// tracked.
type MoveScript struct {
	Scene     scene.Scene
	Component scene.ComponentHandle
	Index     int
	Up        bool
}

// NewMoveScript creates a MoveScript command. up means toward index 0.
func NewMoveScript(s scene.Scene, cmp scene.ComponentHandle, index int, up bool) *MoveScript {
	return &MoveScript{Scene: s, Component: cmp, Index: index, Up: up}
}

// Execute implements Command.
func (c *MoveScript) Execute() error {
	c.Scene.MoveScript(c.Component, c.Index, c.Up)
	return nil
}

// Undo implements Command.
func (c *MoveScript) Undo() {
	c.Scene.MoveScript(c.Component, neighborIndex(c.Index, c.Up), !c.Up)
}

// neighborIndex is where the instance ends up after a move from index in the
// given direction.
func neighborIndex(index int, up bool) int {
	if up {
		return index - 1
	}
	return index + 1
}

// Type implements Command.
func (c *MoveScript) Type() string { return "move_script" }

// Serialize implements Command.
func (c *MoveScript) Serialize(rec *Record) {
	rec.SetInt("component", int(c.Component))
	rec.SetInt("scr_index", c.Index)
	rec.SetBool("up", c.Up)
}

// Deserialize implements Command.
func (c *MoveScript) Deserialize(rec *Record) {
	c.Component = scene.ComponentHandle(rec.Int("component", int(scene.InvalidComponent)))
	c.Index = rec.Int("scr_index", 0)
	c.Up = rec.Bool("up", false)
}

// Merge implements Command.
func (c *MoveScript) Merge(Command) bool { return false }

// RemoveScript deletes a script instance, capturing its full state into a
// blob first so undo can re-insert and restore it. The blob lives as long as
// the command does.
type RemoveScript struct {
	Scene     scene.Scene
	Component scene.ComponentHandle
	Index     int

	blob []byte
}

// NewRemoveScript creates a RemoveScript command.
func NewRemoveScript(s scene.Scene, cmp scene.ComponentHandle, index int) *RemoveScript {
	return &RemoveScript{Scene: s, Component: cmp, Index: index}
}

// Execute implements Command.
func (c *RemoveScript) Execute() error {
	blob, err := c.Scene.SerializeScript(c.Component, c.Index)
	if err != nil {
		return err
	}
	c.blob = blob
	c.Scene.RemoveScript(c.Component, c.Index)
	return nil
}

// Undo implements Command.
func (c *RemoveScript) Undo() {
	c.Scene.InsertScript(c.Component, c.Index)
	if err := c.Scene.DeserializeScript(c.Component, c.Index, c.blob); err != nil {
		// The blob was produced by Execute on the same scene; a decode
		// failure means the snapshot was externally corrupted.
		panic(err)
	}
}

// Type implements Command.
func (c *RemoveScript) Type() string { return "remove_script" }

// Serialize implements Command.
func (c *RemoveScript) Serialize(rec *Record) {
	rec.SetInt("component", int(c.Component))
	rec.SetInt("scr_index", c.Index)
}

// Deserialize implements Command.
func (c *RemoveScript) Deserialize(rec *Record) {
	c.Component = scene.ComponentHandle(rec.Int("component", int(scene.InvalidComponent)))
	c.Index = rec.Int("scr_index", 0)
}

// Merge implements Command.
func (c *RemoveScript) Merge(Command) bool { return false }

// SetProperty sets one property (or, for the "-source" pseudo-property, the
// script path) to a new text value. The old value is captured at
// construction time for undo. Consecutive SetProperty commands on the same
// (index, property) merge into one undo step, collapsing keystroke-level
// edits.
type SetProperty struct {
	Scene     scene.Scene
	Component scene.ComponentHandle
	Index     int
	Property  string
	Value     string

	oldValue string
}

// NewSetProperty creates a SetProperty command, reading the current value
// for undo.
func NewSetProperty(s scene.Scene, cmp scene.ComponentHandle, index int, property, value string) *SetProperty {
	c := &SetProperty{Scene: s, Component: cmp, Index: index, Property: property, Value: value}
	if isSourceProperty(property) {
		c.oldValue = s.ScriptPath(cmp, index)
	} else {
		c.oldValue = s.PropertyValue(cmp, index, property)
	}
	return c
}

func isSourceProperty(name string) bool {
	return strings.HasPrefix(name, sourceSentinel)
}

func (c *SetProperty) apply(value string) {
	if isSourceProperty(c.Property) {
		c.Scene.SetScriptPath(c.Component, c.Index, value)
	} else {
		c.Scene.SetPropertyValue(c.Component, c.Index, c.Property, value)
	}
}

// Execute implements Command.
func (c *SetProperty) Execute() error {
	c.apply(c.Value)
	return nil
}

// Undo implements Command.
func (c *SetProperty) Undo() { c.apply(c.oldValue) }

// Type implements Command.
func (c *SetProperty) Type() string { return "set_script_property" }

// Serialize implements Command.
func (c *SetProperty) Serialize(rec *Record) {
	rec.SetInt("component", int(c.Component))
	rec.SetInt("script_index", c.Index)
	rec.SetString("property_name", c.Property)
	rec.SetString("value", c.Value)
	rec.SetString("old_value", c.oldValue)
}

// Deserialize implements Command.
func (c *SetProperty) Deserialize(rec *Record) {
	c.Component = scene.ComponentHandle(rec.Int("component", int(scene.InvalidComponent)))
	c.Index = rec.Int("script_index", 0)
	c.Property = rec.String("property_name", "")
	c.Value = rec.String("value", "")
	c.oldValue = rec.String("old_value", "")
}

// Merge implements Command. prev is the undo-stack top; on a match it adopts
// this command's value while keeping its own old value, so one undo restores
// the state before the whole edit run.
func (c *SetProperty) Merge(prev Command) bool {
	p, ok := prev.(*SetProperty)
	if !ok {
		return false
	}
	if p.Index != c.Index || p.Property != c.Property {
		return false
	}
	p.Value = c.Value
	return true
}
