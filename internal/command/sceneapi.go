package command

import (
	"fmt"

	"github.com/hexforge/scriptstudio/internal/editor"
	"github.com/hexforge/scriptstudio/internal/scene"
	"github.com/hexforge/scriptstudio/internal/scripting"
)

// BindSceneAPI exposes the scene and the command layer to console scripts as
// a `scene` global. Mutations route through a command executor so console
// edits participate in undo/redo like grid edits do.
func BindSceneAPI(engine *scripting.Engine, sc *scene.MemoryScene) *editor.Executor {
	exec := editor.NewExecutor()
	logger := engine.Logger()

	run := func(cmd editor.Command) {
		if err := exec.Execute(cmd); err != nil {
			logger.Error("command failed", "type", cmd.Type(), "error", err)
		}
	}

	api := map[string]interface{}{
		"createComponent": func() int {
			return int(sc.CreateComponent())
		},
		"components": func() []int {
			handles := sc.Components()
			out := make([]int, len(handles))
			for i, h := range handles {
				out[i] = int(h)
			}
			return out
		},
		"addScript": func(cmp int) {
			run(editor.NewAddScript(sc, scene.ComponentHandle(cmp)))
		},
		"removeScript": func(cmp, index int) {
			run(editor.NewRemoveScript(sc, scene.ComponentHandle(cmp), index))
		},
		"moveScriptUp": func(cmp, index int) {
			run(editor.NewMoveScript(sc, scene.ComponentHandle(cmp), index, true))
		},
		"moveScriptDown": func(cmp, index int) {
			run(editor.NewMoveScript(sc, scene.ComponentHandle(cmp), index, false))
		},
		"setProperty": func(cmp, index int, name, value string) {
			run(editor.NewSetProperty(sc, scene.ComponentHandle(cmp), index, name, value))
		},
		"setSource": func(cmp, index int, path string) {
			run(editor.NewSetProperty(sc, scene.ComponentHandle(cmp), index, editor.SourceProperty, path))
		},
		"getProperty": func(cmp, index int, name string) string {
			return sc.PropertyValue(scene.ComponentHandle(cmp), index, name)
		},
		"getSource": func(cmp, index int) string {
			return sc.ScriptPath(scene.ComponentHandle(cmp), index)
		},
		"scriptCount": func(cmp int) int {
			return sc.ScriptCount(scene.ComponentHandle(cmp))
		},
		"undo": func() bool { return exec.Undo() },
		"redo": func() bool { return exec.Redo() },
		"history": func() []string {
			entries := exec.History()
			out := make([]string, len(entries))
			for i, h := range entries {
				out[i] = fmt.Sprintf("%s %s", h.ID, h.Type)
			}
			return out
		},
		"call": func(cmp, index int, fn string) bool {
			if sc.BeginFunctionCall(scene.ComponentHandle(cmp), index, fn) {
				sc.EndFunctionCall()
				return true
			}
			return false
		},
	}
	engine.SetGlobal("scene", api)
	return exec
}
