package panel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexforge/scriptstudio/internal/editor"
	"github.com/hexforge/scriptstudio/internal/scene"
	"github.com/hexforge/scriptstudio/internal/scripting"
)

func newTestGrid(t *testing.T) (*Grid, *scene.MemoryScene, scene.ComponentHandle) {
	t.Helper()
	sc := scene.NewMemoryScene(nil)
	cmp := sc.CreateComponent()
	g := NewGrid(sc, editor.NewExecutor(), scripting.NewLogger(nil, 10), []scene.ComponentHandle{cmp}, GridOptions{})
	return g, sc, cmp
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEvalFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2.5", 2.5},
		{"1/4", 0.25},
		{"2*3+1", 7},
		{"-1.5", -1.5},
	}
	for _, tc := range cases {
		got, err := evalFloat(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, tc.in)
	}

	_, err := evalFloat("not a number")
	assert.Error(t, err)
	_, err = evalFloat(`"text"`)
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "mover", baseName("scripts/mover.js"))
	assert.Equal(t, "gun", baseName(`c:\game\gun.js`))
	assert.Equal(t, "plain", baseName("plain.js"))
	assert.Equal(t, "", baseName(""))
}

func TestGridAddAndUndo(t *testing.T) {
	g, sc, cmp := newTestGrid(t)

	g.Update(key("a"))
	assert.Equal(t, 1, sc.ScriptCount(cmp))
	// Row list grows: add-script action plus the new instance header.
	assert.Len(t, g.rows, 2)

	g.Update(key("u"))
	assert.Equal(t, 0, sc.ScriptCount(cmp))
	assert.Len(t, g.rows, 1)

	g.Update(key("r"))
	assert.Equal(t, 1, sc.ScriptCount(cmp))
}

func TestGridExpandShowsSourceAndProperties(t *testing.T) {
	g, sc, cmp := newTestGrid(t)
	sc.AddScript(cmp)
	sc.SetPropertyValue(cmp, 0, "speed", "1")
	sc.SetPropertyValue(cmp, 0, "enabled", "true")
	g.rebuildRows()
	require.Len(t, g.rows, 2)

	// Move onto the instance header and expand it.
	g.Update(tea.KeyMsg{Type: tea.KeyDown})
	g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	// add-script, header, source, two properties.
	assert.Len(t, g.rows, 5)

	g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, g.rows, 2, "second activation collapses")
}

func TestGridFloatNudgeMergesIntoOneUndoStep(t *testing.T) {
	g, sc, cmp := newTestGrid(t)
	sc.AddScript(cmp)
	sc.SetPropertyValue(cmp, 0, "speed", "1")
	g.expanded[0] = true
	g.rebuildRows()

	// Cursor onto the speed property row.
	for i, r := range g.rows {
		if r.kind == rowProperty {
			g.cursor = i
			break
		}
	}

	g.Update(key("+"))
	g.Update(key("+"))
	g.Update(key("+"))
	assert.Equal(t, "1.3", sc.PropertyValue(cmp, 0, "speed"))

	g.Update(key("u"))
	assert.Equal(t, "1", sc.PropertyValue(cmp, 0, "speed"), "nudges collapse into one undo step")
}

func TestGridBooleanToggle(t *testing.T) {
	g, sc, cmp := newTestGrid(t)
	sc.AddScript(cmp)
	sc.SetPropertyValue(cmp, 0, "enabled", "false")
	g.expanded[0] = true
	g.rebuildRows()

	for i, r := range g.rows {
		if r.kind == rowProperty {
			g.cursor = i
			break
		}
	}

	g.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, "true", sc.PropertyValue(cmp, 0, "enabled"))
	g.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, "false", sc.PropertyValue(cmp, 0, "enabled"))
}

func TestGridMoveScript(t *testing.T) {
	g, sc, cmp := newTestGrid(t)
	sc.AddScript(cmp)
	sc.AddScript(cmp)
	sc.SetScriptPath(cmp, 0, "a.js")
	sc.SetScriptPath(cmp, 1, "b.js")
	g.rebuildRows()

	// Cursor on the second instance header, move it up.
	g.cursor = 2
	g.Update(key("K"))
	assert.Equal(t, "b.js", sc.ScriptPath(cmp, 0))

	g.Update(key("u"))
	assert.Equal(t, "a.js", sc.ScriptPath(cmp, 0))
}

func TestGridViewRenders(t *testing.T) {
	g, sc, cmp := newTestGrid(t)
	sc.AddScript(cmp)
	sc.SetScriptPath(cmp, 0, "scripts/mover.js")
	g.expanded[0] = true
	g.rebuildRows()

	view := g.View()
	assert.Contains(t, view, "mover")
	assert.Contains(t, view, "source")
}
