// Package panel implements the terminal panels: the script property grid
// and the asset preview editor. Panels never mutate the scene directly;
// every edit becomes a command executed through the command executor, which
// is what keeps undo/redo correct.
package panel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr"

	"github.com/hexforge/scriptstudio/internal/editor"
	"github.com/hexforge/scriptstudio/internal/scene"
	"github.com/hexforge/scriptstudio/internal/scripting"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	propNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type rowKind int

const (
	rowAddScript rowKind = iota
	rowInstance
	rowSource
	rowProperty
)

// row is one selectable line of the grid: an action, an instance header, the
// instance's source slot, or one property.
type row struct {
	kind rowKind
	inst int
	prop int
}

// GridOptions configures a property grid.
type GridOptions struct {
	// FloatStep is the increment applied by the +/- drag keys on Float
	// properties.
	FloatStep float64
	// ScenePath, when non-empty, enables the save key.
	ScenePath string
}

// Grid is the property editor panel for one script component.
type Grid struct {
	scene    *scene.MemoryScene
	executor *editor.Executor
	logger   *scripting.Logger
	handles  []scene.ComponentHandle
	selected int
	opts     GridOptions

	rows     []row
	cursor   int
	expanded map[int]bool
	editing  bool
	input    textinput.Model
	status   string
	width    int
	height   int
}

// NewGrid creates a grid over the scene's components. handles must be
// non-empty.
func NewGrid(sc *scene.MemoryScene, exec *editor.Executor, logger *scripting.Logger, handles []scene.ComponentHandle, opts GridOptions) *Grid {
	if opts.FloatStep == 0 {
		opts.FloatStep = 0.1
	}
	ti := textinput.New()
	ti.CharLimit = 256
	g := &Grid{
		scene:    sc,
		executor: exec,
		logger:   logger,
		handles:  handles,
		opts:     opts,
		expanded: make(map[int]bool),
		input:    ti,
	}
	g.rebuildRows()
	return g
}

func (g *Grid) component() scene.ComponentHandle { return g.handles[g.selected] }

// rebuildRows recomputes the flattened row list from scene state.
func (g *Grid) rebuildRows() {
	cmp := g.component()
	g.rows = g.rows[:0]
	g.rows = append(g.rows, row{kind: rowAddScript})
	for i := 0; i < g.scene.ScriptCount(cmp); i++ {
		g.rows = append(g.rows, row{kind: rowInstance, inst: i})
		if !g.expanded[i] {
			continue
		}
		g.rows = append(g.rows, row{kind: rowSource, inst: i})
		for k := 0; k < g.scene.PropertyCount(cmp, i); k++ {
			g.rows = append(g.rows, row{kind: rowProperty, inst: i, prop: k})
		}
	}
	if g.cursor >= len(g.rows) {
		g.cursor = len(g.rows) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// Init implements tea.Model.
func (g *Grid) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (g *Grid) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width, g.height = msg.Width, msg.Height
		return g, nil
	case tea.KeyMsg:
		if g.editing {
			return g.updateEditing(msg)
		}
		return g.updateBrowsing(msg)
	}
	return g, nil
}

func (g *Grid) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmp := g.component()
	switch msg.String() {
	case "q", "ctrl+c":
		return g, tea.Quit
	case "up", "k":
		if g.cursor > 0 {
			g.cursor--
		}
	case "down", "j":
		if g.cursor < len(g.rows)-1 {
			g.cursor++
		}
	case "left", "h":
		if g.selected > 0 {
			g.selected--
			g.cursor = 0
			g.rebuildRows()
		}
	case "right", "l":
		if g.selected < len(g.handles)-1 {
			g.selected++
			g.cursor = 0
			g.rebuildRows()
		}
	case "u":
		if g.executor.Undo() {
			g.status = "undone"
		} else {
			g.status = "nothing to undo"
		}
		g.rebuildRows()
	case "r":
		if g.executor.Redo() {
			g.status = "redone"
		} else {
			g.status = "nothing to redo"
		}
		g.rebuildRows()
	case "w":
		g.saveScene()
	case "a":
		g.execute(editor.NewAddScript(g.scene, cmp))
	case "d":
		if r, ok := g.currentRow(); ok && r.kind != rowAddScript {
			g.execute(editor.NewRemoveScript(g.scene, cmp, r.inst))
		}
	case "K":
		if r, ok := g.currentRow(); ok && r.kind == rowInstance {
			g.execute(editor.NewMoveScript(g.scene, cmp, r.inst, true))
		}
	case "J":
		if r, ok := g.currentRow(); ok && r.kind == rowInstance {
			g.execute(editor.NewMoveScript(g.scene, cmp, r.inst, false))
		}
	case "+", "=":
		g.nudgeFloat(1)
	case "-":
		g.nudgeFloat(-1)
	case " ":
		g.toggleBoolean()
	case "enter":
		g.activateRow()
	}
	return g, nil
}

func (g *Grid) currentRow() (row, bool) {
	if g.cursor < 0 || g.cursor >= len(g.rows) {
		return row{}, false
	}
	return g.rows[g.cursor], true
}

// activateRow expands headers, toggles booleans, and opens the text editor
// for everything else.
func (g *Grid) activateRow() {
	r, ok := g.currentRow()
	if !ok {
		return
	}
	cmp := g.component()
	switch r.kind {
	case rowAddScript:
		g.execute(editor.NewAddScript(g.scene, cmp))
	case rowInstance:
		g.expanded[r.inst] = !g.expanded[r.inst]
		g.rebuildRows()
	case rowSource:
		g.beginEdit(g.scene.ScriptPath(cmp, r.inst))
	case rowProperty:
		if g.scene.PropertyType(cmp, r.inst, r.prop) == scene.PropertyBoolean {
			g.toggleBoolean()
			return
		}
		name := g.scene.PropertyName(cmp, r.inst, r.prop)
		g.beginEdit(g.scene.PropertyValue(cmp, r.inst, name))
	}
}

func (g *Grid) beginEdit(value string) {
	g.editing = true
	g.input.SetValue(value)
	g.input.CursorEnd()
	g.input.Focus()
}

func (g *Grid) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		g.commitEdit(g.input.Value())
		g.editing = false
		g.input.Blur()
		return g, nil
	case "esc":
		g.editing = false
		g.input.Blur()
		return g, nil
	}
	var cmd tea.Cmd
	g.input, cmd = g.input.Update(msg)
	return g, cmd
}

// commitEdit translates the edited text into a SetProperty command.
func (g *Grid) commitEdit(value string) {
	r, ok := g.currentRow()
	if !ok {
		return
	}
	cmp := g.component()
	switch r.kind {
	case rowSource:
		g.execute(editor.NewSetProperty(g.scene, cmp, r.inst, editor.SourceProperty, value))
	case rowProperty:
		name := g.scene.PropertyName(cmp, r.inst, r.prop)
		switch g.scene.PropertyType(cmp, r.inst, r.prop) {
		case scene.PropertyFloat:
			f, err := evalFloat(value)
			if err != nil {
				g.status = errorStyle.Render(err.Error())
				return
			}
			g.execute(editor.NewSetProperty(g.scene, cmp, r.inst, name, scene.FormatFloat(f)))
		case scene.PropertyEntity:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				g.status = errorStyle.Render("entity reference must be an integer index")
				return
			}
			g.execute(editor.NewSetProperty(g.scene, cmp, r.inst, name, strconv.Itoa(n)))
		default:
			g.execute(editor.NewSetProperty(g.scene, cmp, r.inst, name, value))
		}
	}
}

// evalFloat evaluates a numeric entry, accepting arithmetic expressions like
// "1/3" or "2*step+1".
func evalFloat(s string) (float64, error) {
	out, err := expr.Eval(s, map[string]interface{}{})
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	switch v := out.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%q is not a number", s)
}

// nudgeFloat applies one drag step to the selected Float property.
func (g *Grid) nudgeFloat(direction float64) {
	r, ok := g.currentRow()
	if !ok || r.kind != rowProperty {
		return
	}
	cmp := g.component()
	if g.scene.PropertyType(cmp, r.inst, r.prop) != scene.PropertyFloat {
		return
	}
	name := g.scene.PropertyName(cmp, r.inst, r.prop)
	v := scene.ParseFloat(g.scene.PropertyValue(cmp, r.inst, name))
	v += direction * g.opts.FloatStep
	g.execute(editor.NewSetProperty(g.scene, cmp, r.inst, name, scene.FormatFloat(v)))
}

func (g *Grid) toggleBoolean() {
	r, ok := g.currentRow()
	if !ok || r.kind != rowProperty {
		return
	}
	cmp := g.component()
	if g.scene.PropertyType(cmp, r.inst, r.prop) != scene.PropertyBoolean {
		return
	}
	name := g.scene.PropertyName(cmp, r.inst, r.prop)
	next := "true"
	if g.scene.PropertyValue(cmp, r.inst, name) == "true" {
		next = "false"
	}
	g.execute(editor.NewSetProperty(g.scene, cmp, r.inst, name, next))
}

func (g *Grid) execute(cmd editor.Command) {
	if err := g.executor.Execute(cmd); err != nil {
		g.logger.Error("command failed", "type", cmd.Type(), "error", err)
		g.status = errorStyle.Render(err.Error())
	} else {
		g.status = ""
	}
	g.rebuildRows()
	// Scripts may want to refresh their own controls.
	if r, ok := g.currentRow(); ok && r.kind != rowAddScript {
		if g.scene.BeginFunctionCall(g.component(), r.inst, "onGUI") {
			g.scene.EndFunctionCall()
		}
	}
}

func (g *Grid) saveScene() {
	if g.opts.ScenePath == "" {
		g.status = "no scene file to save to"
		return
	}
	if err := scene.SaveDocument(g.opts.ScenePath, g.scene.Snapshot()); err != nil {
		g.logger.Error("scene save failed", "error", err)
		g.status = errorStyle.Render(err.Error())
		return
	}
	g.status = "saved " + g.opts.ScenePath
}

// View implements tea.Model.
func (g *Grid) View() string {
	cmp := g.component()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("scripts - component %d/%d", g.selected+1, len(g.handles))))
	b.WriteString("\n\n")

	for i, r := range g.rows {
		line := g.renderRow(cmp, r)
		if i == g.cursor {
			if g.editing && (r.kind == rowSource || r.kind == rowProperty) {
				line = g.renderEditRow(cmp, r)
			} else {
				line = cursorStyle.Render(line)
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusStyle.Render("enter edit/toggle  space bool  +/- float  a add  d remove  K/J move  u undo  r redo  w save  q quit"))
	if g.status != "" {
		b.WriteString("\n")
		b.WriteString(g.status)
	}
	return b.String()
}

func (g *Grid) renderRow(cmp scene.ComponentHandle, r row) string {
	switch r.kind {
	case rowAddScript:
		return "[ Add script ]"
	case rowInstance:
		marker := "+"
		if g.expanded[r.inst] {
			marker = "-"
		}
		name := baseName(g.scene.ScriptPath(cmp, r.inst))
		if name == "" {
			name = fmt.Sprintf("script %d", r.inst)
		}
		return headerStyle.Render(fmt.Sprintf("%s %d: %s", marker, r.inst, name))
	case rowSource:
		return fmt.Sprintf("    %s %s", propNameStyle.Render("source"), g.scene.ScriptPath(cmp, r.inst))
	case rowProperty:
		name := g.scene.PropertyName(cmp, r.inst, r.prop)
		value := g.scene.PropertyValue(cmp, r.inst, name)
		switch g.scene.PropertyType(cmp, r.inst, r.prop) {
		case scene.PropertyBoolean:
			box := "[ ]"
			if value == "true" {
				box = "[x]"
			}
			return fmt.Sprintf("    %s %s", propNameStyle.Render(name), box)
		case scene.PropertyResource:
			resType := g.scene.PropertyResourceType(cmp, r.inst, r.prop)
			return fmt.Sprintf("    %s (%s) %s", propNameStyle.Render(name), resType, value)
		default:
			return fmt.Sprintf("    %s %s", propNameStyle.Render(name), value)
		}
	}
	return ""
}

func (g *Grid) renderEditRow(cmp scene.ComponentHandle, r row) string {
	label := "source"
	if r.kind == rowProperty {
		label = g.scene.PropertyName(cmp, r.inst, r.prop)
	}
	return fmt.Sprintf("    %s %s", propNameStyle.Render(label), g.input.View())
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		path = path[i+1:]
	}
	return strings.TrimSuffix(path, ".js")
}
