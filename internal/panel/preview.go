package panel

import (
	"os"
	"os/exec"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hexforge/scriptstudio/internal/assets"
	"github.com/hexforge/scriptstudio/internal/scripting"
)

// Preview is the asset preview panel: a multiline editor over one script
// source with save and open-in-external-editor actions.
type Preview struct {
	path    string
	logger  *scripting.Logger
	editor  string
	ta      textarea.Model
	status  string
	width   int
	height  int
	dirty   bool
}

type externalEditDoneMsg struct{ err error }

// NewPreview creates a preview over the script at path. editorCmd is the
// external editor command; empty falls back to $EDITOR.
func NewPreview(path string, logger *scripting.Logger, editorCmd string) (*Preview, error) {
	content, err := assets.LoadSource(path)
	if err != nil {
		return nil, err
	}
	if editorCmd == "" {
		editorCmd = os.Getenv("EDITOR")
	}
	ta := textarea.New()
	ta.SetValue(content)
	ta.Focus()
	return &Preview{path: path, logger: logger, editor: editorCmd, ta: ta}, nil
}

// Init implements tea.Model.
func (p *Preview) Init() tea.Cmd { return textarea.Blink }

// Update implements tea.Model.
func (p *Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.ta.SetWidth(msg.Width)
		if msg.Height > 4 {
			p.ta.SetHeight(msg.Height - 4)
		}
		return p, nil
	case externalEditDoneMsg:
		if msg.err != nil {
			p.logger.Error("external editor failed", "error", msg.err)
			p.status = errorStyle.Render(msg.err.Error())
			return p, nil
		}
		// Reload whatever the external editor wrote.
		content, err := assets.LoadSource(p.path)
		if err != nil {
			p.status = errorStyle.Render(err.Error())
			return p, nil
		}
		p.ta.SetValue(content)
		p.dirty = false
		p.status = "reloaded " + p.path
		return p, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return p, tea.Quit
		case "ctrl+s":
			p.save()
			return p, nil
		case "ctrl+e":
			return p, p.openExternal()
		}
	}
	var cmd tea.Cmd
	p.ta, cmd = p.ta.Update(msg)
	// Blink ticks and other scheduled messages pass through here too; only
	// key input marks the buffer edited.
	if _, ok := msg.(tea.KeyMsg); ok {
		p.dirty = true
	}
	return p, cmd
}

// save writes the buffer back to the source file. On failure the buffer is
// untouched and the error is logged; nothing is partially written.
func (p *Preview) save() {
	if err := assets.SaveSource(p.path, p.ta.Value()); err != nil {
		p.logger.Error("could not save script", "path", p.path, "error", err)
		p.status = errorStyle.Render(err.Error())
		return
	}
	p.dirty = false
	p.status = "saved " + p.path
}

func (p *Preview) openExternal() tea.Cmd {
	if p.editor == "" {
		p.status = errorStyle.Render("no external editor configured (set $EDITOR)")
		return nil
	}
	c := exec.Command(p.editor, p.path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return externalEditDoneMsg{err: err}
	})
}

// View implements tea.Model.
func (p *Preview) View() string {
	title := p.path
	if p.dirty {
		title += " *"
	}
	out := titleStyle.Render(title) + "\n" + p.ta.View() + "\n"
	out += statusStyle.Render("ctrl+s save  ctrl+e external editor  esc quit")
	if p.status != "" {
		out += "\n" + p.status
	}
	return out
}
