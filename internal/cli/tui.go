package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/exprtree/pkg/errors"
	"github.com/matzehuels/exprtree/pkg/render/sink"
	"github.com/matzehuels/exprtree/pkg/session"
)

// tuiCommand creates the interactive expression editor.
func (c *CLI) tuiCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "tui [expression]",
		Short: "Edit an expression and watch its tree",
		Long: `Edit an expression and watch its tree.

Type an expression and press enter to compile it. The tree is drawn on a
canvas sized to the terminal. A failed compile keeps the previous tree on
screen and shows the error.

Keys: enter compile, tab node table, ctrl+s strict mode, esc quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}
			return c.runTUI(cmd.Context(), initial, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "start in strict mode")
	return cmd
}

func (c *CLI) runTUI(ctx context.Context, initial string, strict bool) error {
	m := newTreeModel(initial, strict)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	if t := final.(treeModel).sess.Tree(); t != nil {
		c.Logger.Debug("tui closed", "expression", t.Source, "result", t.ResultString())
	}
	return nil
}

// =============================================================================
// treeModel - Interactive expression editor
// =============================================================================

// Terminal defaults before the first WindowSizeMsg arrives.
const (
	tuiDefaultWidth  = 80
	tuiDefaultHeight = 24

	// tuiChrome is the number of lines used around the canvas.
	tuiChrome = 9

	// tuiPixelsPerCell scales the layout frame above the character grid so
	// integer cell sizes don't collapse on small terminals.
	tuiPixelsPerCell = 10
)

var (
	tuiCanvasStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)
	tuiHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

type treeModel struct {
	input     textinput.Model
	sess      *session.Session
	strict    bool
	showTable bool
	err       error
	width     int
	height    int
}

func newTreeModel(initial string, strict bool) treeModel {
	in := textinput.New()
	in.Prompt = StyleHighlight.Render(iconInfo) + " "
	in.Placeholder = "2 + 3 * (4 - 1)"
	in.CharLimit = errs.MaxExpressionLength
	in.SetValue(initial)
	in.Focus()

	m := treeModel{
		input:  in,
		sess:   session.New(session.GenerateID(), 0),
		strict: strict,
		width:  tuiDefaultWidth,
		height: tuiDefaultHeight,
	}
	if initial != "" {
		m.compile()
	}
	return m
}

func (m treeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.compile()
			return m, nil
		case "tab":
			m.showTable = !m.showTable
			return m, nil
		case "ctrl+s":
			m.strict = !m.strict
			m.compile()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// compile recompiles the input. On failure the session keeps its previous
// tree and the error is shown next to it.
func (m *treeModel) compile() {
	src := strings.TrimSpace(m.input.Value())
	if src == "" {
		return
	}
	_, err := m.sess.Compile(src, m.strict)
	m.err = err
}

// canvasSize returns the character grid available for the tree.
func (m treeModel) canvasSize() (cols, rows int) {
	return max(m.width-4, 20), max(m.height-tuiChrome, 6)
}

func (m treeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("  ")
	b.WriteString(tuiHelpStyle.Render("⏎ compile  tab table  ctrl+s strict  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	t := m.sess.Tree()
	if t != nil {
		line := StyleResult.Render("= " + t.ResultString())
		line += StyleDim.Render(fmt.Sprintf(" · %d nodes · depth %d", t.Count(), t.MaxDepth()))
		if m.strict {
			line += StyleDim.Render(" · strict")
		}
		b.WriteString(line)
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		msg := styleIconError.Render(iconError) + " " + StyleError.Render(errs.UserMessage(errs.FromParse(m.err)))
		if t != nil {
			msg += StyleDim.Render(" (showing previous tree)")
		}
		b.WriteString(msg)
	case t != nil && len(t.Diagnostics) > 0:
		d := t.Diagnostics[0]
		msg := fmt.Sprintf("%s at %d: %s", d.Kind.Code(), d.Pos, d.Message)
		if n := len(t.Diagnostics) - 1; n > 0 {
			msg += fmt.Sprintf(" (+%d more)", n)
		}
		b.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
	}
	b.WriteString("\n")

	if t == nil {
		return b.String()
	}
	if m.showTable {
		b.WriteString(nodeTable(t))
		return b.String()
	}
	b.WriteString(tuiCanvasStyle.Render(m.canvas()))
	return b.String()
}

// canvas draws the current tree as text.
func (m treeModel) canvas() string {
	cols, rows := m.canvasSize()
	l, err := m.sess.Layout(cols*tuiPixelsPerCell, rows*tuiPixelsPerCell)
	if err != nil {
		return ""
	}
	return sink.RenderText(l, cols, rows)
}
