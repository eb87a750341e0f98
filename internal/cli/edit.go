package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/infinityflow/pkg/errors"
	"github.com/matzehuels/infinityflow/pkg/interact"
	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/render/dot"
	"github.com/matzehuels/infinityflow/pkg/store"
)

// editCommand creates the "edit" command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		id       string
		strategy string
		readOnly bool
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a mind map in the terminal",
		Long: `Open a mind map in an interactive terminal editor.

Edits are saved automatically after a short pause, either to the file or,
with --id, to the document in the configured store. A missing file starts
from the starter document.

Keys:
  tab               add child           enter          add sibling
  space, f2         edit label          del, backspace delete subtree
  ←/→               parent / first child
  ↑/↓               previous / next sibling
  alt+arrows        nearest box on that side
  alt+shift+↑/↓     reorder among siblings
  c                 collapse / expand   x then p       move under selection
  1-5, 0            branch color, clear color
  ctrl+z / ctrl+y   undo / redo         q              quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (id == "") == (len(args) == 0) {
				return errors.New(errors.ErrCodeInvalidInput, "give either a file or --id")
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd.Context(), path, id, strategy, readOnly)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "edit a stored document")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "layout strategy (default from config)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "browse without editing")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path, id, strategyName string, readOnly bool) error {
	target, doc, err := c.openEditTarget(ctx, path, id)
	if err != nil {
		return err
	}
	defer target.Close()

	t, err := doc.Tree()
	if err != nil {
		return err
	}
	if strategyName == "" {
		strategyName = c.Config.Layout.Strategy
	}
	strategy, err := dot.Registry().Lookup(strategyName)
	if err != nil {
		return err
	}

	// The terminal belongs to the editor; background logs would tear it.
	quiet := log.New(io.Discard)
	var program *tea.Program
	saver := store.NewAutoSaver(target, doc,
		store.WithDebounce(c.Config.Interaction.AutosaveDebounce.Duration),
		store.WithSaveLogger(quiet),
		store.WithOnSaved(func(_ *store.Document, err error) {
			if program != nil {
				program.Send(savedMsg{err: err})
			}
		}),
	)

	opts := []interact.Option{
		interact.WithOnChange(saver.Notify),
		interact.WithLogger(quiet),
		interact.WithContext(ctx),
		interact.WithLayoutOptions(c.Config.LayoutOptions()),
		interact.WithStrategy(strategy),
		interact.WithHistoryLimit(c.Config.Interaction.HistoryLimit),
		interact.WithDropPolicy(c.Config.DropPolicy()),
	}
	if readOnly {
		opts = append(opts, interact.WithReadOnly())
	}
	ctrl := interact.New(t, opts...)

	title := doc.Title
	if path != "" {
		title = path
	}
	program = tea.NewProgram(newEditorModel(ctrl, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	if err := saver.Close(); err != nil {
		return fmt.Errorf("save %s: %w", title, err)
	}
	if runErr != nil && !stderrors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	printSuccess("Saved %s (%d nodes)", title, saver.Document().NodeCount)
	return nil
}

// openEditTarget returns where edits are saved and the document to edit.
func (c *CLI) openEditTarget(ctx context.Context, path, id string) (store.Store, *store.Document, error) {
	if id != "" {
		st, err := c.newStore(ctx)
		if err != nil {
			return nil, nil, err
		}
		doc, err := st.Load(ctx, id)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("load %s: %w", id, err)
		}
		return st, doc, nil
	}

	t := mindmap.Default()
	if _, err := os.Stat(path); err == nil {
		if t, err = loadTree(path); err != nil {
			return nil, nil, err
		}
	}
	return snapshotFile{path: path}, store.NewDocument("", t), nil
}

// snapshotFile is a single-document store writing plain snapshot JSON, so
// the autosaver can write edits back to the file being edited.
type snapshotFile struct{ path string }

func (f snapshotFile) Save(_ context.Context, doc *store.Document) error {
	t, err := doc.Tree()
	if err != nil {
		return err
	}
	data, err := mindmap.Marshal(t)
	if err != nil {
		return err
	}
	return writeOutput(f.path, data)
}

func (f snapshotFile) Load(context.Context, string) (*store.Document, error) {
	return nil, errors.New(errors.ErrCodeUnsupported, "snapshot files are loaded with loadTree")
}

func (f snapshotFile) Delete(context.Context, string) error {
	return errors.New(errors.ErrCodeUnsupported, "snapshot files are not deleted by the editor")
}

func (f snapshotFile) List(context.Context) ([]store.Summary, error) { return nil, nil }
func (f snapshotFile) Close() error                                 { return nil }

// =============================================================================
// Editor model
// =============================================================================

type savedMsg struct{ err error }

var (
	styleBoard    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
	styleSelected = lipgloss.NewStyle().Reverse(true).Bold(true)
	styleBadge    = lipgloss.NewStyle().Foreground(colorGray)
	styleHelp     = lipgloss.NewStyle().Foreground(colorDim)
)

const editorHelp = "tab child · enter sibling · space edit · del delete · c collapse · x/p move · ctrl+z/y undo/redo · q quit"

type editorModel struct {
	ctrl   *interact.Controller
	title  string
	status string
	marked string // node cut with "x", moved with "p"
	width  int

	// replace is set when edit mode starts; the first typed key replaces
	// the whole label.
	replace bool
}

func newEditorModel(ctrl *interact.Controller, title string) *editorModel {
	_ = ctrl.Select(ctrl.Tree().RootID())
	return &editorModel{ctrl: ctrl, title: title}
}

func (m *editorModel) Init() tea.Cmd { return nil }

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
		} else {
			m.status = "saved"
		}
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *editorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	if m.ctrl.Editing() != "" {
		m.editKey(msg)
		return nil
	}

	key := msg.String()
	if key == "q" || key == "ctrl+c" {
		return tea.Quit
	}
	if m.ctrl.Selected() == "" {
		_ = m.ctrl.Select(m.ctrl.Tree().RootID())
	}
	sel := m.ctrl.Selected()

	var err error
	switch key {
	case "c":
		err = m.ctrl.ToggleCollapse(sel)
	case "x":
		m.marked = sel
		m.status = "marked; select the new parent and press p"
	case "p":
		if m.marked == "" {
			m.status = "nothing marked"
			return nil
		}
		err = m.ctrl.MoveNode(m.marked, sel)
		m.marked = ""
	case "0":
		err = m.ctrl.SetNodeColor(sel, "")
	case "1", "2", "3", "4", "5":
		palette := m.ctrl.Options().Palette
		if i := int(key[0] - '1'); i < len(palette) {
			err = m.ctrl.SetNodeColor(sel, palette[i])
		}
	default:
		_, err = m.ctrl.HandleKey(interact.Key(key))
		m.replace = m.ctrl.Editing() != ""
	}
	if err != nil {
		m.status = errors.UserMessage(err)
	}
	return nil
}

// editKey handles keys while a label is being edited.
func (m *editorModel) editKey(msg tea.KeyMsg) {
	text := m.ctrl.EditText()
	if m.replace {
		text = ""
	}
	switch msg.Type {
	case tea.KeyRunes:
		_ = m.ctrl.SetEditText(text + string(msg.Runes))
	case tea.KeySpace:
		_ = m.ctrl.SetEditText(text + " ")
	case tea.KeyBackspace:
		r := []rune(text)
		if len(r) > 0 {
			r = r[:len(r)-1]
		}
		_ = m.ctrl.SetEditText(string(r))
	default:
		_, _ = m.ctrl.HandleKey(interact.Key(msg.String()))
	}
	m.replace = false
}

func (m *editorModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.title))
	if m.ctrl.ReadOnly() {
		b.WriteString(StyleDim.Render("  read-only"))
	}
	b.WriteString("\n")

	var lines []string
	for _, n := range m.ctrl.Layout().Nodes {
		text := n.Text
		if n.ID == m.ctrl.Editing() {
			text = m.ctrl.EditText() + "▏"
		}
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render(text)
		if n.ID == m.ctrl.Selected() {
			label = styleSelected.Foreground(lipgloss.Color(n.Color)).Render(text)
		}
		line := strings.Repeat("  ", n.Depth) + label
		if n.Collapsed && n.HiddenChildren > 0 {
			line += styleBadge.Render(fmt.Sprintf(" +%d", n.HiddenChildren))
		}
		if n.ID == m.marked {
			line += styleBadge.Render(" ✂")
		}
		lines = append(lines, line)
	}
	b.WriteString(styleBoard.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(StyleWarning.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(styleHelp.Render(editorHelp))
	return b.String()
}
