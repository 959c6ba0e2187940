package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topoview/pkg/interact"
	"github.com/matzehuels/topoview/pkg/render"
	"github.com/matzehuels/topoview/pkg/scene"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// openCommand creates the open command: an interactive node picker where
// enter double-clicks the selected node.
func (c *CLI) openCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "open [topology]",
		Short: "Pick a node and open its telnet shortcut",
		Long: `Render a topology and list its nodes. Pressing enter double-clicks the
selected node, which opens "telnet:// /N <name> /TELNET <loopback>" with the
system URL handler when the node has a loopback address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			flags.apply(cmd, &opts)
			res, err := c.prepare(cmd.Context(), args[0], opts, flags.noCache)
			if err != nil {
				return err
			}
			model := NewNodeListModel(res.Surface, res.Handles)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// =============================================================================
// NodeListModel - Interactive node selection
// =============================================================================

// NodeListModel is the bubbletea model for the node picker.
type NodeListModel struct {
	Surface *scene.Surface
	Handles []render.Handle
	Cursor  int
	Offset  int
	Height  int
	Status  string

	rows [][]string
}

// NewNodeListModel creates a picker over handles drawn on s.
func NewNodeListModel(s *scene.Surface, handles []render.Handle) NodeListModel {
	return NodeListModel{
		Surface: s,
		Handles: handles,
		Height:  15,
		rows:    nodeRows(handles),
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Handles)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Status = m.activate()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

// activate double-clicks the selected node and describes the outcome.
func (m NodeListModel) activate() string {
	if len(m.Handles) == 0 {
		return ""
	}
	h := m.Handles[m.Cursor]
	ev := m.Surface.Dispatch(h.Group, scene.DoubleClick)
	if url, ok := interact.Shortcut(h.Node); ok {
		if ev.Err != nil {
			return fmt.Sprintf("could not open %s: %v", url, ev.Err)
		}
		return "opened " + url
	}
	return fmt.Sprintf("%s has no %s address", h.Node.Name(), interact.LoopbackKey)
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Node"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open shortcut  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	b.WriteString(nodeTable(m.rows[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.rows)), len(m.rows))))
	if m.Status != "" {
		b.WriteString("\n  ")
		b.WriteString(StyleLink.Render(m.Status))
	}
	return b.String()
}
