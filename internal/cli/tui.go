package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the tui command: an interactive tree browser over a
// design's modules and their area breakdowns.
func (c *CLI) tuiCommand() *cobra.Command {
	var tech, techFile string

	cmd := &cobra.Command{
		Use:   "tui [design.json]",
		Short: "Browse a design interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, tree, err := loadSolved(cmd, args[0], tech, techFile)
			if err != nil {
				return err
			}
			model, err := NewTreeModel(tree, cfg)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&tech, "tech", "", "tech preset override")
	cmd.Flags().StringVar(&techFile, "tech-file", "", "TOML tech config file")

	return cmd
}

// moduleRow is one flattened entry in the browser: a module plus its
// precomputed breakdown and overlap count.
type moduleRow struct {
	node     *floorplan.Node
	depth    int
	bd       area.Breakdown
	overlaps int
}

// TreeModel is the bubbletea model for the module tree browser.
type TreeModel struct {
	Rows   []moduleRow
	Cursor int
	Height int
	Offset int
}

// NewTreeModel flattens the solved tree depth-first and precomputes every
// module's breakdown, so navigation never recomputes.
func NewTreeModel(tree *floorplan.Node, cfg floorplan.TechConfig) (TreeModel, error) {
	var rows []moduleRow
	var err error

	var walk func(n *floorplan.Node, depth int)
	walk = func(n *floorplan.Node, depth int) {
		if err != nil {
			return
		}
		_, _, bd, cerr := area.Compute(n, cfg)
		if cerr != nil {
			err = cerr
			return
		}
		overlaps, derr := compact.Detect(n, cfg)
		if derr != nil {
			err = derr
			return
		}
		rows = append(rows, moduleRow{node: n, depth: depth, bd: bd, overlaps: len(overlaps)})
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(tree, 0)
	if err != nil {
		return TreeModel{}, err
	}

	return TreeModel{Rows: rows, Height: 15}, nil
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor, m.Offset = 0, 0
		case "G", "end":
			m.Cursor = len(m.Rows) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Module Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G top/bottom  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		status := ""
		if r.overlaps > 0 {
			status = iconWarning
		}

		rows = append(rows, []string{
			cursor,
			strings.Repeat("  ", r.depth) + displayName(r.node),
			fmt.Sprintf("%.0f", r.bd.TotalArea),
			fmt.Sprintf("%.2f", r.node.AspectRatio),
			fmt.Sprintf("%.2f..%.2f", r.bd.MinFeasibleRatio, r.bd.MaxFeasibleRatio),
			status,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Module", "Area", "Ratio", "Feasible", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if r.overlaps > 0 {
				base = base.Foreground(colorYellow)
			} else if r.node.IsLeaf() {
				base = base.Foreground(colorWhite)
			} else {
				base = base.Foreground(colorCyan)
			}
			if isCurrent {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	// Detail pane for the selected module.
	if m.Cursor < len(m.Rows) {
		r := m.Rows[m.Cursor]
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render(displayName(r.node)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf(
			"  regs %d · mem %d · gates %d", r.node.Registers, r.node.MemoryBits, r.node.LogicGates)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf(
			"  local %.0f · children %.0f · total %.0f (%.0fx%.0f)",
			r.bd.LocalArea, r.bd.ChildrenArea, r.bd.TotalArea,
			r.bd.CalculatedWidth, r.bd.CalculatedHeight)))
		if r.overlaps > 0 {
			b.WriteString("\n")
			b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d overlapping pair(s)", r.overlaps)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
