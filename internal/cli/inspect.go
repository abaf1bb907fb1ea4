package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/slicedoc"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for browsing print order.
func (c *CLI) inspectCommand() *cobra.Command {
	var policyKey string

	cmd := &cobra.Command{
		Use:   "inspect [document.json]",
		Short: "Browse a document's layers and print order interactively",
		Long: `Browse a sliced document interactively.

The top level lists the document's layers. Selecting a layer shows its
islands and the order the policy prints each island's walls.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := parsePolicyFlag(policyKey)
			if err != nil {
				return err
			}
			doc, err := slicedoc.ImportJSON(args[0])
			if err != nil {
				return fmt.Errorf("load document %s: %w", args[0], err)
			}
			if len(doc.Layers) == 0 {
				printInfo("Document has no layers")
				return nil
			}
			_, err = tea.NewProgram(NewInspectModel(doc, policy)).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&policyKey, "policy", "p", "", "wall sequence policy key (see 'wallseq policies')")

	return cmd
}

// InspectModel is the bubbletea model for browsing a document's print order.
// The top level lists layers; enter drills into one layer and shows the
// planned wall sequence for the island under the cursor.
type InspectModel struct {
	Doc    *slicedoc.Document
	Policy order.Policy

	// Layer list state
	Cursor int
	Offset int
	Height int

	// Drill-down state. Layer is the selected layer index, -1 at the
	// layer list.
	Layer        int
	IslandCursor int
}

// NewInspectModel creates a new inspect model positioned at the layer list.
func NewInspectModel(doc *slicedoc.Document, policy order.Policy) InspectModel {
	return InspectModel{
		Doc:    doc,
		Policy: policy,
		Height: 15,
		Layer:  -1,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Layer >= 0 {
				m.Layer = -1
				m.IslandCursor = 0
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Layer >= 0 {
				if m.IslandCursor > 0 {
					m.IslandCursor--
				}
			} else if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Layer >= 0 {
				if m.IslandCursor < len(m.Doc.Layers[m.Layer].Islands)-1 {
					m.IslandCursor++
				}
			} else if m.Cursor < len(m.Doc.Layers)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.Layer < 0 && len(m.Doc.Layers) > 0 {
				m.Layer = m.Cursor
				m.IslandCursor = 0
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	if m.Layer >= 0 {
		return m.islandView()
	}
	return m.layerView()
}

// layerView renders the scrollable layer list.
func (m InspectModel) layerView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ islands  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Doc.Layers) {
		end = len(m.Doc.Layers)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		layer := &m.Doc.Layers[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		walls := 0
		for ii := range layer.Islands {
			walls += layer.Islands[ii].EntityCount()
		}

		rows = append(rows, []string{
			cursor,
			strconv.Itoa(i),
			fmt.Sprintf("%.2f", layer.Z),
			strconv.Itoa(len(layer.Islands)),
			strconv.Itoa(walls),
			modeSummary(layer),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Layer", "Z", "Islands", "Walls", "Modes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Doc.Layers))))

	return b.String()
}

// islandView renders one layer's islands and the print order of the island
// under the cursor.
func (m InspectModel) islandView() string {
	var b strings.Builder
	layer := &m.Doc.Layers[m.Layer]

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layer %d", m.Layer)))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  z=%.2f · %s", layer.Z, m.Policy.Label())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ island  esc back  q quit"))
	b.WriteString("\n\n")

	if len(layer.Islands) == 0 {
		b.WriteString(listDimStyle.Render("  (no islands)"))
		return b.String()
	}

	for i := range layer.Islands {
		island := &layer.Islands[i]

		cursor := "  "
		if i == m.IslandCursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%sisland %d  %s · %d walls · %d entities",
			cursor, i, island.Mode(), island.WallCount(), island.EntityCount())
		if i == m.IslandCursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.printOrderTable(&layer.Islands[m.IslandCursor]))

	return b.String()
}

// printOrderTable renders the planned wall sequence for one island.
func (m InspectModel) printOrderTable(island *slicedoc.Island) string {
	rows := printOrderRows(island, m.Policy)
	if len(rows) == 0 {
		return listDimStyle.Render("  (empty island)")
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Step", "Depth", "Width", "Role").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == 0 {
				return StyleSuccess
			}
			return listNormalStyle
		})

	return t.Render()
}

// printOrderRows builds table rows for the island's planned print order,
// one row per wall in the order the nozzle visits them.
func printOrderRows(island *slicedoc.Island, policy order.Policy) [][]string {
	var rows [][]string
	switch island.Mode() {
	case slicedoc.ModeFixed:
		for i, l := range order.ReorderLoops(island.Loops, policy) {
			role := ""
			if l.External() {
				role = "outer wall"
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(l.Depth),
				fmt.Sprintf("%.2f", l.Width),
				role,
			})
		}
	case slicedoc.ModeAdaptive:
		for i, e := range order.ReorderExtrusions(island.Extrusions, policy) {
			role := ""
			switch {
			case !e.Contour:
				role = "gap fill"
			case e.External():
				role = "outer wall"
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(e.Depth),
				fmt.Sprintf("%.2f", e.AverageWidth()),
				role,
			})
		}
	}
	return rows
}

// modeSummary describes the island modes present on a layer.
func modeSummary(layer *slicedoc.Layer) string {
	fixed, adaptive := 0, 0
	for i := range layer.Islands {
		switch layer.Islands[i].Mode() {
		case slicedoc.ModeFixed:
			fixed++
		case slicedoc.ModeAdaptive:
			adaptive++
		}
	}
	switch {
	case fixed > 0 && adaptive > 0:
		return fmt.Sprintf("%d fixed, %d adaptive", fixed, adaptive)
	case adaptive > 0:
		return slicedoc.ModeAdaptive
	case fixed > 0:
		return slicedoc.ModeFixed
	default:
		return "—"
	}
}
