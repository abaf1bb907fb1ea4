package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/slicekit/wallseq/pkg/order"
)

// policiesCommand creates the policies command listing wall sequences.
func (c *CLI) policiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the available wall sequence policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{}
			for _, p := range order.Policies() {
				rows = append(rows, []string{strconv.Itoa(int(p)), p.String(), p.Label()})
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Value", "Key", "Label").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					switch col {
					case 0:
						return StyleNumber
					case 1:
						return StyleHighlight
					default:
						return StyleValue
					}
				})

			fmt.Println(t.Render())
			printDetail("Pass a key with --policy, e.g. 'wallseq plan 5 --policy %q'", order.MiddleOutOuterInner)
			return nil
		},
	}
}
