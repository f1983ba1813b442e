package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/recera/vstyle/cmd/vstyle/internal/ui"
)

func newListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <manifest>",
		Short: "List the rules a manifest produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(args[0], root.base, slog.Default())
			if err != nil {
				return err
			}

			entries := ws.reg.Entries()
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(ui.BorderStyle).
				Headers(ui.Headers...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return ui.HeaderStyle
					}
					return ui.CellStyle
				})
			for _, e := range entries {
				t.Row(ui.EntryRow(e)...)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t.Render())
			fmt.Fprintf(out, "%d rules across %d selectors\n", len(entries), len(ws.reg.Selectors()))
			return nil
		},
	}
}
