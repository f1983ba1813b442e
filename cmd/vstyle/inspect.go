package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/recera/vstyle/cmd/vstyle/internal/ui"
)

func newInspectCommand(root *rootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "inspect <manifest>",
		Short: "Browse and prune the rules a manifest produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(args[0], root.base, slog.Default())
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				ui.New(ws.reg, ws.manifest.Title),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("TUI error: %w", err)
			}

			if write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), ws.reg.CSS())
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "print", false, "print the remaining stylesheet on exit")
	return cmd
}
