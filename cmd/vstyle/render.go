package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRenderCommand(root *rootOptions) *cobra.Command {
	var cssOnly bool

	cmd := &cobra.Command{
		Use:   "render <manifest>",
		Short: "Apply a manifest and print the resulting page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(args[0], root.base, slog.Default())
			if err != nil {
				return err
			}
			if cssOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), ws.reg.CSS())
				return err
			}
			if err := ws.doc.Render(cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("failed to render page: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().BoolVar(&cssOnly, "css", false, "print the stylesheet instead of the page")
	return cmd
}
