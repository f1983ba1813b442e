package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/recera/vstyle/pkg/debug"
)

var (
	version = "0.1.0-preview"
	commit  = "dev"
	date    = "unknown"
)

// rootOptions are the flags every command shares
type rootOptions struct {
	logLevel string
	logJSON  bool
	base     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "vstyle",
		Short: "vstyle - manage injected style rules",
		Long: `vstyle applies YAML style manifests to a page's registry of injected
<style> rules, renders the result, inspects it, and serves it with live
updates to connected browsers.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := debug.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(debug.NewLogger(cmd.ErrOrStderr(), level, opts.logJSON))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "log as JSON lines")
	rootCmd.PersistentFlags().StringVar(&opts.base, "base", "", "HTML page whose server-rendered rules are adopted before the manifest")

	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newInspectCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))

	return rootCmd
}
