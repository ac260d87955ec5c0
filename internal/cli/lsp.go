package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/tern/internal/lsp"
	"github.com/aidanlsb/tern/internal/vault"
	"github.com/aidanlsb/tern/internal/watcher"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the Language Server Protocol server",
	Long: `Start a Language Server Protocol (LSP) server for the vault.

This enables IDE features like:
- Diagnostics for unresolved links, tags and footnotes
- Code actions that create the file a link points at
- Heading outlines and vault-wide symbols
- The note and jump commands for dated notebooks

The server communicates over stdin/stdout using JSON-RPC. Files changed
outside the editor are picked up by a file watcher.

Examples:
  # Start LSP server (for editor integration)
  tern lsp

  # Start with debug logging to stderr
  tern lsp --debug

  # Start for a specific vault
  tern lsp --vault-path /path/to/vault`,
	Args: noArgs,
	RunE: runLSP,
}

func init() {
	rootCmd.AddCommand(lspCmd)
	lspCmd.Flags().Bool("debug", false, "Enable debug logging to stderr")
	lspCmd.Flags().Bool("no-watch", false, "Do not watch the vault for changes made outside the editor")
}

func runLSP(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	noWatch, _ := cmd.Flags().GetBool("no-watch")
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	v := vault.New(getVaultPath(), parserOptions(), logger)
	server := lsp.NewServer(v,
		lsp.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
		lsp.WithSettings(settings),
		lsp.WithLogger(logger),
	)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return server.Run(gctx)
	})

	if !noWatch {
		w, err := watcher.New(watcher.Config{
			Index:  v,
			Logger: logger,
			Skip:   server.IsOpen,
			OnReindex: func([]string) {
				server.Refresh(gctx)
			},
		})
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := w.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("watcher stopped", slog.Any("error", err))
			}
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newLogger writes text logs at level and above to w.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
