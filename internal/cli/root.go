// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/tern/internal/config"
	"github.com/aidanlsb/tern/internal/parser"
	"github.com/aidanlsb/tern/internal/paths"
	"github.com/aidanlsb/tern/internal/ui"
)

var (
	// Global flags
	vaultPathFlag string
	configPath    string

	// Resolved values
	resolvedVaultPath string
	settings          *config.Settings
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tern",
	Short: "Tern - a language server for linked markdown notes",
	Long: `Tern indexes a folder of markdown notes and serves it to editors over the
Language Server Protocol: unresolved link diagnostics, file creation for
missing notes, heading outlines and dated notebooks.

The same features are available from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		root, err := resolveVault(vaultPathFlag)
		if err != nil {
			return err
		}
		resolvedVaultPath = root

		settings, err = config.Load(root, configPath)
		if err != nil {
			return newError(ErrConfigInvalid, err, "Check tern.yaml in the vault and the global config.toml")
		}

		ui.ConfigureOutput()
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

// run executes args and reports a failure on the configured outputs: as a
// JSON envelope on stdout with --json, otherwise as text on stderr.
func run(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	code, suggestion := classify(err)
	if jsonOutput {
		outputError(stdout, code, err.Error(), nil, suggestion)
		return err
	}
	fmt.Fprintln(stderr, ui.Error(err.Error()))
	if suggestion != "" {
		fmt.Fprintln(stderr, ui.Hint(suggestion))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Path to vault directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to global config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return newError(ErrInvalidInput, err, "Run '"+cmd.CommandPath()+" --help' for usage")
	})
}

// resolveVault turns the --vault-path flag into an absolute, symlink-free
// directory.
func resolveVault(flag string) (string, error) {
	path := flag
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", newError(ErrVaultNotFound, err, "")
		}
		path = wd
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", newError(ErrVaultNotFound, err, "")
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", newError(ErrVaultNotFound, fmt.Errorf("vault not found: %s", abs), "Pass --vault-path or run tern from inside the vault")
	}
	if !info.IsDir() {
		return "", newError(ErrVaultNotFound, fmt.Errorf("vault is not a directory: %s", abs), "")
	}
	return abs, nil
}

// getVaultPath returns the resolved vault path.
func getVaultPath() string {
	return resolvedVaultPath
}

// relPath shows path relative to the vault, or unchanged when it lies
// outside.
func relPath(root, path string) string {
	rel, err := paths.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// vaultFile resolves a file argument against the vault root and rejects
// paths that escape it.
func vaultFile(arg string) (string, error) {
	root := getVaultPath()
	path := arg
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)
	if err := paths.ValidateWithinVault(root, path); err != nil {
		return "", newError(ErrFileOutsideVault, err, "")
	}
	return path, nil
}

// startSpinner shows message on stderr while work runs; the returned func
// stops it.
func startSpinner(cmd *cobra.Command, message string) func() {
	f, ok := cmd.ErrOrStderr().(*os.File)
	if !ok || jsonOutput {
		return func() {}
	}
	s := ui.NewSpinner(f, message)
	s.Start()
	return s.Stop
}

// parserOptions maps the code block settings onto the parser.
func parserOptions() parser.Options {
	return parser.Options{
		TagsInCodeblocks:       settings.TagsInCodeblocks,
		ReferencesInCodeblocks: settings.ReferencesInCodeblocks,
	}
}
