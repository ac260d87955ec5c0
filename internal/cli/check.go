package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/tern/internal/check"
	"github.com/aidanlsb/tern/internal/model"
	"github.com/aidanlsb/tern/internal/ui"
	"github.com/aidanlsb/tern/internal/vault"
)

var (
	checkStrict bool
)

// ErrUnresolved is returned by check --strict when any reference is
// unresolved.
const ErrUnresolved = "UNRESOLVED_REFERENCES"

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Report unresolved references",
	Long: `Indexes the vault and lists every link, tag and footnote that resolves to
nothing, with how many times the same target is used.

With a file argument only that file is reported; counts still cover the
whole vault.

Examples:
  tern check
  tern check notes/ideas.md
  tern check --strict   # exit non-zero when anything is unresolved`,
	Args: maximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Fail when any reference is unresolved")
}

// issueResult is one unresolved reference in JSON output. Line and column
// are 1-based.
type issueResult struct {
	File      string              `json:"file"`
	Line      int                 `json:"line"`
	Column    int                 `json:"column"`
	Kind      model.ReferenceKind `json:"kind"`
	Reference string              `json:"reference"`
	Count     int                 `json:"count"`
	Message   string              `json:"message"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	root := getVaultPath()

	var file string
	if len(args) == 1 {
		var err error
		if file, err = vaultFile(args[0]); err != nil {
			return err
		}
	}

	stop := startSpinner(cmd, "Indexing vault...")
	v := vault.New(root, parserOptions(), newLogger(cmd.ErrOrStderr(), slog.LevelWarn))
	err := v.Load(ctx)
	stop()
	if err != nil {
		return err
	}
	snap := v.Snapshot()

	var issues []check.Issue
	if file != "" {
		var ok bool
		issues, ok, err = check.File(ctx, snap, file)
		if err == nil && !ok {
			err = newError(ErrFileNotFound, fmt.Errorf("file not indexed: %s", relPath(root, file)), "Only markdown files inside the vault are checked")
		}
	} else {
		issues, err = check.Vault(ctx, snap, snap.Paths())
	}
	if err != nil {
		return err
	}

	files := make(map[string]bool)
	results := make([]issueResult, 0, len(issues))
	for _, issue := range issues {
		ref := issue.Reference
		files[ref.Path] = true
		results = append(results, issueResult{
			File:      relPath(root, ref.Path),
			Line:      ref.Range.Start.Line + 1,
			Column:    ref.Range.Start.Character + 1,
			Kind:      ref.Kind,
			Reference: ref.Text,
			Count:     issue.Count,
			Message:   issue.Message(),
		})
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		outputSuccess(out, map[string]interface{}{
			"issues": results,
			"files":  len(files),
		}, &Meta{Count: len(results)})
	} else if len(issues) == 0 {
		fmt.Fprintln(out, ui.Success("No unresolved references"))
	} else {
		fmt.Fprintln(out, ui.Header("Unresolved references"))
		table := ui.NewTable(3)
		for _, issue := range issues {
			ref := issue.Reference
			badge := ""
			if issue.Count > 1 {
				badge = ui.Badge(issue.Count, "use")
			}
			table.AddRow(ui.Location(relPath(root, ref.Path), ref.Range.Start.Line, ref.Range.Start.Character), written(ref), badge)
		}
		fmt.Fprint(out, table.String())
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.Warning(ui.Count(len(issues), "unresolved reference")+" in "+ui.Count(len(files), "file")))
	}

	if checkStrict && len(issues) > 0 {
		return newError(ErrUnresolved, errors.New(ui.Count(len(issues), "unresolved reference")), "")
	}
	return nil
}

// written renders a reference the way it appears in markdown.
func written(ref model.Reference) string {
	switch ref.Kind {
	case model.WikiLink:
		return "[[" + ref.Text + "]]"
	case model.MarkdownLink:
		return "(" + ref.Text + ")"
	case model.Tag:
		return "#" + ref.Text
	case model.Footnote:
		return "[" + ref.Text + "]"
	}
	return ref.Text
}
