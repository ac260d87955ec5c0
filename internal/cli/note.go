package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/tern/internal/daily"
	"github.com/aidanlsb/tern/internal/ui"
)

// now is the clock used to resolve relative dates.
var now = time.Now

const dateLayout = "2006-01-02"

var noteCmd = &cobra.Command{
	Use:   "note <notebook> [date...]",
	Short: "Create or find a notebook's note for a date",
	Long: `Resolves the note a notebook keeps for a date, creating it if missing, and
prints its path.

The date defaults to today and accepts ISO dates, today/tomorrow/yesterday,
the notebook's own filename format and phrases like "next friday". The
"daily" notebook always exists; it uses dailynote at the vault root unless
configured otherwise.

Examples:
  tern note daily
  tern note work yesterday
  tern note journal next friday
  $EDITOR "$(tern note daily)"`,
	Args: minimumNArgs(1),
	RunE: runNote,
}

func init() {
	rootCmd.AddCommand(noteCmd)
}

// noteResult is the JSON data of the note command.
type noteResult struct {
	Notebook string `json:"notebook"`
	Date     string `json:"date"`
	Path     string `json:"path"`
	Relative string `json:"relative"`
	Created  bool   `json:"created"`
}

func runNote(cmd *cobra.Command, args []string) error {
	var date *string
	if len(args) > 1 {
		joined := strings.Join(args[1:], " ")
		date = &joined
	}

	root := getVaultPath()
	target, err := daily.Resolve(root, settings, args[0], date, now())
	if err != nil {
		return err
	}

	created, err := daily.Ensure(target.Path)
	if err != nil {
		return newError(ErrFileWriteError, fmt.Errorf("create %s: %w", relPath(root, target.Path), err), "")
	}

	result := noteResult{
		Notebook: target.Notebook,
		Date:     target.Date.Format(dateLayout),
		Path:     target.Path,
		Relative: relPath(root, target.Path),
		Created:  created,
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		outputSuccess(out, result, nil)
		return nil
	}

	if created {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Successf("Created %s", ui.FilePath(result.Relative)))
	}
	fmt.Fprintln(out, target.Path)
	return nil
}
