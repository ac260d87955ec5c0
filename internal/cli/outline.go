package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/tern/internal/outline"
	"github.com/aidanlsb/tern/internal/parser"
	"github.com/aidanlsb/tern/internal/ui"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Show a file's headings as a tree",
	Long: `Prints the heading hierarchy of a markdown file. Each heading nests under
the nearest heading above it with a lower level.

Examples:
  tern outline notes/ideas.md
  tern outline --json notes/ideas.md`,
	Args: exactArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	path, err := vaultFile(args[0])
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return newError(ErrFileNotFound, err, "")
	}

	doc := parser.Parse(path, string(content), parserOptions())
	forest := outline.Build(doc.Headings)
	rel := relPath(getVaultPath(), path)

	out := cmd.OutOrStdout()
	if jsonOutput {
		if forest == nil {
			forest = []*outline.Node{}
		}
		outputSuccess(out, map[string]interface{}{
			"file":     rel,
			"headings": forest,
		}, &Meta{Count: len(doc.Headings)})
		return nil
	}

	tree := gotree.New(ui.FilePath(rel))
	for _, n := range forest {
		addNode(tree, n)
	}
	fmt.Fprint(out, tree.Print())
	return nil
}

func addNode(parent gotree.Tree, n *outline.Node) {
	text := n.Heading.Text
	if text == "" {
		text = strings.Repeat("#", n.Heading.Level)
	}
	child := parent.Add(text + " " + ui.Hint(fmt.Sprintf("L%d", n.Heading.Range.Start.Line+1)))
	for _, c := range n.Children {
		addNode(child, c)
	}
}
