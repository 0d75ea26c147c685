package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/history"
	"github.com/quillvc/quill/internal/render"
	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var logCmd = &cobra.Command{
	Use:   "log <manuscript>",
	Short: "Show revision history as a tree",
	Long: `Reconstructs the manuscript's revision forest from stored parent
linkage: within a branch, parents follow revision numbers; a branch's
first revision links to its fork point.`,
	Args: cobra.ExactArgs(1),
	RunE: runLog,
}

var (
	logBranch string
	logJSON   bool
)

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVar(&logBranch, "branch", "", "Restrict to one branch's revisions")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "Output the forest as JSON")
}

func runLog(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	manuscriptUUID, _, err := selectors.ResolveManuscript(database, args[0])
	if err != nil {
		return err
	}

	s := store.New(database)
	forest, err := s.Branches.History(manuscriptUUID, logBranch)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	out := cmd.OutOrStdout()
	if logJSON {
		r := render.NewRenderer(out, render.Options{})
		return r.RenderJSON(forest)
	}

	for _, root := range forest {
		printHistoryNode(out, root, 0)
	}
	return nil
}

func printHistoryNode(out io.Writer, node *history.Node, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	line := fmt.Sprintf("%s%s  %s@%d  %dw", indent, node.ID, node.BranchName, node.RevisionNumber, node.WordCount)
	if node.CommitMessage != "" {
		line += "  " + node.CommitMessage
	}
	fmt.Fprintln(out, line)
	for _, child := range node.Children {
		printHistoryNode(out, child, depth+1)
	}
}
