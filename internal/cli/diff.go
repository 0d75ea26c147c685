package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/render"
	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var diffCmd = &cobra.Command{
	Use:   "diff <manuscript> <from> <to>",
	Short: "Diff two revisions",
	Long: `Diffs two stored revisions over their canonical texts. Revisions are
selected by friendly ID (R-00042), UUID, branch@N, or a bare branch
name for that branch's head.`,
	Args: cobra.ExactArgs(3),
	RunE: runDiff,
}

var (
	diffJSON    bool
	diffUnified int
)

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output the structured diff as JSON")
	diffCmd.Flags().IntVarP(&diffUnified, "unified", "U", 3, "Lines of unified diff context")
}

func runDiff(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	manuscriptUUID, _, err := selectors.ResolveManuscript(database, args[0])
	if err != nil {
		return err
	}
	fromUUID, fromID, err := selectors.ResolveRevision(database, manuscriptUUID, args[1])
	if err != nil {
		return err
	}
	toUUID, toID, err := selectors.ResolveRevision(database, manuscriptUUID, args[2])
	if err != nil {
		return err
	}

	s := store.New(database)
	out := cmd.OutOrStdout()

	if diffJSON {
		result, err := s.Branches.DiffVersions(fromUUID, toUUID)
		if err != nil {
			return err
		}
		r := render.NewRenderer(out, render.Options{})
		return r.RenderJSON(result)
	}

	text, err := s.Branches.UnifiedDiff(fromUUID, toUUID, diffUnified)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Fprintf(out, "No changes between %s and %s\n", fromID, toID)
		return nil
	}
	fmt.Fprint(out, text)
	return nil
}
