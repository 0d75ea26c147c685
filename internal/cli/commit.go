package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var commitCmd = &cobra.Command{
	Use:   "commit <manuscript> <branch>",
	Short: "Append a revision to a branch",
	Long: `Appends a new revision holding the document from --file (use - for
stdin). Only active branches accept commits. --if-match guards against
a concurrent writer by checking the branch etag.`,
	Args: cobra.ExactArgs(2),
	RunE: runCommit,
}

var (
	commitFile    string
	commitMessage string
	commitIfMatch int64
)

func init() {
	rootCmd.AddCommand(commitCmd)

	commitCmd.Flags().StringVar(&commitFile, "file", "", "Document body to commit (- for stdin)")
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.Flags().Int64Var(&commitIfMatch, "if-match", 0, "Require branch etag to match before committing")
	commitCmd.MarkFlagRequired("file")
}

func runCommit(cmd *cobra.Command, args []string) error {
	database, cfg, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	actorUUID, _, err := resolveCurrentActor(database, cfg, cmd)
	if err != nil {
		return err
	}

	manuscriptUUID, _, err := selectors.ResolveManuscript(database, args[0])
	if err != nil {
		return err
	}
	branchUUID, _, err := selectors.ResolveBranch(database, manuscriptUUID, args[1])
	if err != nil {
		return err
	}

	body, err := readDocument(commitFile)
	if err != nil {
		return err
	}

	s := store.New(database)
	result, err := s.Branches.Commit(actorUUID, store.CommitParams{
		BranchUUID:  branchUUID,
		Content:     body,
		Message:     commitMessage,
		IfMatchETag: commitIfMatch,
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s@%d  %s\n", result.RevisionID, args[1], result.RevisionNumber, result.Summary)
	if len(result.SectionsChanged) > 0 {
		fmt.Fprintf(out, "sections: %s\n", strings.Join(result.SectionsChanged, ", "))
	}
	return nil
}
