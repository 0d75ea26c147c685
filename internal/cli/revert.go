package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var revertCmd = &cobra.Command{
	Use:   "revert <manuscript> <revision>",
	Short: "Restore an earlier revision",
	Long: `Restores a revision's content by appending a new revision; history is
never rewritten. The new revision lands on the revision's own branch
if still active, otherwise on main.`,
	Args: cobra.ExactArgs(2),
	RunE: runRevert,
}

func init() {
	rootCmd.AddCommand(revertCmd)
}

func runRevert(cmd *cobra.Command, args []string) error {
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
	revisionUUID, _, err := selectors.ResolveRevision(database, manuscriptUUID, args[1])
	if err != nil {
		return err
	}

	s := store.New(database)
	result, err := s.Branches.Revert(actorUUID, manuscriptUUID, revisionUUID)
	if err != nil {
		return fmt.Errorf("failed to revert: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s@%d\n", result.RevisionID, result.BranchName, result.RevisionNumber)
	return nil
}
