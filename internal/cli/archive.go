package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var archiveCmd = &cobra.Command{
	Use:   "archive <manuscript> <branch>",
	Short: "Archive a branch (soft delete)",
	Long: `Moves an active branch to abandoned. Its revisions stay readable and
its name becomes reusable. Main cannot be archived.`,
	Args: cobra.ExactArgs(2),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
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
	branchUUID, branchID, err := selectors.ResolveBranch(database, manuscriptUUID, args[1])
	if err != nil {
		return err
	}

	s := store.New(database)
	if err := s.Branches.Archive(actorUUID, branchUUID); err != nil {
		return fmt.Errorf("failed to archive branch: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", branchID)
	return nil
}
