package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var branchCmd = &cobra.Command{
	Use:   "branch <manuscript> <name>",
	Short: "Fork a branch",
	Long: `Forks a new branch off a base version. The base defaults to the head
of main; use --from to pin another revision (R-00042, a UUID, or
branch@N). Branch names are unique among live branches.`,
	Args: cobra.ExactArgs(2),
	RunE: runBranch,
}

var branchFrom string

func init() {
	rootCmd.AddCommand(branchCmd)

	branchCmd.Flags().StringVar(&branchFrom, "from", "", "Base revision selector (defaults to head of main)")
}

func runBranch(cmd *cobra.Command, args []string) error {
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

	fromUUID := ""
	if branchFrom != "" {
		fromUUID, _, err = selectors.ResolveRevision(database, manuscriptUUID, branchFrom)
		if err != nil {
			return err
		}
	}

	s := store.New(database)
	result, err := s.Branches.Create(actorUUID, store.BranchCreateParams{
		ManuscriptUUID:   manuscriptUUID,
		Name:             args[1],
		FromRevisionUUID: fromUUID,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", result.ID, args[1])
	return nil
}
