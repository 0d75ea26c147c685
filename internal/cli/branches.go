package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/render"
	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var branchesCmd = &cobra.Command{
	Use:   "branches <manuscript>",
	Short: "List a manuscript's branches",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranches,
}

var (
	branchesAll       bool
	branchesJSON      bool
	branchesPorcelain bool
)

func init() {
	rootCmd.AddCommand(branchesCmd)

	branchesCmd.Flags().BoolVar(&branchesAll, "all", false, "Include abandoned branches")
	branchesCmd.Flags().BoolVar(&branchesJSON, "json", false, "Output as JSON")
	branchesCmd.Flags().BoolVar(&branchesPorcelain, "porcelain", false, "Machine-readable output")
}

func runBranches(cmd *cobra.Command, args []string) error {
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
	branches, err := s.Branches.List(manuscriptUUID, branchesAll)
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Porcelain: branchesPorcelain})
	if branchesJSON {
		return r.RenderJSON(branches)
	}

	headers := []string{"ID", "Name", "Status", "Parent", "Fingerprint", "Updated"}
	var rows [][]string
	for _, b := range branches {
		parent := ""
		if b.ParentBranchName != nil {
			parent = *b.ParentBranchName
		}
		rows = append(rows, []string{
			b.ID,
			b.Name,
			string(b.Status),
			parent,
			b.ContentFingerprint,
			b.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return r.RenderTable(headers, rows)
}
