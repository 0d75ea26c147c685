package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/render"
	"github.com/quillvc/quill/internal/store"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List manuscripts",
	RunE:  runLs,
}

var (
	lsJSON      bool
	lsPorcelain bool
)

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "Output as JSON")
	lsCmd.Flags().BoolVar(&lsPorcelain, "porcelain", false, "Machine-readable output")
}

func runLs(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	s := store.New(database)
	manuscripts, err := s.Manuscripts.List()
	if err != nil {
		return fmt.Errorf("failed to list manuscripts: %w", err)
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{Porcelain: lsPorcelain})
	if lsJSON {
		return r.RenderJSON(manuscripts)
	}

	headers := []string{"ID", "Slug", "Title", "Updated"}
	var rows [][]string
	for _, m := range manuscripts {
		title := ""
		if m.Title != nil {
			title = *m.Title
		}
		rows = append(rows, []string{
			m.ID,
			m.Slug,
			title,
			m.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return r.RenderTable(headers, rows)
}
