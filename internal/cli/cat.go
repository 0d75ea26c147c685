package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/render"
	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var catCmd = &cobra.Command{
	Use:   "cat <manuscript> [revision]",
	Short: "Print a revision's document body",
	Long: `Prints the canonical text of a revision. Without a revision selector,
prints the head of main.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCat,
}

var catJSON bool

func init() {
	rootCmd.AddCommand(catCmd)

	catCmd.Flags().BoolVar(&catJSON, "json", false, "Output the stored content as JSON")
}

func runCat(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	manuscriptUUID, _, err := selectors.ResolveManuscript(database, args[0])
	if err != nil {
		return err
	}

	selector := "main"
	if len(args) == 2 {
		selector = args[1]
	}
	revisionUUID, _, err := selectors.ResolveRevision(database, manuscriptUUID, selector)
	if err != nil {
		return err
	}

	s := store.New(database)
	body, err := s.Branches.RevisionContent(revisionUUID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if catJSON {
		r := render.NewRenderer(out, render.Options{})
		return r.RenderJSON(body)
	}

	text := content.CanonicalText(body)
	fmt.Fprintln(out, text)
	return nil
}
