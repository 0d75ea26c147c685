package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/paths"
	"github.com/quillvc/quill/internal/store"
)

var newCmd = &cobra.Command{
	Use:   "new <slug>",
	Short: "Create a manuscript",
	Long: `Creates a manuscript with its main branch and an initial revision.
The initial body comes from --file (use - for stdin) and is split into
sections on "## " headings; without --file the manuscript starts empty.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var (
	newTitle string
	newFile  string
)

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVar(&newTitle, "title", "", "Manuscript title")
	newCmd.Flags().StringVar(&newFile, "file", "", "Initial document body (- for stdin)")
}

func runNew(cmd *cobra.Command, args []string) error {
	slug, err := paths.NormalizeSlug(args[0])
	if err != nil {
		return fmt.Errorf("invalid slug %q: %w", args[0], err)
	}

	database, cfg, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	actorUUID, _, err := resolveCurrentActor(database, cfg, cmd)
	if err != nil {
		return err
	}

	body := content.PlainText("")
	if newFile != "" {
		body, err = readDocument(newFile)
		if err != nil {
			return err
		}
	}

	s := store.New(database)
	result, err := s.Manuscripts.Create(actorUUID, store.ManuscriptCreateParams{
		Slug:    slug,
		Title:   newTitle,
		Content: body,
	})
	if err != nil {
		return fmt.Errorf("failed to create manuscript: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", result.ID, slug)
	return nil
}
