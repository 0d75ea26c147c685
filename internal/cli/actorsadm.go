package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/actors"
	"github.com/quillvc/quill/internal/config"
	"github.com/quillvc/quill/internal/db"
	"github.com/quillvc/quill/internal/paths"
	"github.com/quillvc/quill/internal/render"
)

var actorsAdmCmd = &cobra.Command{
	Use:   "actors",
	Short: "Manage actors (users and agents)",
	Long:  `Commands for listing and managing actors in the system.`,
}

var actorsAdmLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all actors",
	RunE:  runActorsAdmList,
}

var actorsAdmAddCmd = &cobra.Command{
	Use:   "add <slug>",
	Short: "Create a new actor",
	Long:  `Creates a new actor with the given slug. The slug will be normalized to lowercase [a-z0-9-].`,
	Args:  cobra.ExactArgs(1),
	RunE:  runActorsAdmAdd,
}

var (
	actorsAdmLsJSON bool
	actorsAdmName   string
	actorsAdmRole   string
)

func init() {
	rootAdmCmd.AddCommand(actorsAdmCmd)
	actorsAdmCmd.AddCommand(actorsAdmLsCmd)
	actorsAdmCmd.AddCommand(actorsAdmAddCmd)

	actorsAdmLsCmd.Flags().BoolVar(&actorsAdmLsJSON, "json", false, "Output as JSON")

	actorsAdmAddCmd.Flags().StringVar(&actorsAdmName, "name", "", "Display name for the actor")
	actorsAdmAddCmd.Flags().StringVar(&actorsAdmRole, "role", "human", "Actor role (human, agent, system)")
}

func openAdminDatabase(cmd *cobra.Command) (*db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath := cmd.Flag("db").Value.String(); dbPath != "" {
		cfg.DBPath = dbPath
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func runActorsAdmList(cmd *cobra.Command, args []string) error {
	database, err := openAdminDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	resolver := actors.NewResolver(database.DB)
	actorList, err := resolver.List()
	if err != nil {
		return fmt.Errorf("failed to list actors: %w", err)
	}

	r := render.NewRenderer(cmd.OutOrStdout(), render.Options{})
	if actorsAdmLsJSON {
		return r.RenderJSON(actorList)
	}

	headers := []string{"ID", "Slug", "Display Name", "Role"}
	var rows [][]string
	for _, actor := range actorList {
		displayName := ""
		if actor.DisplayName != nil {
			displayName = *actor.DisplayName
		}
		rows = append(rows, []string{actor.ID, actor.Slug, displayName, actor.Role})
	}
	return r.RenderTable(headers, rows)
}

func runActorsAdmAdd(cmd *cobra.Command, args []string) error {
	normalizedSlug, err := paths.NormalizeSlug(args[0])
	if err != nil {
		return fmt.Errorf("invalid actor slug: %w", err)
	}

	database, err := openAdminDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	resolver := actors.NewResolver(database.DB)
	actor, err := resolver.Create(normalizedSlug, actorsAdmName, actorsAdmRole)
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", actor.ID, actor.Slug)
	return nil
}
