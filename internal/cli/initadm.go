package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/actors"
	"github.com/quillvc/quill/internal/config"
	"github.com/quillvc/quill/internal/db"
	"github.com/quillvc/quill/internal/paths"
)

var initAdmCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the quill database and configuration",
	Long: `Initialize creates the SQLite database, runs migrations, and seeds a
default actor.

This is an administrative command and should not be exposed to agents.`,
	RunE: runInitAdm,
}

var (
	initAdmActorSlug string
	initAdmActorName string
)

func init() {
	rootAdmCmd.AddCommand(initAdmCmd)

	initAdmCmd.Flags().StringVar(&initAdmActorSlug, "actor-slug", "local-human", "Slug for the default human actor")
	initAdmCmd.Flags().StringVar(&initAdmActorName, "actor-name", "Local Human", "Display name for the default human actor")
}

func runInitAdm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath := cmd.Flag("db").Value.String(); dbPath != "" {
		cfg.DBPath = dbPath
	}

	// Check if database already exists
	dbExists := false
	if _, err := os.Stat(cfg.DBPath); err == nil {
		dbExists = true
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Seed data only if this is a new database
	if !dbExists {
		normalizedSlug, err := paths.NormalizeSlug(initAdmActorSlug)
		if err != nil {
			return fmt.Errorf("invalid actor slug: %w", err)
		}

		resolver := actors.NewResolver(database.DB)
		if _, err := resolver.Create(normalizedSlug, initAdmActorName, "human"); err != nil {
			return fmt.Errorf("failed to create default actor: %w", err)
		}

		fmt.Printf("✓ Initialized new database at %s\n", cfg.DBPath)
		fmt.Printf("✓ Seeded default actor: %s\n", normalizedSlug)
	} else {
		fmt.Printf("✓ Database already initialized at %s\n", cfg.DBPath)
		fmt.Printf("✓ Migrations applied\n")
	}

	return nil
}
