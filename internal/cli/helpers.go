package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/actors"
	"github.com/quillvc/quill/internal/config"
	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/db"
)

// openDatabase loads config, applies the --db flag override, opens the
// database, and refuses to proceed against a schema that needs migration.
func openDatabase(cmd *cobra.Command) (*db.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath := cmd.Flag("db").Value.String(); dbPath != "" {
		cfg.DBPath = dbPath
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RequiresMigrationError(); err != nil {
		database.Close()
		return nil, nil, err
	}

	return database, cfg, nil
}

// resolveCurrentActor resolves the current actor UUID and friendly ID
// from --as flag, environment variables, or config.
func resolveCurrentActor(database *db.DB, cfg *config.Config, cmd *cobra.Command) (uuid, friendlyID string, err error) {
	actorIdentifier := cmd.Flag("as").Value.String()
	if actorIdentifier == "" {
		actorIdentifier = cfg.GetActorID()
	}
	if actorIdentifier == "" {
		return "", "", fmt.Errorf("no actor configured (set QUILL_ACTOR, QUILL_ACTOR_ID, or use --as flag)")
	}

	resolver := actors.NewResolver(database.DB)
	actorUUID, err := resolver.Resolve(actorIdentifier)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve actor: %w", err)
	}

	var actorID string
	err = database.QueryRow("SELECT id FROM actors WHERE uuid = ?", actorUUID).Scan(&actorID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get actor ID: %w", err)
	}

	return actorUUID, actorID, nil
}

// readDocument reads manuscript content from a file path, or stdin when
// the path is "-", and parses section headings.
func readDocument(path string) (content.Content, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return content.Content{}, fmt.Errorf("failed to read document: %w", err)
	}
	return content.ParseDocument(string(data)), nil
}
