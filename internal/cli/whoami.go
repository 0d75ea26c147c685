package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current actor",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	database, cfg, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	actorUUID, actorID, err := resolveCurrentActor(database, cfg, cmd)
	if err != nil {
		return err
	}

	var slug string
	if err := database.QueryRow("SELECT slug FROM actors WHERE uuid = ?", actorUUID).Scan(&slug); err != nil {
		return fmt.Errorf("failed to load actor: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", actorID, slug)
	return nil
}
