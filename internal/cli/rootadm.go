package cli

import (
	"github.com/spf13/cobra"
)

var rootAdmCmd = &cobra.Command{
	Use:   "quilladm",
	Short: "Administrative CLI for quill database lifecycle and infrastructure",
	Long: `quilladm is the administrative companion to quill. It handles database
lifecycle (init, migrate), actor management, and health checks. These
operations should not be exposed to agents.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteAdmin runs the admin root command
func ExecuteAdmin() error {
	return rootAdmCmd.Execute()
}

func init() {
	rootAdmCmd.PersistentFlags().String("db", "", "Path to database file (overrides QUILL_DB_PATH)")
	rootAdmCmd.PersistentFlags().String("as", "", "Actor to perform action as (slug or friendly ID)")
}
