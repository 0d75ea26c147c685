package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Version control for structured manuscripts",
	Long: `quill is a git-flavored CLI for versioning structured manuscripts
on a SQLite backend. Manuscripts carry branches, branches carry
immutable revisions, and merges are three-way with ours/theirs/manual
strategies.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to database file (overrides QUILL_DB_PATH)")
	rootCmd.PersistentFlags().String("as", "", "Actor to perform action as (slug or friendly ID)")
}
