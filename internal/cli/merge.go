package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/merge"
	"github.com/quillvc/quill/internal/render"
	"github.com/quillvc/quill/internal/selectors"
	"github.com/quillvc/quill/internal/store"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <manuscript> <source-branch>",
	Short: "Merge a branch into a target branch",
	Long: `Three-way merges the source branch's head into the target (default
main), using the source's fork point as the base. The target is "ours"
and the source is "theirs".

Strategies: ours and theirs auto-resolve conflicts toward one side;
manual refuses to land anything when conflicts exist and prints them
instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

var (
	mergeInto     string
	mergeStrategy string
	mergeMessage  string
	mergeJSON     bool
)

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeInto, "into", "", "Target branch name (defaults to main)")
	mergeCmd.Flags().StringVar(&mergeStrategy, "strategy", "manual", "Conflict strategy (ours, theirs, manual)")
	mergeCmd.Flags().StringVarP(&mergeMessage, "message", "m", "", "Merge commit message")
	mergeCmd.Flags().BoolVar(&mergeJSON, "json", false, "Output result as JSON")
}

func runMerge(cmd *cobra.Command, args []string) error {
	database, cfg, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	actorUUID, _, err := resolveCurrentActor(database, cfg, cmd)
	if err != nil {
		return err
	}

	manuscriptUUID, _, err := selectors.ResolveManuscript(database, args[0])
	if err != nil {
		return err
	}
	sourceUUID, _, err := selectors.ResolveBranch(database, manuscriptUUID, args[1])
	if err != nil {
		return err
	}

	s := store.New(database)
	result, err := s.Branches.Merge(actorUUID, store.MergeParams{
		SourceBranchUUID: sourceUUID,
		TargetName:       mergeInto,
		Strategy:         merge.Strategy(mergeStrategy),
		Message:          mergeMessage,
	})
	if err != nil {
		return fmt.Errorf("failed to merge: %w", err)
	}

	out := cmd.OutOrStdout()
	if mergeJSON {
		r := render.NewRenderer(out, render.Options{})
		return r.RenderJSON(result)
	}

	if !result.Success {
		fmt.Fprintf(out, "%s\n\n", result.Summary)
		for _, c := range result.Conflicts {
			where := fmt.Sprintf("lines %d-%d", c.StartLine+1, c.EndLine)
			if c.Section != "" {
				where = fmt.Sprintf("section %s, %s", c.Section, where)
			}
			fmt.Fprintf(out, "conflict (%s):\n", where)
			fmt.Fprintf(out, "  ours:   %q\n", c.OurContent)
			fmt.Fprintf(out, "  theirs: %q\n", c.TheirContent)
		}
		return fmt.Errorf("merge has conflicts; resolve and commit manually, or rerun with --strategy ours/theirs")
	}

	fmt.Fprintf(out, "%s  merged %s  %s\n", result.NewRevisionID, args[1], result.Summary)
	if len(result.Conflicts) > 0 {
		fmt.Fprintf(out, "resolved %d conflict(s) via %s\n", len(result.Conflicts), mergeStrategy)
	}
	return nil
}
