package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillvc/quill/internal/config"
	"github.com/quillvc/quill/internal/db"
	"github.com/quillvc/quill/internal/render"
)

var doctorAdmCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database health and integrity",
	Long: `Performs health checks on the database file, schema, and version
history invariants. This is an administrative operation.`,
	RunE: runDoctorAdm,
}

var (
	doctorAdmJSON    bool
	doctorAdmFix     bool
	doctorAdmVerbose bool
)

type checkResult struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"` // "ok", "warning", "error"
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

type doctorReport struct {
	DBPath        string        `json:"db_path"`
	Checks        []checkResult `json:"checks"`
	Warnings      int           `json:"warnings"`
	Errors        int           `json:"errors"`
	OverallStatus string        `json:"overall_status"`
}

func init() {
	rootAdmCmd.AddCommand(doctorAdmCmd)
	doctorAdmCmd.Flags().BoolVar(&doctorAdmJSON, "json", false, "Output JSON")
	doctorAdmCmd.Flags().BoolVar(&doctorAdmFix, "fix", false, "Auto-repair issues")
	doctorAdmCmd.Flags().BoolVar(&doctorAdmVerbose, "verbose", false, "Verbose output")
}

func runDoctorAdm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath := cmd.Flag("db").Value.String(); dbPath != "" {
		cfg.DBPath = dbPath
	}

	report := &doctorReport{
		DBPath:        cfg.DBPath,
		Checks:        []checkResult{},
		OverallStatus: "ok",
	}

	report.Checks = append(report.Checks, checkDatabaseFile(cfg.DBPath)...)

	database, err := db.Open(cfg.DBPath)
	if err == nil {
		defer database.Close()
		report.Checks = append(report.Checks, checkDatabasePragmas(database)...)
		report.Checks = append(report.Checks, checkSchema(database)...)
		report.Checks = append(report.Checks, checkHistoryIntegrity(database)...)
		report.Checks = append(report.Checks, checkSequenceDrift(database)...)
	} else {
		report.Checks = append(report.Checks, checkResult{
			Name:    "database_open",
			Status:  "error",
			Message: fmt.Sprintf("Failed to open database: %v", err),
		})
	}

	for _, check := range report.Checks {
		switch check.Status {
		case "warning":
			report.Warnings++
		case "error":
			report.Errors++
			report.OverallStatus = "error"
		}
	}
	if report.Warnings > 0 && report.OverallStatus == "ok" {
		report.OverallStatus = "warning"
	}

	if doctorAdmFix && database != nil {
		applyDoctorFixes(cmd, database)
	}

	if doctorAdmJSON {
		r := render.NewRenderer(cmd.OutOrStdout(), render.Options{})
		return r.RenderJSON(report)
	}

	printDoctorReport(cmd, report)

	if report.Errors > 0 {
		os.Exit(1)
	}
	return nil
}

func checkDatabaseFile(dbPath string) []checkResult {
	var results []checkResult

	info, err := os.Stat(dbPath)
	if err != nil {
		return append(results, checkResult{
			Name:    "db_file_exists",
			Status:  "error",
			Message: fmt.Sprintf("Database file not found: %s", dbPath),
		})
	}

	results = append(results, checkResult{
		Name:    "db_file_exists",
		Status:  "ok",
		Message: fmt.Sprintf("Database file: %s (%.1f MB)", dbPath, float64(info.Size())/(1024*1024)),
	})

	f, err := os.OpenFile(dbPath, os.O_RDWR, 0)
	if err != nil {
		results = append(results, checkResult{
			Name:    "db_file_permissions",
			Status:  "error",
			Message: fmt.Sprintf("Database file not writable: %v", err),
		})
	} else {
		f.Close()
		results = append(results, checkResult{
			Name:    "db_file_permissions",
			Status:  "ok",
			Message: "Database file is readable and writable",
		})
	}

	return results
}

func checkDatabasePragmas(database *db.DB) []checkResult {
	var results []checkResult

	var journalMode string
	database.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if journalMode == "wal" {
		results = append(results, checkResult{Name: "wal_mode", Status: "ok", Message: "WAL mode enabled"})
	} else {
		results = append(results, checkResult{
			Name:    "wal_mode",
			Status:  "warning",
			Message: fmt.Sprintf("WAL mode not enabled (current: %s)", journalMode),
		})
	}

	var foreignKeys int
	database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
	if foreignKeys == 1 {
		results = append(results, checkResult{Name: "foreign_keys", Status: "ok", Message: "Foreign keys enabled"})
	} else {
		results = append(results, checkResult{
			Name:    "foreign_keys",
			Status:  "error",
			Message: "Foreign keys not enabled",
			Details: []string{"Critical: foreign key constraints are not enforced"},
		})
	}

	var integrityCheck string
	database.QueryRow("PRAGMA integrity_check").Scan(&integrityCheck)
	if integrityCheck == "ok" {
		results = append(results, checkResult{Name: "integrity_check", Status: "ok", Message: "Database integrity check passed"})
	} else {
		results = append(results, checkResult{
			Name:    "integrity_check",
			Status:  "error",
			Message: fmt.Sprintf("Database integrity check failed: %s", integrityCheck),
			Details: []string{"Database may be corrupted", "Restore from backup recommended"},
		})
	}

	return results
}

func checkSchema(database *db.DB) []checkResult {
	requiredTables := []string{"actors", "manuscripts", "branches", "revisions", "event_log"}
	var missingTables []string

	for _, table := range requiredTables {
		var count int
		err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil || count == 0 {
			missingTables = append(missingTables, table)
		}
	}

	if len(missingTables) == 0 {
		return []checkResult{{
			Name:    "schema_tables",
			Status:  "ok",
			Message: fmt.Sprintf("All required tables present (%d/%d)", len(requiredTables), len(requiredTables)),
		}}
	}
	return []checkResult{{
		Name:    "schema_tables",
		Status:  "error",
		Message: fmt.Sprintf("Missing tables: %v", missingTables),
		Details: []string{"Run 'quilladm migrate' to create missing tables"},
	}}
}

// checkHistoryIntegrity verifies the version-history invariants: every
// branch has revisions, revision numbers are gap-free from 1, and no live
// branch name is duplicated within a manuscript.
func checkHistoryIntegrity(database *db.DB) []checkResult {
	var results []checkResult

	var emptyBranches int
	database.QueryRow(`
		SELECT COUNT(*) FROM branches
		WHERE uuid NOT IN (SELECT DISTINCT branch_uuid FROM revisions)
	`).Scan(&emptyBranches)
	if emptyBranches == 0 {
		results = append(results, checkResult{Name: "empty_branches", Status: "ok", Message: "Every branch has at least one revision"})
	} else {
		results = append(results, checkResult{
			Name:    "empty_branches",
			Status:  "error",
			Message: fmt.Sprintf("%d branch(es) have no revisions", emptyBranches),
		})
	}

	// Gap-free numbering: max(revision_number) must equal count per branch,
	// and numbering starts at 1.
	var gappedBranches int
	database.QueryRow(`
		SELECT COUNT(*) FROM (
			SELECT branch_uuid FROM revisions
			GROUP BY branch_uuid
			HAVING MAX(revision_number) != COUNT(*) OR MIN(revision_number) != 1
		)
	`).Scan(&gappedBranches)
	if gappedBranches == 0 {
		results = append(results, checkResult{Name: "revision_numbering", Status: "ok", Message: "Revision numbers are gap-free from 1"})
	} else {
		results = append(results, checkResult{
			Name:    "revision_numbering",
			Status:  "error",
			Message: fmt.Sprintf("%d branch(es) have gapped or misbased revision numbers", gappedBranches),
		})
	}

	var duplicateNames int
	database.QueryRow(`
		SELECT COUNT(*) FROM (
			SELECT manuscript_uuid, name FROM branches
			WHERE status != 'abandoned'
			GROUP BY manuscript_uuid, name
			HAVING COUNT(*) > 1
		)
	`).Scan(&duplicateNames)
	if duplicateNames == 0 {
		results = append(results, checkResult{Name: "duplicate_branch_names", Status: "ok", Message: "No duplicate live branch names"})
	} else {
		results = append(results, checkResult{
			Name:    "duplicate_branch_names",
			Status:  "error",
			Message: fmt.Sprintf("%d duplicate live branch name(s) found", duplicateNames),
			Details: []string{"Manual intervention required to resolve duplicates"},
		})
	}

	var missingMain int
	database.QueryRow(`
		SELECT COUNT(*) FROM manuscripts
		WHERE uuid NOT IN (
			SELECT manuscript_uuid FROM branches WHERE name = 'main' AND status = 'active'
		)
	`).Scan(&missingMain)
	if missingMain == 0 {
		results = append(results, checkResult{Name: "main_branches", Status: "ok", Message: "Every manuscript has an active main branch"})
	} else {
		results = append(results, checkResult{
			Name:    "main_branches",
			Status:  "error",
			Message: fmt.Sprintf("%d manuscript(s) missing an active main branch", missingMain),
		})
	}

	return results
}

func checkSequenceDrift(database *db.DB) []checkResult {
	drifts, err := db.SequenceDrifts(database, db.DefaultSequenceSpecs())
	if err != nil {
		return []checkResult{{
			Name:    "sequence_drift",
			Status:  "error",
			Message: fmt.Sprintf("Failed to check sqlite_sequence drift: %v", err),
		}}
	}

	if len(drifts) == 0 {
		return []checkResult{{Name: "sequence_drift", Status: "ok", Message: "All sqlite_sequence values are in sync"}}
	}

	details := make([]string, 0, len(drifts))
	for _, drift := range drifts {
		details = append(details, fmt.Sprintf("%s (table %s): sqlite_sequence=%d, max_id=%d",
			drift.SeqTable, drift.EntityTable, drift.SeqValue, drift.MaxID))
	}
	return []checkResult{{
		Name:    "sequence_drift",
		Status:  "error",
		Message: fmt.Sprintf("Detected sqlite_sequence drift (%d table(s))", len(drifts)),
		Details: details,
	}}
}

func applyDoctorFixes(cmd *cobra.Command, database *db.DB) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "--fix results")
	if drifts, err := db.FixSequenceDrifts(database, db.DefaultSequenceSpecs()); err != nil {
		fmt.Fprintf(out, "Sequence repair failed: %v\n", err)
	} else if len(drifts) > 0 {
		fmt.Fprintf(out, "Fixed sqlite_sequence drift for %d table(s)\n", len(drifts))
	} else {
		fmt.Fprintln(out, "No sqlite_sequence drift detected")
	}
	fmt.Fprintln(out)
}

func printDoctorReport(cmd *cobra.Command, report *doctorReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Database: %s\n\n", report.DBPath)

	for _, check := range report.Checks {
		icon := "✓"
		if check.Status == "warning" {
			icon = "⚠"
		} else if check.Status == "error" {
			icon = "✗"
		}
		fmt.Fprintf(out, "  %s %s\n", icon, check.Message)

		if doctorAdmVerbose && len(check.Details) > 0 {
			for _, detail := range check.Details {
				fmt.Fprintf(out, "      %s\n", detail)
			}
		}
	}
	fmt.Fprintln(out)

	if report.Errors > 0 {
		fmt.Fprintf(out, "Summary: %d error(s), %d warning(s)\n", report.Errors, report.Warnings)
	} else if report.Warnings > 0 {
		fmt.Fprintf(out, "Summary: %d warning(s)\n", report.Warnings)
	} else {
		fmt.Fprintf(out, "Summary: All checks passed ✓\n")
	}
}
