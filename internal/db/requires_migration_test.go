package db_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/quillvc/quill/internal/db"
)

func TestRequiresMigrationErrorFreshDB(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("could not open db: %v", err)
	}
	defer database.Close()

	migErr := database.RequiresMigrationError()
	if migErr == nil {
		t.Fatal("expected migration error for fresh db, got nil")
	}

	errStr := migErr.Error()
	t.Logf("Fresh DB Error: %s", errStr)

	if !strings.Contains(errStr, "version: none") {
		t.Errorf("fresh db error should contain 'version: none', got: %s", errStr)
	}
	if !strings.Contains(errStr, dbPath) {
		t.Errorf("error should contain db path '%s', got: %s", dbPath, errStr)
	}
	if !strings.Contains(errStr, "quilladm migrate") {
		t.Errorf("error should suggest 'quilladm migrate', got: %s", errStr)
	}
}

func TestRequiresMigrationErrorFullyMigrated(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("could not open db: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}

	migErr := database.RequiresMigrationError()
	if migErr != nil {
		t.Errorf("expected nil for fully migrated db, got: %v", migErr)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("could not open db: %v", err)
	}
	defer database.Close()

	applied, err := database.MigrateWithInfo()
	if err != nil {
		t.Fatalf("first migrate failed: %v", err)
	}
	if len(applied) == 0 {
		t.Fatal("expected at least one migration applied on fresh db")
	}

	applied, err = database.MigrateWithInfo()
	if err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("second migrate applied %d migrations, want 0", len(applied))
	}
}

func TestRevisionsAreAppendOnly(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("could not open db: %v", err)
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	mustExec := func(query string, args ...any) {
		t.Helper()
		if _, err := database.Exec(query, args...); err != nil {
			t.Fatalf("exec failed: %v", err)
		}
	}
	mustExec(`INSERT INTO actors (uuid, slug) VALUES ('a1', 'writer')`)
	mustExec(`INSERT INTO manuscripts (uuid, slug, created_by_actor_uuid, updated_by_actor_uuid) VALUES ('m1', 'novel', 'a1', 'a1')`)
	mustExec(`INSERT INTO branches (uuid, manuscript_uuid, name, created_by_actor_uuid, updated_by_actor_uuid) VALUES ('b1', 'm1', 'main', 'a1', 'a1')`)
	mustExec(`INSERT INTO revisions (uuid, branch_uuid, revision_number, content) VALUES ('r1', 'b1', 1, '"text"')`)

	// The friendly-ID trigger has run; any further update must abort.
	_, err = database.Exec(`UPDATE revisions SET content = '"rewritten"' WHERE uuid = 'r1'`)
	if err == nil {
		t.Fatal("expected update on revisions to be rejected")
	}
	if !strings.Contains(err.Error(), "append-only") {
		t.Errorf("unexpected error: %v", err)
	}
}
