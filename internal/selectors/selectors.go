// Package selectors resolves user-facing references (friendly IDs, UUIDs,
// slugs, branch names, branch@N revision pins) to row UUIDs.
package selectors

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/quillvc/quill/internal/db"
	"github.com/quillvc/quill/internal/paths"
)

// Type represents the type of resource being selected
type Type string

const (
	TypeManuscript Type = "manuscript"
	TypeBranch     Type = "branch"
	TypeRevision   Type = "revision"
	TypeAuto       Type = "auto" // Auto-detect based on selector
)

// Selector represents a parsed typed selector
type Selector struct {
	Type  Type
	Token string // The part after the prefix (e.g., "M-00012" from "m:M-00012")
}

// Parse parses a selector string and returns the type and token
// Supports: m:<token>, b:<token>, r:<token>, or plain <token> (auto-detect)
func Parse(selector string) Selector {
	if strings.HasPrefix(selector, "m:") {
		return Selector{Type: TypeManuscript, Token: strings.TrimPrefix(selector, "m:")}
	}
	if strings.HasPrefix(selector, "b:") {
		return Selector{Type: TypeBranch, Token: strings.TrimPrefix(selector, "b:")}
	}
	if strings.HasPrefix(selector, "r:") {
		return Selector{Type: TypeRevision, Token: strings.TrimPrefix(selector, "r:")}
	}
	return Selector{Type: TypeAuto, Token: selector}
}

func isUUIDShaped(token string) bool {
	return len(token) == 36 && strings.Count(token, "-") == 4
}

// ResolveManuscript resolves a manuscript selector (friendly ID, UUID, or
// slug) to its UUID. Returns (uuid, friendlyID, error).
func ResolveManuscript(database *db.DB, selector string) (string, string, error) {
	parsed := Parse(selector)
	if parsed.Type != TypeManuscript && parsed.Type != TypeAuto {
		return "", "", fmt.Errorf("expected manuscript selector (m:), got %s selector", parsed.Type)
	}
	token := parsed.Token

	// Try as friendly ID
	if strings.HasPrefix(token, "M-") {
		var uuid string
		err := database.QueryRow("SELECT uuid FROM manuscripts WHERE id = ?", token).Scan(&uuid)
		if err == nil {
			return uuid, token, nil
		}
		if err != sql.ErrNoRows {
			return "", "", fmt.Errorf("database error: %w", err)
		}
		return "", "", fmt.Errorf("manuscript not found: %s", token)
	}

	// Try as UUID
	if isUUIDShaped(token) {
		var uuid, friendlyID string
		err := database.QueryRow("SELECT uuid, id FROM manuscripts WHERE uuid = ?", token).Scan(&uuid, &friendlyID)
		if err == nil {
			return uuid, friendlyID, nil
		}
		if err != sql.ErrNoRows {
			return "", "", fmt.Errorf("database error: %w", err)
		}
		return "", "", fmt.Errorf("manuscript not found: %s", token)
	}

	// Try as slug
	slug, err := paths.NormalizeSlug(token)
	if err != nil {
		return "", "", fmt.Errorf("invalid slug %q: %w", token, err)
	}
	var uuid, friendlyID string
	err = database.QueryRow("SELECT uuid, id FROM manuscripts WHERE slug = ?", slug).Scan(&uuid, &friendlyID)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("manuscript not found: %s", token)
	}
	if err != nil {
		return "", "", fmt.Errorf("database error: %w", err)
	}
	return uuid, friendlyID, nil
}

// ResolveBranch resolves a branch selector (friendly ID, UUID, or name)
// within a manuscript to its UUID. Names only match non-abandoned branches.
// Returns (uuid, friendlyID, error).
func ResolveBranch(database *db.DB, manuscriptUUID, selector string) (string, string, error) {
	parsed := Parse(selector)
	if parsed.Type != TypeBranch && parsed.Type != TypeAuto {
		return "", "", fmt.Errorf("expected branch selector (b:), got %s selector", parsed.Type)
	}
	token := parsed.Token

	// Try as friendly ID
	if strings.HasPrefix(token, "B-") {
		var uuid string
		err := database.QueryRow(
			"SELECT uuid FROM branches WHERE id = ? AND manuscript_uuid = ?",
			token, manuscriptUUID).Scan(&uuid)
		if err == nil {
			return uuid, token, nil
		}
		if err != sql.ErrNoRows {
			return "", "", fmt.Errorf("database error: %w", err)
		}
		return "", "", fmt.Errorf("branch not found: %s", token)
	}

	// Try as UUID
	if isUUIDShaped(token) {
		var uuid, friendlyID string
		err := database.QueryRow(
			"SELECT uuid, id FROM branches WHERE uuid = ? AND manuscript_uuid = ?",
			token, manuscriptUUID).Scan(&uuid, &friendlyID)
		if err == nil {
			return uuid, friendlyID, nil
		}
		if err != sql.ErrNoRows {
			return "", "", fmt.Errorf("database error: %w", err)
		}
		return "", "", fmt.Errorf("branch not found: %s", token)
	}

	// Try as name (at most one non-abandoned branch per name)
	var uuid, friendlyID string
	err := database.QueryRow(`
		SELECT uuid, id FROM branches
		WHERE manuscript_uuid = ? AND name = ? AND status != 'abandoned'
	`, manuscriptUUID, token).Scan(&uuid, &friendlyID)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("branch not found: %s", token)
	}
	if err != nil {
		return "", "", fmt.Errorf("database error: %w", err)
	}
	return uuid, friendlyID, nil
}

// ResolveRevision resolves a revision selector within a manuscript:
// friendly ID (R-00042), UUID, branch@N for a pinned number, or a bare
// branch name for that branch's head. Returns (uuid, friendlyID, error).
func ResolveRevision(database *db.DB, manuscriptUUID, selector string) (string, string, error) {
	parsed := Parse(selector)
	if parsed.Type != TypeRevision && parsed.Type != TypeAuto {
		return "", "", fmt.Errorf("expected revision selector (r:), got %s selector", parsed.Type)
	}
	token := parsed.Token

	// Try as friendly ID
	if strings.HasPrefix(token, "R-") {
		var uuid string
		err := database.QueryRow(`
			SELECT r.uuid FROM revisions r
			JOIN branches b ON b.uuid = r.branch_uuid
			WHERE r.id = ? AND b.manuscript_uuid = ?
		`, token, manuscriptUUID).Scan(&uuid)
		if err == nil {
			return uuid, token, nil
		}
		if err != sql.ErrNoRows {
			return "", "", fmt.Errorf("database error: %w", err)
		}
		return "", "", fmt.Errorf("revision not found: %s", token)
	}

	// Try as UUID
	if isUUIDShaped(token) {
		var uuid, friendlyID string
		err := database.QueryRow(`
			SELECT r.uuid, r.id FROM revisions r
			JOIN branches b ON b.uuid = r.branch_uuid
			WHERE r.uuid = ? AND b.manuscript_uuid = ?
		`, token, manuscriptUUID).Scan(&uuid, &friendlyID)
		if err == nil {
			return uuid, friendlyID, nil
		}
		if err != sql.ErrNoRows {
			return "", "", fmt.Errorf("database error: %w", err)
		}
		return "", "", fmt.Errorf("revision not found: %s", token)
	}

	// branch@N pins a revision number; a bare branch name means its head.
	branchToken := token
	number := 0
	if at := strings.LastIndex(token, "@"); at >= 0 {
		branchToken = token[:at]
		n, err := strconv.Atoi(token[at+1:])
		if err != nil || n < 1 {
			return "", "", fmt.Errorf("invalid revision selector: %s (expected branch@N with N >= 1)", token)
		}
		number = n
	}

	branchUUID, _, err := ResolveBranch(database, manuscriptUUID, branchToken)
	if err != nil {
		return "", "", err
	}

	var uuid, friendlyID string
	if number > 0 {
		err = database.QueryRow(
			"SELECT uuid, id FROM revisions WHERE branch_uuid = ? AND revision_number = ?",
			branchUUID, number).Scan(&uuid, &friendlyID)
	} else {
		err = database.QueryRow(
			"SELECT uuid, id FROM revisions WHERE branch_uuid = ? ORDER BY revision_number DESC LIMIT 1",
			branchUUID).Scan(&uuid, &friendlyID)
	}
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("revision not found: %s", token)
	}
	if err != nil {
		return "", "", fmt.Errorf("database error: %w", err)
	}
	return uuid, friendlyID, nil
}
