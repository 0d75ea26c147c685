package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/domain"
	"github.com/quillvc/quill/internal/events"
	"github.com/quillvc/quill/internal/paths"
)

// BranchStore handles branch and revision persistence operations.
type BranchStore struct {
	store *Store
}

// BranchCreateParams contains parameters for creating a branch.
type BranchCreateParams struct {
	ManuscriptUUID   string
	Name             string
	FromRevisionUUID string // optional: defaults to the head of main
}

// BranchCreateResult contains the result of branch creation.
type BranchCreateResult struct {
	UUID         string
	ID           string
	RevisionUUID string
}

// Create forks a new branch from a base version. The branch row and its
// first revision (a copy of the base content) are inserted in one
// transaction.
func (bs *BranchStore) Create(actorUUID string, params BranchCreateParams) (*BranchCreateResult, error) {
	if err := paths.ValidateBranchName(params.Name); err != nil {
		return nil, err
	}

	var result *BranchCreateResult

	err := bs.store.withTx(func(tx *sql.Tx, ew *events.Writer) error {
		// Name collision among non-abandoned branches.
		var existing string
		err := tx.QueryRow(`
			SELECT uuid FROM branches
			WHERE manuscript_uuid = ? AND name = ? AND status != 'abandoned'
		`, params.ManuscriptUUID, params.Name).Scan(&existing)
		if err == nil {
			return &domain.NameCollisionError{ManuscriptUUID: params.ManuscriptUUID, Name: params.Name}
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check branch name: %w", err)
		}

		// Resolve the base version.
		var baseRev *domain.Revision
		if params.FromRevisionUUID != "" {
			baseRev, err = getRevisionTx(tx, params.FromRevisionUUID)
		} else {
			var main *domain.Branch
			main, err = getBranchByNameTx(tx, params.ManuscriptUUID, domain.MainBranchName)
			if err != nil {
				return err
			}
			baseRev, err = headRevisionTx(tx, main.UUID)
		}
		if err != nil {
			return err
		}

		baseBranch, err := getBranchTx(tx, baseRev.BranchUUID)
		if err != nil {
			return err
		}
		if baseBranch.ManuscriptUUID != params.ManuscriptUUID {
			return &domain.NotFoundError{Resource: "revision", Key: baseRev.UUID}
		}

		branch, err := insertBranchTx(tx, params.ManuscriptUUID, params.Name, &baseBranch.Name, actorUUID)
		if err != nil {
			return err
		}

		baseContent, err := content.Unmarshal(baseRev.Content)
		if err != nil {
			return err
		}

		rev, err := insertRevisionTx(tx, insertRevisionParams{
			BranchUUID:     branch.UUID,
			RevisionNumber: 1,
			Content:        baseContent,
			DiffFromParent: domain.DiffFromParent{BaseVersionUUID: &baseRev.UUID},
			ActorUUID:      &actorUUID,
		})
		if err != nil {
			return err
		}

		fingerprint := content.Fingerprint(baseContent)
		if err := updateBranchMetadataTx(tx, branch.UUID, fingerprint, baseContent, actorUUID); err != nil {
			return err
		}
		branch.ContentFingerprint = fingerprint

		if err := ew.LogBranchCreated(tx, actorUUID, branch, baseRev.UUID); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}
		if err := ew.LogRevisionCreated(tx, actorUUID, rev, fingerprint, fingerprint); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}

		result = &BranchCreateResult{UUID: branch.UUID, ID: branch.ID, RevisionUUID: rev.UUID}
		return nil
	})

	return result, err
}

// Archive soft-deletes a branch: active -> abandoned. The manuscript's
// main branch cannot be archived.
func (bs *BranchStore) Archive(actorUUID, branchUUID string) error {
	return bs.store.withTx(func(tx *sql.Tx, ew *events.Writer) error {
		branch, err := getBranchTx(tx, branchUUID)
		if err != nil {
			return err
		}
		if branch.Name == domain.MainBranchName {
			return fmt.Errorf("cannot archive the main branch of manuscript %s", branch.ManuscriptUUID)
		}
		if branch.Status != domain.BranchStatusActive {
			return &domain.BranchStateError{BranchUUID: branchUUID, Status: branch.Status, Operation: "archive"}
		}

		if err := updateBranchStatusTx(tx, branchUUID, domain.BranchStatusAbandoned, actorUUID); err != nil {
			return err
		}

		if err := ew.LogBranchArchived(tx, actorUUID, branch); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}
		return nil
	})
}

// GetByUUID loads a branch by UUID.
func (bs *BranchStore) GetByUUID(uuid string) (*domain.Branch, error) {
	return scanBranch(bs.store.db.QueryRow(
		"SELECT "+branchColumns+" FROM branches WHERE uuid = ?", uuid), uuid)
}

// GetByName loads the non-abandoned branch with the given name.
func (bs *BranchStore) GetByName(manuscriptUUID, name string) (*domain.Branch, error) {
	return scanBranch(bs.store.db.QueryRow(
		"SELECT "+branchColumns+" FROM branches WHERE manuscript_uuid = ? AND name = ? AND status != 'abandoned'",
		manuscriptUUID, name), name)
}

// List returns a manuscript's branches, main first then by friendly ID.
// Abandoned branches are hidden unless includeAbandoned is set.
func (bs *BranchStore) List(manuscriptUUID string, includeAbandoned bool) ([]*domain.Branch, error) {
	query := "SELECT " + branchColumns + " FROM branches WHERE manuscript_uuid = ?"
	if !includeAbandoned {
		query += " AND status != 'abandoned'"
	}
	query += " ORDER BY name != 'main', id"

	rows, err := bs.store.db.Query(query, manuscriptUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []*domain.Branch
	for rows.Next() {
		branch, err := scanBranch(rows, manuscriptUUID)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return branches, rows.Err()
}

const branchColumns = `uuid, id, manuscript_uuid, name, parent_branch_name, status,
	content_fingerprint, section_word_counts, etag, created_at, updated_at,
	created_by_actor_uuid, updated_by_actor_uuid`

func scanBranch(row rowScanner, key string) (*domain.Branch, error) {
	var b domain.Branch
	err := row.Scan(&b.UUID, &b.ID, &b.ManuscriptUUID, &b.Name, &b.ParentBranchName, &b.Status,
		&b.ContentFingerprint, &b.SectionWordCounts, &b.ETag, &b.CreatedAt, &b.UpdatedAt,
		&b.CreatedByActorUUID, &b.UpdatedByActorUUID)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "branch", Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load branch: %w", err)
	}
	return &b, nil
}

func getBranchTx(tx *sql.Tx, uuid string) (*domain.Branch, error) {
	return scanBranch(tx.QueryRow(
		"SELECT "+branchColumns+" FROM branches WHERE uuid = ?", uuid), uuid)
}

func getBranchByNameTx(tx *sql.Tx, manuscriptUUID, name string) (*domain.Branch, error) {
	return scanBranch(tx.QueryRow(
		"SELECT "+branchColumns+" FROM branches WHERE manuscript_uuid = ? AND name = ? AND status != 'abandoned'",
		manuscriptUUID, name), name)
}

func insertBranchTx(tx *sql.Tx, manuscriptUUID, name string, parentBranchName *string, actorUUID string) (*domain.Branch, error) {
	branchUUID := uuid.New().String()
	_, err := tx.Exec(`
		INSERT INTO branches (uuid, id, manuscript_uuid, name, parent_branch_name, created_by_actor_uuid, updated_by_actor_uuid)
		VALUES (?, '', ?, ?, ?, ?, ?)
	`, branchUUID, manuscriptUUID, name, parentBranchName, actorUUID, actorUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}

	return getBranchTx(tx, branchUUID)
}

// updateBranchMetadataTx refreshes the branch's fingerprint and per-section
// word counts after a revision append.
func updateBranchMetadataTx(tx *sql.Tx, branchUUID, fingerprint string, c content.Content, actorUUID string) error {
	counts, err := marshalJSON(content.SectionWordCounts(c))
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE branches
		SET content_fingerprint = ?,
			section_word_counts = ?,
			etag = etag + 1,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now'),
			updated_by_actor_uuid = ?
		WHERE uuid = ?
	`, fingerprint, counts, actorUUID, branchUUID)
	if err != nil {
		return fmt.Errorf("failed to update branch metadata: %w", err)
	}
	return nil
}

func updateBranchStatusTx(tx *sql.Tx, branchUUID string, status domain.BranchStatus, actorUUID string) error {
	_, err := tx.Exec(`
		UPDATE branches
		SET status = ?,
			etag = etag + 1,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now'),
			updated_by_actor_uuid = ?
		WHERE uuid = ?
	`, status, actorUUID, branchUUID)
	if err != nil {
		return fmt.Errorf("failed to update branch status: %w", err)
	}
	return nil
}

// sectionsChangedBetween lists section ids whose text differs between two
// bodies, comparing per-section hashes. Plain bodies compare as "body".
func sectionsChangedBetween(old, new content.Content) []string {
	oldHashes := sectionHashes(old)
	newHashes := sectionHashes(new)

	changedSet := make(map[string]bool)
	for id, h := range oldHashes {
		if newHashes[id] != h {
			changedSet[id] = true
		}
	}
	for id, h := range newHashes {
		if oldHashes[id] != h {
			changedSet[id] = true
		}
	}

	changed := make([]string, 0, len(changedSet))
	for id := range changedSet {
		changed = append(changed, id)
	}
	sort.Strings(changed)
	return changed
}

func sectionHashes(c content.Content) map[string]string {
	hashes := make(map[string]string)
	if !c.IsSectioned() {
		sum := sha256.Sum256([]byte(c.Text))
		hashes["body"] = hex.EncodeToString(sum[:])[:16]
		return hashes
	}
	for _, s := range c.Sections {
		sum := sha256.Sum256([]byte(s.Text))
		hashes[s.ID] = hex.EncodeToString(sum[:])[:16]
	}
	return hashes
}
