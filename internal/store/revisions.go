package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/domain"
)

const revisionColumns = `uuid, id, branch_uuid, revision_number, content, sections_changed,
	diff_from_parent, word_count, commit_message, created_by_actor_uuid, created_at`

// GetRevision loads a revision by UUID.
func (bs *BranchStore) GetRevision(uuid string) (*domain.Revision, error) {
	return scanRevision(bs.store.db.QueryRow(
		"SELECT "+revisionColumns+" FROM revisions WHERE uuid = ?", uuid), uuid)
}

// HeadRevision loads the latest revision of a branch. A branch with zero
// revisions is corrupted state, not a user error.
func (bs *BranchStore) HeadRevision(branchUUID string) (*domain.Revision, error) {
	return headRevisionTx(bs.store.db, branchUUID)
}

// ListRevisions returns a branch's revisions ordered by revision number.
func (bs *BranchStore) ListRevisions(branchUUID string) ([]*domain.Revision, error) {
	rows, err := bs.store.db.Query(
		"SELECT "+revisionColumns+" FROM revisions WHERE branch_uuid = ? ORDER BY revision_number", branchUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*domain.Revision
	for rows.Next() {
		rev, err := scanRevision(rows, branchUUID)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Revision numbers are 1-based, strictly increasing, no gaps.
	for i, rev := range revisions {
		if rev.RevisionNumber != i+1 {
			return nil, &domain.InvariantError{
				Context: "branch " + branchUUID,
				Detail:  fmt.Sprintf("revision %s has number %d, expected %d", rev.UUID, rev.RevisionNumber, i+1),
			}
		}
	}

	return revisions, nil
}

// RevisionContent loads and decodes a revision's body.
func (bs *BranchStore) RevisionContent(uuid string) (content.Content, error) {
	rev, err := bs.GetRevision(uuid)
	if err != nil {
		return content.Content{}, err
	}
	return content.Unmarshal(rev.Content)
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func headRevisionTx(q queryRower, branchUUID string) (*domain.Revision, error) {
	rev, err := scanRevision(q.QueryRow(
		"SELECT "+revisionColumns+" FROM revisions WHERE branch_uuid = ? ORDER BY revision_number DESC LIMIT 1",
		branchUUID), branchUUID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &domain.InvariantError{
				Context: "branch " + branchUUID,
				Detail:  "branch has no revisions",
			}
		}
		return nil, err
	}
	return rev, nil
}

func getRevisionTx(tx *sql.Tx, uuid string) (*domain.Revision, error) {
	return scanRevision(tx.QueryRow(
		"SELECT "+revisionColumns+" FROM revisions WHERE uuid = ?", uuid), uuid)
}

type insertRevisionParams struct {
	BranchUUID      string
	RevisionNumber  int
	Content         content.Content
	SectionsChanged []string
	DiffFromParent  domain.DiffFromParent
	CommitMessage   *string
	ActorUUID       *string
}

// insertRevisionTx appends one revision row and returns the stored record.
// The UNIQUE (branch_uuid, revision_number) constraint is the optimistic
// backstop against concurrent appends observing the same head.
func insertRevisionTx(tx *sql.Tx, params insertRevisionParams) (*domain.Revision, error) {
	body, err := content.Marshal(params.Content)
	if err != nil {
		return nil, err
	}

	var sectionsChanged *string
	if params.SectionsChanged != nil {
		sectionsChanged, err = marshalJSON(params.SectionsChanged)
		if err != nil {
			return nil, err
		}
	}

	diffMeta, err := marshalJSON(params.DiffFromParent)
	if err != nil {
		return nil, err
	}

	revisionUUID := uuid.New().String()
	_, err = tx.Exec(`
		INSERT INTO revisions (uuid, id, branch_uuid, revision_number, content, sections_changed,
			diff_from_parent, word_count, commit_message, created_by_actor_uuid)
		VALUES (?, '', ?, ?, ?, ?, ?, ?, ?, ?)
	`, revisionUUID, params.BranchUUID, params.RevisionNumber, body, sectionsChanged, diffMeta,
		content.WordCount(params.Content), params.CommitMessage, params.ActorUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert revision: %w", err)
	}

	return getRevisionTx(tx, revisionUUID)
}

func scanRevision(row rowScanner, key string) (*domain.Revision, error) {
	var rev domain.Revision
	err := row.Scan(&rev.UUID, &rev.ID, &rev.BranchUUID, &rev.RevisionNumber, &rev.Content,
		&rev.SectionsChanged, &rev.DiffFromParent, &rev.WordCount, &rev.CommitMessage,
		&rev.CreatedByActorUUID, &rev.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "revision", Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load revision: %w", err)
	}
	return &rev, nil
}
