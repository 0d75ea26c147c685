package store

import (
	"fmt"

	"github.com/quillvc/quill/internal/history"
)

// History loads every revision of a manuscript and reconstructs the
// revision forest. branchName, when non-empty, restricts the walk to that
// branch's revisions (the fork link to another branch's base then resolves
// to a root).
func (bs *BranchStore) History(manuscriptUUID, branchName string) ([]*history.Node, error) {
	query := `
		SELECT r.` + revisionColumnsQualified + `, b.name
		FROM revisions r
		JOIN branches b ON b.uuid = r.branch_uuid
		WHERE b.manuscript_uuid = ?`
	args := []any{manuscriptUUID}
	if branchName != "" {
		query += " AND b.name = ? AND b.status != 'abandoned'"
		args = append(args, branchName)
	}
	query += " ORDER BY r.created_at, r.revision_number"

	rows, err := bs.store.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		rev := &e.Revision
		if err := rows.Scan(&rev.UUID, &rev.ID, &rev.BranchUUID, &rev.RevisionNumber, &rev.Content,
			&rev.SectionsChanged, &rev.DiffFromParent, &rev.WordCount, &rev.CommitMessage,
			&rev.CreatedByActorUUID, &rev.CreatedAt, &e.BranchName); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history.BuildForest(entries)
}

// revisionColumnsQualified is revisionColumns with the r. prefix for the
// history join.
const revisionColumnsQualified = `uuid, r.id, r.branch_uuid, r.revision_number, r.content, r.sections_changed,
	r.diff_from_parent, r.word_count, r.commit_message, r.created_by_actor_uuid, r.created_at`
