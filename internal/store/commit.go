package store

import (
	"database/sql"
	"fmt"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/diff"
	"github.com/quillvc/quill/internal/domain"
	"github.com/quillvc/quill/internal/events"
)

// CommitParams contains parameters for appending a revision.
type CommitParams struct {
	BranchUUID  string
	Content     content.Content
	Message     string
	IfMatchETag int64 // 0 skips the etag check
}

// CommitResult contains the result of a commit.
type CommitResult struct {
	RevisionUUID    string
	RevisionID      string
	RevisionNumber  int
	SectionsChanged []string
	Summary         string
}

// Commit appends a revision to an active branch: head number + 1, diff
// summary against the previous head, and refreshed branch metadata, all in
// one transaction.
func (bs *BranchStore) Commit(actorUUID string, params CommitParams) (*CommitResult, error) {
	var result *CommitResult

	err := bs.store.withTx(func(tx *sql.Tx, ew *events.Writer) error {
		branch, err := getBranchTx(tx, params.BranchUUID)
		if err != nil {
			return err
		}
		if branch.Status != domain.BranchStatusActive {
			return &domain.BranchStateError{BranchUUID: branch.UUID, Status: branch.Status, Operation: "commit"}
		}
		if err := checkETag(branch.ETag, params.IfMatchETag); err != nil {
			return err
		}

		head, err := headRevisionTx(tx, branch.UUID)
		if err != nil {
			return err
		}
		headContent, err := content.Unmarshal(head.Content)
		if err != nil {
			return err
		}

		summary := diff.BuildResult(head.UUID, "", content.CanonicalText(headContent), content.CanonicalText(params.Content))
		sectionsChanged := sectionsChangedBetween(headContent, params.Content)

		rev, err := insertRevisionTx(tx, insertRevisionParams{
			BranchUUID:      branch.UUID,
			RevisionNumber:  head.RevisionNumber + 1,
			Content:         params.Content,
			SectionsChanged: sectionsChanged,
			DiffFromParent: domain.DiffFromParent{
				AddedLines:     summary.AddedLines,
				RemovedLines:   summary.RemovedLines,
				UnchangedLines: summary.UnchangedLines,
			},
			CommitMessage: nullable(params.Message),
			ActorUUID:     &actorUUID,
		})
		if err != nil {
			return err
		}

		fingerprint := content.Fingerprint(params.Content)
		if err := updateBranchMetadataTx(tx, branch.UUID, fingerprint, params.Content, actorUUID); err != nil {
			return err
		}

		if err := ew.LogRevisionCreated(tx, actorUUID, rev, branch.ContentFingerprint, fingerprint); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}

		result = &CommitResult{
			RevisionUUID:    rev.UUID,
			RevisionID:      rev.ID,
			RevisionNumber:  rev.RevisionNumber,
			SectionsChanged: sectionsChanged,
			Summary:         summary.Summary,
		}
		return nil
	})

	return result, err
}
