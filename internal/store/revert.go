package store

import (
	"database/sql"
	"fmt"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/domain"
	"github.com/quillvc/quill/internal/events"
)

// RevertResult contains the result of a revert.
type RevertResult struct {
	RevisionUUID   string
	RevisionID     string
	BranchUUID     string
	BranchName     string
	RevisionNumber int
}

// Revert restores an earlier version by appending a new revision carrying
// that version's content. History is never rewritten. The new revision
// lands on the originating branch if it is still active, otherwise on the
// manuscript's main branch.
func (bs *BranchStore) Revert(actorUUID, manuscriptUUID, revisionUUID string) (*RevertResult, error) {
	var result *RevertResult

	err := bs.store.withTx(func(tx *sql.Tx, ew *events.Writer) error {
		rev, err := getRevisionTx(tx, revisionUUID)
		if err != nil {
			return err
		}
		origin, err := getBranchTx(tx, rev.BranchUUID)
		if err != nil {
			return err
		}
		if origin.ManuscriptUUID != manuscriptUUID {
			return &domain.NotFoundError{Resource: "revision", Key: revisionUUID}
		}

		branch := origin
		if branch.Status != domain.BranchStatusActive {
			branch, err = getBranchByNameTx(tx, manuscriptUUID, domain.MainBranchName)
			if err != nil {
				return err
			}
			if branch.Status != domain.BranchStatusActive {
				return &domain.BranchStateError{BranchUUID: branch.UUID, Status: branch.Status, Operation: "revert"}
			}
		}

		head, err := headRevisionTx(tx, branch.UUID)
		if err != nil {
			return err
		}
		headContent, err := content.Unmarshal(head.Content)
		if err != nil {
			return err
		}
		restored, err := content.Unmarshal(rev.Content)
		if err != nil {
			return err
		}

		newRev, err := insertRevisionTx(tx, insertRevisionParams{
			BranchUUID:      branch.UUID,
			RevisionNumber:  head.RevisionNumber + 1,
			Content:         restored,
			SectionsChanged: sectionsChangedBetween(headContent, restored),
			DiffFromParent:  domain.DiffFromParent{RevertedTo: &revisionUUID},
			ActorUUID:       &actorUUID,
		})
		if err != nil {
			return err
		}

		fingerprint := content.Fingerprint(restored)
		if err := updateBranchMetadataTx(tx, branch.UUID, fingerprint, restored, actorUUID); err != nil {
			return err
		}

		if err := ew.LogRevisionReverted(tx, actorUUID, newRev, revisionUUID, branch.ContentFingerprint, fingerprint); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}

		result = &RevertResult{
			RevisionUUID:   newRev.UUID,
			RevisionID:     newRev.ID,
			BranchUUID:     branch.UUID,
			BranchName:     branch.Name,
			RevisionNumber: newRev.RevisionNumber,
		}
		return nil
	})

	return result, err
}
