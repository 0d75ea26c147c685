package store

import (
	"database/sql"
	"fmt"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/diff"
	"github.com/quillvc/quill/internal/domain"
	"github.com/quillvc/quill/internal/events"
	"github.com/quillvc/quill/internal/merge"
)

// MergeParams contains parameters for merging a source branch into a
// target. TargetName defaults to main.
type MergeParams struct {
	SourceBranchUUID string
	TargetName       string
	Strategy         merge.Strategy
	Message          string
}

// MergeResult is the outcome of a merge attempt. Success false means the
// manual strategy hit conflicts: nothing was written, Conflicts lists the
// blocks to resolve, and MergedContent is the best-effort payload.
type MergeResult struct {
	Success          bool
	NewRevisionUUID  string
	NewRevisionID    string
	TargetBranchUUID string
	MergedContent    content.Content
	Conflicts        []merge.ConflictBlock
	Summary          string
}

// Merge performs a three-way merge of the source branch's head into the
// target branch. The base is the source's fork point; the target is "ours"
// and the source is "theirs". On success a new revision lands on the target
// and the source moves to merged, in one transaction.
func (bs *BranchStore) Merge(actorUUID string, params MergeParams) (*MergeResult, error) {
	if err := merge.ValidateStrategy(string(params.Strategy)); err != nil {
		return nil, err
	}
	targetName := params.TargetName
	if targetName == "" {
		targetName = domain.MainBranchName
	}

	var result *MergeResult

	err := bs.store.withTx(func(tx *sql.Tx, ew *events.Writer) error {
		source, err := getBranchTx(tx, params.SourceBranchUUID)
		if err != nil {
			return err
		}
		if source.Status != domain.BranchStatusActive {
			return &domain.BranchStateError{BranchUUID: source.UUID, Status: source.Status, Operation: "merge"}
		}

		target, err := getBranchByNameTx(tx, source.ManuscriptUUID, targetName)
		if err != nil {
			return err
		}
		if target.UUID == source.UUID {
			return fmt.Errorf("cannot merge branch %s into itself", source.Name)
		}
		if target.Status != domain.BranchStatusActive {
			return &domain.BranchStateError{BranchUUID: target.UUID, Status: target.Status, Operation: "merge"}
		}

		baseContent, baseUUID, err := forkBaseTx(tx, source)
		if err != nil {
			return err
		}

		sourceHead, err := headRevisionTx(tx, source.UUID)
		if err != nil {
			return err
		}
		targetHead, err := headRevisionTx(tx, target.UUID)
		if err != nil {
			return err
		}

		oursContent, err := content.Unmarshal(targetHead.Content)
		if err != nil {
			return err
		}
		theirsContent, err := content.Unmarshal(sourceHead.Content)
		if err != nil {
			return err
		}

		docRes := merge.Documents(baseContent, oursContent, theirsContent, params.Strategy)

		if params.Strategy == merge.StrategyManual && len(docRes.Conflicts) > 0 {
			result = &MergeResult{
				Success:          false,
				TargetBranchUUID: target.UUID,
				MergedContent:    docRes.Merged,
				Conflicts:        docRes.Conflicts,
				Summary:          fmt.Sprintf("%d conflict(s), nothing merged", len(docRes.Conflicts)),
			}
			return nil
		}

		summary := diff.BuildResult(targetHead.UUID, "",
			content.CanonicalText(oursContent), content.CanonicalText(docRes.Merged))
		strategy := string(params.Strategy)

		rev, err := insertRevisionTx(tx, insertRevisionParams{
			BranchUUID:      target.UUID,
			RevisionNumber:  targetHead.RevisionNumber + 1,
			Content:         docRes.Merged,
			SectionsChanged: sectionsChangedBetween(oursContent, docRes.Merged),
			DiffFromParent: domain.DiffFromParent{
				BaseVersionUUID:  &baseUUID,
				MergedFromBranch: &source.UUID,
				Strategy:         &strategy,
				AddedLines:       summary.AddedLines,
				RemovedLines:     summary.RemovedLines,
				UnchangedLines:   summary.UnchangedLines,
			},
			CommitMessage: nullable(params.Message),
			ActorUUID:     &actorUUID,
		})
		if err != nil {
			return err
		}

		fingerprint := content.Fingerprint(docRes.Merged)
		if err := updateBranchMetadataTx(tx, target.UUID, fingerprint, docRes.Merged, actorUUID); err != nil {
			return err
		}
		if err := updateBranchStatusTx(tx, source.UUID, domain.BranchStatusMerged, actorUUID); err != nil {
			return err
		}

		if err := ew.LogBranchMerged(tx, actorUUID, source.UUID, target.UUID, rev.UUID, strategy,
			target.ContentFingerprint, fingerprint, len(docRes.Conflicts)); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}
		if err := ew.LogRevisionCreated(tx, actorUUID, rev, target.ContentFingerprint, fingerprint); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}

		result = &MergeResult{
			Success:          true,
			NewRevisionUUID:  rev.UUID,
			NewRevisionID:    rev.ID,
			TargetBranchUUID: target.UUID,
			MergedContent:    docRes.Merged,
			Conflicts:        docRes.Conflicts,
			Summary:          summary.Summary,
		}
		return nil
	})

	return result, err
}

// forkBaseTx resolves the source branch's fork point: the base version
// recorded on its first revision. The main branch has no fork point and
// cannot be a merge source.
func forkBaseTx(tx *sql.Tx, source *domain.Branch) (content.Content, string, error) {
	first, err := scanRevision(tx.QueryRow(
		"SELECT "+revisionColumns+" FROM revisions WHERE branch_uuid = ? AND revision_number = 1",
		source.UUID), source.UUID)
	if err != nil {
		return content.Content{}, "", err
	}

	meta, err := first.GetDiffFromParent()
	if err != nil {
		return content.Content{}, "", fmt.Errorf("failed to parse revision metadata: %w", err)
	}
	if meta.BaseVersionUUID == nil {
		return content.Content{}, "", fmt.Errorf("branch %s has no fork point and cannot be merged", source.Name)
	}

	baseRev, err := getRevisionTx(tx, *meta.BaseVersionUUID)
	if err != nil {
		return content.Content{}, "", err
	}
	baseContent, err := content.Unmarshal(baseRev.Content)
	if err != nil {
		return content.Content{}, "", err
	}
	return baseContent, baseRev.UUID, nil
}
