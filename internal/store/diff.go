package store

import (
	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/diff"
)

// DiffVersions diffs two stored revisions over their canonical texts.
func (bs *BranchStore) DiffVersions(fromUUID, toUUID string) (*diff.Result, error) {
	from, err := bs.GetRevision(fromUUID)
	if err != nil {
		return nil, err
	}
	to, err := bs.GetRevision(toUUID)
	if err != nil {
		return nil, err
	}

	fromContent, err := content.Unmarshal(from.Content)
	if err != nil {
		return nil, err
	}
	toContent, err := content.Unmarshal(to.Content)
	if err != nil {
		return nil, err
	}

	return diff.BuildResult(from.ID, to.ID,
		content.CanonicalText(fromContent), content.CanonicalText(toContent)), nil
}

// UnifiedDiff renders the unified diff between two stored revisions.
func (bs *BranchStore) UnifiedDiff(fromUUID, toUUID string, context int) (string, error) {
	from, err := bs.GetRevision(fromUUID)
	if err != nil {
		return "", err
	}
	to, err := bs.GetRevision(toUUID)
	if err != nil {
		return "", err
	}

	fromContent, err := content.Unmarshal(from.Content)
	if err != nil {
		return "", err
	}
	toContent, err := content.Unmarshal(to.Content)
	if err != nil {
		return "", err
	}

	return diff.Unified(from.ID, to.ID,
		content.CanonicalText(fromContent), content.CanonicalText(toContent), context)
}
