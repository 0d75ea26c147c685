// Package events writes the append-only audit log. Every branch and
// revision mutation lands here with the actor, the action, and the
// before/after content fingerprints the external ledger chains over.
package events

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/quillvc/quill/internal/domain"
)

// Writer handles writing events to the event log
type Writer struct {
	db *sql.DB
}

// NewWriter creates a new event writer
func NewWriter(db *sql.DB) *Writer {
	return &Writer{db: db}
}

// LogEvent writes an event to the event log
func (w *Writer) LogEvent(tx *sql.Tx, event *domain.Event) error {
	query := `
		INSERT INTO event_log (actor_uuid, resource_type, resource_uuid, event_type, before_hash, after_hash, etag, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	executor := w.getExecutor(tx)
	_, err := executor.Exec(query,
		event.ActorUUID, event.ResourceType, event.ResourceUUID, event.EventType,
		event.BeforeHash, event.AfterHash, event.ETag, event.Payload)
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogBranchCreated logs a branch creation event.
func (w *Writer) LogBranchCreated(tx *sql.Tx, actorUUID string, branch *domain.Branch, baseVersionUUID string) error {
	payload, err := marshalPayload(map[string]interface{}{
		"manuscript_uuid": branch.ManuscriptUUID,
		"name":            branch.Name,
		"base_version_id": baseVersionUUID,
	})
	if err != nil {
		return err
	}

	return w.LogEvent(tx, &domain.Event{
		ActorUUID:    &actorUUID,
		ResourceType: "branch",
		ResourceUUID: &branch.UUID,
		EventType:    "branch.created",
		AfterHash:    &branch.ContentFingerprint,
		ETag:         &branch.ETag,
		Payload:      payload,
	})
}

// LogBranchMerged logs a successful merge of a source branch into a target.
func (w *Writer) LogBranchMerged(tx *sql.Tx, actorUUID string, sourceUUID, targetUUID, newRevisionUUID, strategy string, beforeHash, afterHash string, conflictCount int) error {
	payload, err := marshalPayload(map[string]interface{}{
		"target_branch_uuid": targetUUID,
		"new_revision_uuid":  newRevisionUUID,
		"strategy":           strategy,
		"conflicts_resolved": conflictCount,
	})
	if err != nil {
		return err
	}

	return w.LogEvent(tx, &domain.Event{
		ActorUUID:    &actorUUID,
		ResourceType: "branch",
		ResourceUUID: &sourceUUID,
		EventType:    "branch.merged",
		BeforeHash:   &beforeHash,
		AfterHash:    &afterHash,
		Payload:      payload,
	})
}

// LogBranchArchived logs a branch archive (soft delete).
func (w *Writer) LogBranchArchived(tx *sql.Tx, actorUUID string, branch *domain.Branch) error {
	payload, err := marshalPayload(map[string]interface{}{
		"manuscript_uuid": branch.ManuscriptUUID,
		"name":            branch.Name,
	})
	if err != nil {
		return err
	}

	return w.LogEvent(tx, &domain.Event{
		ActorUUID:    &actorUUID,
		ResourceType: "branch",
		ResourceUUID: &branch.UUID,
		EventType:    "branch.archived",
		BeforeHash:   &branch.ContentFingerprint,
		Payload:      payload,
	})
}

// LogRevisionCreated logs a revision append, including the fingerprint
// transition from the branch's previous head.
func (w *Writer) LogRevisionCreated(tx *sql.Tx, actorUUID string, rev *domain.Revision, beforeHash, afterHash string) error {
	payload, err := marshalPayload(map[string]interface{}{
		"branch_uuid":     rev.BranchUUID,
		"revision_number": rev.RevisionNumber,
		"word_count":      rev.WordCount,
	})
	if err != nil {
		return err
	}

	event := &domain.Event{
		ActorUUID:    &actorUUID,
		ResourceType: "revision",
		ResourceUUID: &rev.UUID,
		EventType:    "revision.created",
		AfterHash:    &afterHash,
		Payload:      payload,
	}
	if beforeHash != "" {
		event.BeforeHash = &beforeHash
	}
	return w.LogEvent(tx, event)
}

// LogRevisionReverted logs a revert, naming the restored version.
func (w *Writer) LogRevisionReverted(tx *sql.Tx, actorUUID string, rev *domain.Revision, revertedToUUID, beforeHash, afterHash string) error {
	payload, err := marshalPayload(map[string]interface{}{
		"branch_uuid":     rev.BranchUUID,
		"revision_number": rev.RevisionNumber,
		"reverted_to":     revertedToUUID,
	})
	if err != nil {
		return err
	}

	return w.LogEvent(tx, &domain.Event{
		ActorUUID:    &actorUUID,
		ResourceType: "revision",
		ResourceUUID: &rev.UUID,
		EventType:    "revision.reverted",
		BeforeHash:   &beforeHash,
		AfterHash:    &afterHash,
		Payload:      payload,
	})
}

// LogManuscriptCreated logs a manuscript creation event.
func (w *Writer) LogManuscriptCreated(tx *sql.Tx, actorUUID string, m *domain.Manuscript) error {
	payload, err := marshalPayload(map[string]interface{}{
		"slug": m.Slug,
	})
	if err != nil {
		return err
	}

	return w.LogEvent(tx, &domain.Event{
		ActorUUID:    &actorUUID,
		ResourceType: "manuscript",
		ResourceUUID: &m.UUID,
		EventType:    "manuscript.created",
		ETag:         &m.ETag,
		Payload:      payload,
	})
}

func marshalPayload(fields map[string]interface{}) (*string, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	s := string(data)
	return &s, nil
}

// getExecutor returns the appropriate executor (tx or db)
func (w *Writer) getExecutor(tx *sql.Tx) interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
} {
	if tx != nil {
		return tx
	}
	return w.db
}
