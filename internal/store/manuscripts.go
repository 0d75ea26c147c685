package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/quillvc/quill/internal/content"
	"github.com/quillvc/quill/internal/domain"
	"github.com/quillvc/quill/internal/events"
)

// ManuscriptStore handles manuscript persistence operations.
type ManuscriptStore struct {
	store *Store
}

// ManuscriptCreateParams contains parameters for creating a manuscript.
type ManuscriptCreateParams struct {
	Slug    string
	Title   string
	Content content.Content
}

// ManuscriptCreateResult contains the result of manuscript creation.
type ManuscriptCreateResult struct {
	UUID           string
	ID             string
	MainBranchUUID string
	RevisionUUID   string
}

// Create creates a manuscript together with its main branch and the
// branch's first revision, atomically.
func (ms *ManuscriptStore) Create(actorUUID string, params ManuscriptCreateParams) (*ManuscriptCreateResult, error) {
	var result *ManuscriptCreateResult

	err := ms.store.withTx(func(tx *sql.Tx, ew *events.Writer) error {
		manuscriptUUID := uuid.New().String()
		_, err := tx.Exec(`
			INSERT INTO manuscripts (uuid, id, slug, title, created_by_actor_uuid, updated_by_actor_uuid)
			VALUES (?, '', ?, ?, ?, ?)
		`, manuscriptUUID, params.Slug, nullable(params.Title), actorUUID, actorUUID)
		if err != nil {
			return fmt.Errorf("failed to create manuscript: %w", err)
		}

		var m domain.Manuscript
		err = tx.QueryRow("SELECT uuid, id, etag FROM manuscripts WHERE uuid = ?", manuscriptUUID).
			Scan(&m.UUID, &m.ID, &m.ETag)
		if err != nil {
			return fmt.Errorf("failed to get manuscript UUID: %w", err)
		}
		m.Slug = params.Slug

		if err := ew.LogManuscriptCreated(tx, actorUUID, &m); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}

		// Main branch plus revision 1 holding the initial body.
		branch, err := insertBranchTx(tx, m.UUID, domain.MainBranchName, nil, actorUUID)
		if err != nil {
			return err
		}

		diffMeta := domain.DiffFromParent{Initial: true}
		rev, err := insertRevisionTx(tx, insertRevisionParams{
			BranchUUID:     branch.UUID,
			RevisionNumber: 1,
			Content:        params.Content,
			DiffFromParent: diffMeta,
			ActorUUID:      &actorUUID,
		})
		if err != nil {
			return err
		}

		fingerprint := content.Fingerprint(params.Content)
		if err := updateBranchMetadataTx(tx, branch.UUID, fingerprint, params.Content, actorUUID); err != nil {
			return err
		}
		branch.ContentFingerprint = fingerprint

		if err := ew.LogBranchCreated(tx, actorUUID, branch, ""); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}
		if err := ew.LogRevisionCreated(tx, actorUUID, rev, "", fingerprint); err != nil {
			return fmt.Errorf("failed to log event: %w", err)
		}

		result = &ManuscriptCreateResult{
			UUID:           m.UUID,
			ID:             m.ID,
			MainBranchUUID: branch.UUID,
			RevisionUUID:   rev.UUID,
		}
		return nil
	})

	return result, err
}

// GetByUUID loads a manuscript by UUID.
func (ms *ManuscriptStore) GetByUUID(uuid string) (*domain.Manuscript, error) {
	return scanManuscript(ms.store.db.QueryRow(`
		SELECT uuid, id, slug, title, etag, created_at, updated_at, created_by_actor_uuid, updated_by_actor_uuid
		FROM manuscripts WHERE uuid = ?
	`, uuid), uuid)
}

// GetBySlug loads a manuscript by slug.
func (ms *ManuscriptStore) GetBySlug(slug string) (*domain.Manuscript, error) {
	return scanManuscript(ms.store.db.QueryRow(`
		SELECT uuid, id, slug, title, etag, created_at, updated_at, created_by_actor_uuid, updated_by_actor_uuid
		FROM manuscripts WHERE slug = ?
	`, slug), slug)
}

// List returns all manuscripts ordered by friendly ID.
func (ms *ManuscriptStore) List() ([]*domain.Manuscript, error) {
	rows, err := ms.store.db.Query(`
		SELECT uuid, id, slug, title, etag, created_at, updated_at, created_by_actor_uuid, updated_by_actor_uuid
		FROM manuscripts ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list manuscripts: %w", err)
	}
	defer rows.Close()

	var manuscripts []*domain.Manuscript
	for rows.Next() {
		var m domain.Manuscript
		if err := rows.Scan(&m.UUID, &m.ID, &m.Slug, &m.Title, &m.ETag,
			&m.CreatedAt, &m.UpdatedAt, &m.CreatedByActorUUID, &m.UpdatedByActorUUID); err != nil {
			return nil, fmt.Errorf("failed to scan manuscript: %w", err)
		}
		manuscripts = append(manuscripts, &m)
	}
	return manuscripts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanManuscript(row rowScanner, key string) (*domain.Manuscript, error) {
	var m domain.Manuscript
	err := row.Scan(&m.UUID, &m.ID, &m.Slug, &m.Title, &m.ETag,
		&m.CreatedAt, &m.UpdatedAt, &m.CreatedByActorUUID, &m.UpdatedByActorUUID)
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "manuscript", Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load manuscript: %w", err)
	}
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func marshalJSON(v any) (*string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal: %w", err)
	}
	s := string(data)
	return &s, nil
}
