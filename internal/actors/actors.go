// Package actors resolves and manages the identities recorded on every
// mutation: humans, agents, and the system itself.
package actors

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/quillvc/quill/internal/domain"
)

// Resolver resolves actor identifiers to UUIDs and manages actor records.
type Resolver struct {
	db *sql.DB
}

// NewResolver creates a new actor resolver.
func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve resolves an actor identifier (friendly ID, UUID, or slug) to
// its UUID.
func (r *Resolver) Resolve(identifier string) (string, error) {
	if identifier == "" {
		return "", fmt.Errorf("actor identifier is empty")
	}

	// Try as friendly ID
	if strings.HasPrefix(identifier, "A-") {
		var uuid string
		err := r.db.QueryRow("SELECT uuid FROM actors WHERE id = ?", identifier).Scan(&uuid)
		if err == nil {
			return uuid, nil
		}
		if err != sql.ErrNoRows {
			return "", fmt.Errorf("database error: %w", err)
		}
		return "", fmt.Errorf("actor not found: %s", identifier)
	}

	// Try as UUID
	if len(identifier) == 36 && strings.Count(identifier, "-") == 4 {
		var uuid string
		err := r.db.QueryRow("SELECT uuid FROM actors WHERE uuid = ?", identifier).Scan(&uuid)
		if err == nil {
			return uuid, nil
		}
		if err != sql.ErrNoRows {
			return "", fmt.Errorf("database error: %w", err)
		}
		return "", fmt.Errorf("actor not found: %s", identifier)
	}

	// Try as slug
	var uuid string
	err := r.db.QueryRow("SELECT uuid FROM actors WHERE slug = ?", identifier).Scan(&uuid)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("actor not found: %s", identifier)
	}
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	return uuid, nil
}

// Create creates a new actor with the given slug, display name, and role.
func (r *Resolver) Create(slug, displayName, role string) (*domain.Actor, error) {
	if err := domain.ValidateActorRole(role); err != nil {
		return nil, err
	}

	res, err := r.db.Exec(`
		INSERT INTO actors (id, slug, display_name, role)
		VALUES ('', ?, ?, ?)
	`, slug, nullableString(displayName), role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("actor already exists: %s", slug)
		}
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return r.scanActor(r.db.QueryRow(
		"SELECT uuid, id, slug, display_name, role, created_at, updated_at FROM actors WHERE rowid = ?", rowID))
}

// GetByUUID loads an actor by UUID.
func (r *Resolver) GetByUUID(uuid string) (*domain.Actor, error) {
	return r.scanActor(r.db.QueryRow(
		"SELECT uuid, id, slug, display_name, role, created_at, updated_at FROM actors WHERE uuid = ?", uuid))
}

// List returns all actors ordered by friendly ID.
func (r *Resolver) List() ([]*domain.Actor, error) {
	rows, err := r.db.Query(
		"SELECT uuid, id, slug, display_name, role, created_at, updated_at FROM actors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	var actors []*domain.Actor
	for rows.Next() {
		var a domain.Actor
		if err := rows.Scan(&a.UUID, &a.ID, &a.Slug, &a.DisplayName, &a.Role, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, &a)
	}
	return actors, rows.Err()
}

func (r *Resolver) scanActor(row *sql.Row) (*domain.Actor, error) {
	var a domain.Actor
	err := row.Scan(&a.UUID, &a.ID, &a.Slug, &a.DisplayName, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("actor not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	return &a, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
