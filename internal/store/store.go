// Package store is the persistence and orchestration layer: branch
// lifecycle, revision appends, merges, reverts, and history assembly. It
// is the only package that touches the database; diff and merge stay pure.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/quillvc/quill/internal/db"
	"github.com/quillvc/quill/internal/domain"
	"github.com/quillvc/quill/internal/events"
)

// Store is the root store that provides access to domain-specific stores.
type Store struct {
	db *db.DB

	// Domain-specific stores
	Manuscripts *ManuscriptStore
	Branches    *BranchStore
}

// New creates a new Store wrapping the given database connection.
func New(database *db.DB) *Store {
	s := &Store{db: database}
	s.Manuscripts = &ManuscriptStore{store: s}
	s.Branches = &BranchStore{store: s}
	return s
}

// DB returns the underlying database connection (for read-only queries).
func (s *Store) DB() *db.DB {
	return s.db
}

// withTx executes fn within a transaction, retrying on transient lock
// contention with exponential backoff. If fn returns nil, the transaction
// is committed; otherwise it is rolled back.
func (s *Store) withTx(fn func(tx *sql.Tx, ew *events.Writer) error) error {
	const maxAttempts = 4
	backoff := 25 * time.Millisecond

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = s.runTx(fn)
		if err == nil || !isBusy(err) {
			return err
		}
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", maxAttempts, err)
}

func (s *Store) runTx(fn func(tx *sql.Tx, ew *events.Writer) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ew := events.NewWriter(s.db.DB)
	if err := fn(tx, ew); err != nil {
		return err
	}

	return tx.Commit()
}

// isBusy reports whether err is transient SQLite lock contention.
func isBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}

// checkETag verifies etag matches if ifMatch > 0, returns ETagMismatchError on mismatch.
func checkETag(currentETag, ifMatch int64) error {
	if ifMatch > 0 && currentETag != ifMatch {
		return &domain.ETagMismatchError{Expected: ifMatch, Actual: currentETag}
	}
	return nil
}
