package domain

import (
	"fmt"
	"regexp"
	"time"
)

// UUIDv4Regex validates lowercase UUIDv4 format
var UUIDv4Regex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// ValidateUUID validates a UUID v4 format (lowercase with hyphens)
func ValidateUUID(uuid string) error {
	if !UUIDv4Regex.MatchString(uuid) {
		return fmt.Errorf("invalid UUID: must be lowercase UUIDv4 format (e.g., 550e8400-e29b-41d4-a716-446655440000)")
	}
	return nil
}

// ValidateBranchStatus validates a branch status
func ValidateBranchStatus(status string) error {
	switch BranchStatus(status) {
	case BranchStatusActive, BranchStatusMerged, BranchStatusAbandoned:
		return nil
	default:
		return fmt.Errorf("invalid branch status: must be one of: active, merged, abandoned")
	}
}

// ValidateActorRole validates an actor role
func ValidateActorRole(role string) error {
	switch role {
	case "human", "agent", "system":
		return nil
	default:
		return fmt.Errorf("invalid actor role: must be one of: human, agent, system")
	}
}

// ValidateResourceType validates an event resource type
func ValidateResourceType(resourceType string) error {
	switch resourceType {
	case "manuscript", "branch", "revision", "actor", "system":
		return nil
	default:
		return fmt.Errorf("invalid resource type: must be one of: manuscript, branch, revision, actor, system")
	}
}

// ValidateTimestamp validates and parses an ISO8601 timestamp
func ValidateTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp format: expected ISO8601/RFC3339")
	}
	return t, nil
}

// ETagMismatchError is returned when an etag doesn't match
type ETagMismatchError struct {
	Expected int64
	Actual   int64
}

func (e *ETagMismatchError) Error() string {
	return fmt.Sprintf("etag mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// NotFoundError is returned when a manuscript, branch, or revision cannot
// be resolved.
type NotFoundError struct {
	Resource string // manuscript, branch, revision, actor
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// NameCollisionError is returned when a branch name already exists among
// the non-abandoned branches of a manuscript.
type NameCollisionError struct {
	ManuscriptUUID string
	Name           string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("branch %q already exists on manuscript %s", e.Name, e.ManuscriptUUID)
}

// BranchStateError is returned when a mutation targets a branch that is
// not in the required lifecycle status.
type BranchStateError struct {
	BranchUUID string
	Status     BranchStatus
	Operation  string
}

func (e *BranchStateError) Error() string {
	return fmt.Sprintf("cannot %s branch %s: branch is %s", e.Operation, e.BranchUUID, e.Status)
}

// InvariantError indicates corrupted state that should never occur: a
// branch with no revisions, a gap in revision numbers, a cycle in the
// history forest. It is never retried or recovered.
type InvariantError struct {
	Context string
	Detail  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation (%s): %s", e.Context, e.Detail)
}
