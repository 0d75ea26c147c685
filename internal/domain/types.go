package domain

import (
	"encoding/json"
	"time"
)

// BranchStatus represents the lifecycle state of a branch
type BranchStatus string

const (
	BranchStatusActive    BranchStatus = "active"
	BranchStatusMerged    BranchStatus = "merged"
	BranchStatusAbandoned BranchStatus = "abandoned"
)

// MainBranchName is the reserved trunk branch every manuscript owns.
const MainBranchName = "main"

// Actor represents an actor in the system
type Actor struct {
	UUID        string    `json:"uuid" db:"uuid"`
	ID          string    `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	DisplayName *string   `json:"display_name,omitempty" db:"display_name"`
	Role        string    `json:"role" db:"role"` // human, agent, system
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Manuscript represents a structured document under version control
type Manuscript struct {
	UUID               string    `json:"uuid" db:"uuid"`
	ID                 string    `json:"id" db:"id"`
	Slug               string    `json:"slug" db:"slug"`
	Title              *string   `json:"title,omitempty" db:"title"`
	ETag               int64     `json:"etag" db:"etag"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
	CreatedByActorUUID string    `json:"created_by_actor_uuid" db:"created_by_actor_uuid"`
	UpdatedByActorUUID string    `json:"updated_by_actor_uuid" db:"updated_by_actor_uuid"`
}

// Branch represents a named line of revisions off a manuscript
type Branch struct {
	UUID               string       `json:"uuid" db:"uuid"`
	ID                 string       `json:"id" db:"id"`
	ManuscriptUUID     string       `json:"manuscript_uuid" db:"manuscript_uuid"`
	Name               string       `json:"name" db:"name"`
	ParentBranchName   *string      `json:"parent_branch_name,omitempty" db:"parent_branch_name"`
	Status             BranchStatus `json:"status" db:"status"`
	ContentFingerprint string       `json:"content_fingerprint" db:"content_fingerprint"`
	SectionWordCounts  *string      `json:"section_word_counts,omitempty" db:"section_word_counts"` // JSON object
	ETag               int64        `json:"etag" db:"etag"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
	CreatedByActorUUID string       `json:"created_by_actor_uuid" db:"created_by_actor_uuid"`
	UpdatedByActorUUID string       `json:"updated_by_actor_uuid" db:"updated_by_actor_uuid"`
}

// GetSectionWordCounts parses the section word count JSON into a map
func (b *Branch) GetSectionWordCounts() (map[string]int, error) {
	if b.SectionWordCounts == nil || *b.SectionWordCounts == "" {
		return map[string]int{}, nil
	}
	var counts map[string]int
	if err := json.Unmarshal([]byte(*b.SectionWordCounts), &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// Revision represents one immutable snapshot within a branch
type Revision struct {
	UUID               string    `json:"uuid" db:"uuid"`
	ID                 string    `json:"id" db:"id"`
	BranchUUID         string    `json:"branch_uuid" db:"branch_uuid"`
	RevisionNumber     int       `json:"revision_number" db:"revision_number"`
	Content            string    `json:"content" db:"content"`                   // JSON document body
	SectionsChanged    *string   `json:"sections_changed,omitempty" db:"sections_changed"` // JSON array
	DiffFromParent     *string   `json:"diff_from_parent,omitempty" db:"diff_from_parent"` // JSON object
	WordCount          int       `json:"word_count" db:"word_count"`
	CommitMessage      *string   `json:"commit_message,omitempty" db:"commit_message"`
	CreatedByActorUUID *string   `json:"created_by_actor_uuid,omitempty" db:"created_by_actor_uuid"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// DiffFromParent carries the provenance metadata stored on each revision.
// Exactly one of the pointers is meaningful for a given revision:
// Initial for revision 1 of main, BaseVersionUUID for revision 1 of any
// other branch, RevertedTo for reverts, and the summary counters for
// ordinary commits and merges.
type DiffFromParent struct {
	Initial          bool    `json:"initial,omitempty"`
	BaseVersionUUID  *string `json:"base_version_id,omitempty"`
	RevertedTo       *string `json:"reverted_to,omitempty"`
	MergedFromBranch *string `json:"merged_from_branch,omitempty"`
	Strategy         *string `json:"strategy,omitempty"`
	AddedLines       int     `json:"added_lines,omitempty"`
	RemovedLines     int     `json:"removed_lines,omitempty"`
	UnchangedLines   int     `json:"unchanged_lines,omitempty"`
}

// GetDiffFromParent parses the diff_from_parent JSON
func (r *Revision) GetDiffFromParent() (*DiffFromParent, error) {
	if r.DiffFromParent == nil || *r.DiffFromParent == "" {
		return &DiffFromParent{}, nil
	}
	var d DiffFromParent
	if err := json.Unmarshal([]byte(*r.DiffFromParent), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetSectionsChanged parses the sections_changed JSON array
func (r *Revision) GetSectionsChanged() ([]string, error) {
	if r.SectionsChanged == nil || *r.SectionsChanged == "" {
		return []string{}, nil
	}
	var sections []string
	if err := json.Unmarshal([]byte(*r.SectionsChanged), &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// Event represents an entry in the audit event log
type Event struct {
	ID           int64     `json:"id" db:"id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	ActorUUID    *string   `json:"actor_uuid,omitempty" db:"actor_uuid"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	ResourceUUID *string   `json:"resource_uuid,omitempty" db:"resource_uuid"`
	EventType    string    `json:"event_type" db:"event_type"`
	BeforeHash   *string   `json:"before_hash,omitempty" db:"before_hash"`
	AfterHash    *string   `json:"after_hash,omitempty" db:"after_hash"`
	ETag         *int64    `json:"etag,omitempty" db:"etag"`
	Payload      *string   `json:"payload,omitempty" db:"payload"` // JSON
}
