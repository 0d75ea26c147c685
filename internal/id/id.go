package id

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	actorIDPattern      = regexp.MustCompile(`^A-\d{5}$`)
	manuscriptIDPattern = regexp.MustCompile(`^M-\d{5}$`)
	branchIDPattern     = regexp.MustCompile(`^B-\d{5}$`)
	revisionIDPattern   = regexp.MustCompile(`^R-\d{5}$`)
	uuidPattern         = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// Type represents the type of resource
type Type string

const (
	TypeActor      Type = "actor"
	TypeManuscript Type = "manuscript"
	TypeBranch     Type = "branch"
	TypeRevision   Type = "revision"
)

// FormatActor formats an actor friendly ID
func FormatActor(seq int) string {
	return fmt.Sprintf("A-%05d", seq)
}

// FormatManuscript formats a manuscript friendly ID
func FormatManuscript(seq int) string {
	return fmt.Sprintf("M-%05d", seq)
}

// FormatBranch formats a branch friendly ID
func FormatBranch(seq int) string {
	return fmt.Sprintf("B-%05d", seq)
}

// FormatRevision formats a revision friendly ID
func FormatRevision(seq int) string {
	return fmt.Sprintf("R-%05d", seq)
}

// Parse parses an ID string and returns the type and sequence number
func Parse(id string) (Type, int, error) {
	id = strings.TrimSpace(id)

	switch {
	case actorIDPattern.MatchString(id):
		seq, _ := strconv.Atoi(id[2:])
		return TypeActor, seq, nil
	case manuscriptIDPattern.MatchString(id):
		seq, _ := strconv.Atoi(id[2:])
		return TypeManuscript, seq, nil
	case branchIDPattern.MatchString(id):
		seq, _ := strconv.Atoi(id[2:])
		return TypeBranch, seq, nil
	case revisionIDPattern.MatchString(id):
		seq, _ := strconv.Atoi(id[2:])
		return TypeRevision, seq, nil
	default:
		return "", 0, fmt.Errorf("invalid friendly ID format: %s", id)
	}
}

// IsUUID checks if a string is a valid UUID
func IsUUID(s string) bool {
	return uuidPattern.MatchString(strings.ToLower(s))
}

// IsFriendlyID checks if a string is a valid friendly ID
func IsFriendlyID(s string) bool {
	_, _, err := Parse(s)
	return err == nil
}
