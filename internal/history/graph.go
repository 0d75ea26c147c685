// Package history reconstructs the branch/revision forest of a manuscript
// from stored parent linkage, for history browsing and revert targeting.
package history

import (
	"sort"
	"time"

	"github.com/quillvc/quill/internal/domain"
)

// Node is a read-only view of one revision in the history forest.
type Node struct {
	UUID           string    `json:"uuid"`
	ID             string    `json:"id"`
	BranchUUID     string    `json:"branch_uuid"`
	BranchName     string    `json:"branch_name"`
	RevisionNumber int       `json:"revision_number"`
	ParentUUID     string    `json:"parent_uuid,omitempty"`
	Children       []*Node   `json:"children,omitempty"`
	CommitMessage  string    `json:"commit_message,omitempty"`
	WordCount      int       `json:"word_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Entry is the flat revision record the forest is built from.
type Entry struct {
	Revision   domain.Revision
	BranchName string
}

// BuildForest links revisions into trees: a revision's parent is the
// previous revision number on the same branch, or the fork's base version
// for a branch's first revision. Roots are nodes with no resolvable
// parent. The forest is built arena-style: an index of all nodes first,
// then a wiring pass. A cycle in the parent linkage is corrupted state and
// returns an InvariantError instead of looping.
func BuildForest(entries []Entry) ([]*Node, error) {
	// First pass: one node per revision, indexed by UUID and by
	// (branch, revision number) for within-branch parent lookup.
	nodes := make(map[string]*Node, len(entries))
	byBranchNumber := make(map[string]map[int]string)

	for _, e := range entries {
		rev := e.Revision
		node := &Node{
			UUID:           rev.UUID,
			ID:             rev.ID,
			BranchUUID:     rev.BranchUUID,
			BranchName:     e.BranchName,
			RevisionNumber: rev.RevisionNumber,
			WordCount:      rev.WordCount,
			CreatedAt:      rev.CreatedAt,
		}
		if rev.CommitMessage != nil {
			node.CommitMessage = *rev.CommitMessage
		}
		nodes[rev.UUID] = node
		if byBranchNumber[rev.BranchUUID] == nil {
			byBranchNumber[rev.BranchUUID] = make(map[int]string)
		}
		byBranchNumber[rev.BranchUUID][rev.RevisionNumber] = rev.UUID
	}

	// Second pass: wire parents and children.
	var roots []*Node
	for _, e := range entries {
		rev := e.Revision
		node := nodes[rev.UUID]

		parentUUID := ""
		if prev, ok := byBranchNumber[rev.BranchUUID][rev.RevisionNumber-1]; ok {
			parentUUID = prev
		} else {
			// First revision of a branch: follow the fork point.
			d, err := rev.GetDiffFromParent()
			if err == nil && d.BaseVersionUUID != nil {
				if _, ok := nodes[*d.BaseVersionUUID]; ok {
					parentUUID = *d.BaseVersionUUID
				}
			}
		}

		if parentUUID == "" {
			roots = append(roots, node)
			continue
		}
		node.ParentUUID = parentUUID
		parent := nodes[parentUUID]
		parent.Children = append(parent.Children, node)
	}

	// Every node must be reachable from a root; a shortfall means the
	// parent chain never terminates.
	if err := checkAcyclic(roots, len(nodes)); err != nil {
		return nil, err
	}

	sortForest(roots)
	return roots, nil
}

func checkAcyclic(roots []*Node, total int) error {
	visited := 0
	stack := append([]*Node(nil), roots...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++
		if visited > total {
			return &domain.InvariantError{Context: "history", Detail: "revision parent linkage contains a cycle"}
		}
		stack = append(stack, n.Children...)
	}
	if visited < total {
		return &domain.InvariantError{Context: "history", Detail: "revision parent linkage contains a cycle"}
	}
	return nil
}

// sortForest orders siblings by creation time, then revision number, for a
// stable display order.
func sortForest(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].CreatedAt.Equal(nodes[j].CreatedAt) {
			return nodes[i].RevisionNumber < nodes[j].RevisionNumber
		}
		return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
	})
	for _, n := range nodes {
		sortForest(n.Children)
	}
}
