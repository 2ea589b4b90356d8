// Package comments assembles flat comment rows into the two-level tree the
// API serves.
package comments

import "github.com/nexusfeed/backend/internal/models"

// Node is a comment with its ordered replies and author display fields
type Node struct {
	models.Comment
	Author  models.UserCompact `json:"author"`
	Replies []*Node            `json:"replies"`
}

// BuildTree links flat comments into a two-level tree. Input order (expected
// chronological ascending) fixes both root order and reply order. A comment
// whose parent is missing from the input becomes a root node rather than
// being dropped or re-parented. Pure and deterministic: the same input always
// yields the same tree.
func BuildTree(flat []models.Comment) []*Node {
	index := make(map[uint]*Node, len(flat))
	nodes := make([]*Node, 0, len(flat))
	for i := range flat {
		n := &Node{Comment: flat[i], Replies: []*Node{}}
		index[n.ID] = n
		nodes = append(nodes, n)
	}

	roots := make([]*Node, 0, len(flat))
	for _, n := range nodes {
		if n.ParentID != nil {
			if parent, ok := index[*n.ParentID]; ok && parent != n {
				parent.Replies = append(parent.Replies, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}
