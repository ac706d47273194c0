package ir

import (
	"fmt"
	"strings"
)

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return Asc, nil
	case "DESC":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("invalid sort direction %q: must be asc or desc", s)
	}
}

// Sort is one ORDER BY term.
type Sort struct {
	Field string
	Dir   Direction
}

// Query is the accumulated builder state handed to generators.
//
// Limit and Offset are zero when unset; only positive values are ever stored.
type Query struct {
	Table      string
	Conditions []Node
	Sorts      []Sort
	Limit      int
	Offset     int
}

// HasLimit reports whether a limit was set.
func (q *Query) HasLimit() bool { return q.Limit > 0 }

// HasOffset reports whether an offset was set.
func (q *Query) HasOffset() bool { return q.Offset > 0 }

// Leaves returns the leaf conditions in declaration order.
func (q *Query) Leaves() []Node {
	leaves := make([]Node, 0, len(q.Conditions))
	for _, c := range q.Conditions {
		if c.IsLeaf() {
			leaves = append(leaves, c)
		}
	}
	return leaves
}

// Clone returns a deep copy of q.
func (q *Query) Clone() Query {
	out := *q
	out.Conditions = cloneNodes(q.Conditions)
	if q.Sorts != nil {
		out.Sorts = append([]Sort(nil), q.Sorts...)
	}
	return out
}
