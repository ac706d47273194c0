package ir

// Operator symbols used in condition nodes.
const (
	OpEq   = "="
	OpNe   = "!="
	OpGt   = ">"
	OpGte  = ">="
	OpLt   = "<"
	OpLte  = "<="
	OpLike = "LIKE"

	// Compound operators. Nothing in the builder produces these yet.
	OpAnd = "AND"
	OpOr  = "OR"
)

// Node is a condition term: either a leaf comparison (Key, Op, Value) or a
// compound grouping (Op over Children).
//
// Leaf: Key, Op and Value; no Children. The key is not validated, an empty
// key is still a leaf.
// Compound: empty Key, Null Value, Children (possibly none).
type Node struct {
	Op       string
	Key      string
	Value    Value
	Children []Node

	compound bool
}

// Leaf creates a leaf comparison. A nil value is stored as Null.
func Leaf(op, key string, v Value) Node {
	if v == nil {
		v = Null{}
	}
	return Node{Op: op, Key: key, Value: v}
}

// Compound creates a grouping node. The children are deep-copied, so later
// changes to the caller's slice do not reach the node.
func Compound(op string, children ...Node) Node {
	return Node{Op: op, Value: Null{}, Children: cloneNodes(children), compound: true}
}

// IsLeaf reports whether n is a leaf comparison.
func (n Node) IsLeaf() bool {
	return !n.compound && len(n.Children) == 0
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	n.Children = cloneNodes(n.Children)
	return n
}

func cloneNodes(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, c := range nodes {
		out[i] = c.Clone()
	}
	return out
}
