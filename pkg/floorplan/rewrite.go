package floorplan

import "github.com/google/uuid"

// Tree-rewrite helpers. Every operation addresses nodes by ID only
// (children reorder freely, so positional addressing is never used) and
// returns a wholly new tree built by structural sharing: nodes on the
// path to the change are copied, untouched subtrees are reused as-is.
//
// Unknown IDs are deliberately no-ops returning the input tree unchanged.
// The surrounding application may race a deletion against a pending edit,
// and a stale edit must not fail the whole tree.

// Patch is a partial field update merged into one node. Nil pointer
// fields are left untouched; set fields overwrite. Children and ID are
// never patched; use [ReplaceNode], [AddChild], or [RemoveNode] for
// structural changes.
type Patch struct {
	Name       *string `json:"name,omitempty"`
	Registers  *int64  `json:"registers,omitempty"`
	MemoryBits *int64  `json:"memoryBits,omitempty"`
	LogicGates *int64  `json:"logicGates,omitempty"`

	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	InternalX *float64 `json:"internalX,omitempty"`
	InternalY *float64 `json:"internalY,omitempty"`

	AspectRatio         *float64 `json:"aspectRatio,omitempty"`
	InternalAspectRatio *float64 `json:"internalAspectRatio,omitempty"`
	RatioLinked         *bool    `json:"isRatioLinked,omitempty"`
}

// apply merges the patch into a copy of n, leaving n untouched.
func (p Patch) apply(n *Node) *Node {
	out := *n
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Registers != nil {
		out.Registers = *p.Registers
	}
	if p.MemoryBits != nil {
		out.MemoryBits = *p.MemoryBits
	}
	if p.LogicGates != nil {
		out.LogicGates = *p.LogicGates
	}
	if p.X != nil {
		out.X = *p.X
	}
	if p.Y != nil {
		out.Y = *p.Y
	}
	if p.InternalX != nil {
		out.InternalX = *p.InternalX
	}
	if p.InternalY != nil {
		out.InternalY = *p.InternalY
	}
	if p.AspectRatio != nil && *p.AspectRatio > 0 {
		out.AspectRatio = *p.AspectRatio
	}
	if p.InternalAspectRatio != nil && *p.InternalAspectRatio > 0 {
		out.InternalAspectRatio = *p.InternalAspectRatio
	}
	if p.RatioLinked != nil {
		out.RatioLinked = *p.RatioLinked
	}
	return &out
}

// UpdateNode returns a new tree in which the node with the given ID has
// the patch merged into it. When the ID is not present the input tree is
// returned unchanged.
func UpdateNode(root *Node, id string, p Patch) *Node {
	return rewrite(root, id, func(n *Node) *Node { return p.apply(n) })
}

// ReplaceNode returns a new tree in which the node with the given ID is
// replaced wholesale by repl (including its subtree). The replacement
// keeps the addressed ID so the node stays reachable under the same
// identity. Unknown IDs leave the tree unchanged.
func ReplaceNode(root *Node, id string, repl *Node) *Node {
	return rewrite(root, id, func(*Node) *Node {
		out := repl.Clone()
		out.ID = id
		return out
	})
}

// AddChild returns a new tree with child appended to the children of the
// node with parentID. A child arriving without an ID is assigned a fresh
// UUID. Unknown parent IDs leave the tree unchanged.
func AddChild(root *Node, parentID string, child *Node) *Node {
	return rewrite(root, parentID, func(n *Node) *Node {
		c := child.Clone()
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		out := *n
		out.Children = make([]*Node, 0, len(n.Children)+1)
		out.Children = append(out.Children, n.Children...)
		out.Children = append(out.Children, c)
		return &out
	})
}

// RemoveNode returns a new tree without the node carrying the given ID
// (and its whole subtree). Removing the root ID or an unknown ID leaves
// the tree unchanged: the root is owned by the caller and cannot delete
// itself.
func RemoveNode(root *Node, id string) *Node {
	if root == nil || root.ID == id {
		return root
	}
	out, _ := removeBelow(root, id)
	return out
}

// rewrite rebuilds the path from root to the node with the target ID,
// applying fn to that node. Subtrees off the path are shared, not copied.
// When the ID is absent the original root pointer is returned.
func rewrite(root *Node, id string, fn func(*Node) *Node) *Node {
	if root == nil {
		return nil
	}
	if root.ID == id {
		return fn(root)
	}
	for i, c := range root.Children {
		if next := rewrite(c, id, fn); next != c {
			out := *root
			out.Children = make([]*Node, len(root.Children))
			copy(out.Children, root.Children)
			out.Children[i] = next
			return &out
		}
	}
	return root
}

func removeBelow(n *Node, id string) (*Node, bool) {
	for i, c := range n.Children {
		if c.ID == id {
			out := *n
			out.Children = make([]*Node, 0, len(n.Children)-1)
			out.Children = append(out.Children, n.Children[:i]...)
			out.Children = append(out.Children, n.Children[i+1:]...)
			return &out, true
		}
		if next, ok := removeBelow(c, id); ok {
			out := *n
			out.Children = make([]*Node, len(n.Children))
			copy(out.Children, n.Children)
			out.Children[i] = next
			return &out, true
		}
	}
	return n, false
}
