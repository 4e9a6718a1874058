package composite

// NodeKind describes what a node of the tree stands for.
type NodeKind int

const (
	KindDataSet NodeKind = iota
	KindMultiBlock
	KindMultiPiece
	KindPiece
	KindAMR
	KindLevel
)

var nodeKindNames = []string{"dataset", "multiblock", "multipiece", "piece", "amr", "level"}

func (k NodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "unknown"
	}
	return nodeKindNames[k]
}

// CheckState is the displayed state of a node's checkbox.
type CheckState int

const (
	Unchecked CheckState = iota
	PartiallyChecked
	Checked
)

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case PartiallyChecked:
		return "partial"
	}
	return "unchecked"
}

// Node is one entry of the tree.
type Node struct {
	flat      int
	level     int
	index     int
	depth     int
	name      string
	kind      NodeKind
	checkable bool

	// explicit is the authoritative state: checked leaves, and non-leaves
	// the user (or a value) checked as a whole.
	explicit bool

	parent   *Node
	children []*Node
}

// FlatIndex is the pre-order position of the node in the data structure.
// Collapsed multi-piece nodes still account for their pieces.
func (n *Node) FlatIndex() int {
	return n.flat
}

// LevelNumber is the position of the node's level, or -1 outside of level
// and index addressing.
func (n *Node) LevelNumber() int {
	return n.level
}

// BlockIndex is the position of the node within its level, or -1.
func (n *Node) BlockIndex() int {
	return n.index
}

func (n *Node) BlockName() string {
	return n.name
}

func (n *Node) Kind() NodeKind {
	return n.kind
}

func (n *Node) Checkable() bool {
	return n.checkable
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

// CheckState derives the displayed state. A non-leaf is Checked only when it
// was checked as a whole; children that all happen to be checked make it
// PartiallyChecked.
func (n *Node) CheckState() CheckState {
	if n.IsLeaf() {
		if n.explicit {
			return Checked
		}
		return Unchecked
	}
	all := true
	for _, c := range n.children {
		if c.CheckState() != Checked {
			all = false
			break
		}
	}
	if n.explicit && all {
		return Checked
	}
	if n.anyChecked() {
		return PartiallyChecked
	}
	return Unchecked
}

func (n *Node) anyChecked() bool {
	if n.explicit {
		return true
	}
	for _, c := range n.children {
		if c.anyChecked() {
			return true
		}
	}
	return false
}

// setExplicit sets the state of n and all of its descendants.
func (n *Node) setExplicit(checked bool) {
	n.explicit = checked
	for _, c := range n.children {
		c.setExplicit(checked)
	}
}

func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}
