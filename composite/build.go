package composite

import (
	"fmt"

	"github.com/CrimsonAS/qpropertylinks/proxy"
)

type builder struct {
	expandPieces bool
	flat         int
	nodes        []*Node
}

func (b *builder) build(info *proxy.DataInformation) *Node {
	b.flat = 0
	b.nodes = nil

	root := &Node{flat: 0, level: -1, index: -1, kind: KindDataSet, name: "root"}
	if info != nil {
		if info.Name != "" {
			root.name = info.Name
		} else if info.ClassName != "" {
			root.name = info.ClassName
		}
		root.kind = compositeKind(info)
	}
	b.nodes = append(b.nodes, root)
	if info.IsComposite() {
		b.children(root, info)
	}
	return root
}

func (b *builder) children(parent *Node, info *proxy.DataInformation) {
	for i, c := range info.Children {
		b.flat++
		n := &Node{
			flat:   b.flat,
			level:  -1,
			index:  -1,
			depth:  parent.depth + 1,
			name:   c.Name,
			kind:   compositeKind(c.Info),
			parent: parent,
		}
		switch n.depth {
		case 1:
			n.level = i
		case 2:
			n.level, n.index = parent.level, i
		}
		if parent.kind == KindAMR {
			n.kind = KindLevel
		}
		if n.name == "" {
			n.name = defaultName(parent, i)
		}
		parent.children = append(parent.children, n)
		b.nodes = append(b.nodes, n)

		switch {
		case c.Info.IsMultiPiece() && !b.expandPieces:
			// Pieces keep their flat indices even when they are not shown
			b.flat += countNodes(c.Info)
		case c.Info.IsMultiPiece():
			b.pieces(n, c.Info)
		case c.Info.IsComposite(), n.kind == KindLevel && c.Info != nil:
			b.children(n, c.Info)
		}
	}
}

func (b *builder) pieces(parent *Node, info *proxy.DataInformation) {
	for i, c := range info.Children {
		b.flat++
		n := &Node{
			flat:   b.flat,
			level:  -1,
			index:  -1,
			depth:  parent.depth + 1,
			name:   c.Name,
			kind:   KindPiece,
			parent: parent,
		}
		if n.depth == 2 {
			n.level, n.index = parent.level, i
		}
		if n.name == "" {
			n.name = fmt.Sprintf("Piece %d", i)
		}
		parent.children = append(parent.children, n)
		b.nodes = append(b.nodes, n)
		b.flat += countNodes(c.Info)
	}
}

func compositeKind(info *proxy.DataInformation) NodeKind {
	switch {
	case info.IsAMR():
		return KindAMR
	case info.IsMultiPiece():
		return KindMultiPiece
	case info.IsComposite():
		return KindMultiBlock
	}
	return KindDataSet
}

func defaultName(parent *Node, i int) string {
	switch parent.kind {
	case KindAMR:
		return fmt.Sprintf("Level %d", i)
	case KindLevel:
		return fmt.Sprintf("DataSet %d", i)
	}
	return fmt.Sprintf("Block %d", i)
}

// countNodes returns the number of nodes below info.
func countNodes(info *proxy.DataInformation) int {
	if info == nil {
		return 0
	}
	n := 0
	for _, c := range info.Children {
		n += 1 + countNodes(c.Info)
	}
	return n
}
