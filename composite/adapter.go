package composite

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CrimsonAS/qpropertylinks/proxy"
	"github.com/CrimsonAS/qpropertylinks/widget"
)

var (
	// ErrLastChecked is returned when a single-item tree would be left with
	// nothing checked.
	ErrLastChecked = errors.New("composite: at least one item must stay checked")
	// ErrNotCheckable is returned for nodes that cannot be checked in the
	// tree's mode, or that do not belong to the tree.
	ErrNotCheckable = errors.New("composite: node is not checkable")
)

// IndexMode selects how values address nodes.
type IndexMode int

const (
	// FlatIndex values are single pre-order positions.
	FlatIndex IndexMode = iota
	// LevelIndex values are (level number, block index) pairs.
	LevelIndex
)

// ValuesProperty is the widget property holding the selected values.
const ValuesProperty = "values"

// Adapter is a checkable tree mirroring the structure described by a
// composite tree domain. It is a widget: its "values" property holds the
// selected node set encoded for the property it is linked to, and
// "valuesChanged" is emitted whenever the user changes the selection.
type Adapter struct {
	widget.Object

	Selected []int `json:"values"`

	domain       *proxy.CompositeTreeDomain
	indexMode    IndexMode
	singleItem   bool
	expandPieces bool
	logger       *slog.Logger

	root    *Node
	nodes   []*Node
	byFlat  map[int]*Node
	byLevel map[[2]int]*Node
	current *Node

	updating    bool
	disconnects []func()
}

type Option func(*Adapter)

func WithIndexMode(mode IndexMode) Option {
	return func(a *Adapter) { a.indexMode = mode }
}

// WithSingleItem restricts the tree to one checked item, which can never be
// unchecked except by checking another.
func WithSingleItem(single bool) Option {
	return func(a *Adapter) { a.singleItem = single }
}

// WithShowDatasetsInMultiPiece shows the pieces of multi-piece datasets as
// separate leaves instead of collapsing them.
func WithShowDatasetsInMultiPiece(show bool) Option {
	return func(a *Adapter) { a.expandPieces = show }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds a tree for domain and rebuilds it whenever the domain's
// structure changes. Close stops the rebuilds.
func New(domain *proxy.CompositeTreeDomain, opts ...Option) *Adapter {
	a := &Adapter{
		domain: domain,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	widget.MustInit(a)
	a.disconnects = append(a.disconnects, a.Connect(widget.ChangedSignal(ValuesProperty), a.valuesSet))
	if domain != nil {
		a.disconnects = append(a.disconnects, domain.OnModified(a.Rebuild))
	}
	a.build()
	return a
}

// ForProperty builds a tree for the composite tree domain of p. Repeatable
// properties allow any number of checked items; a property with two
// elements per command is addressed by level and index.
func ForProperty(p *proxy.Property, opts ...Option) (*Adapter, error) {
	if p == nil {
		return nil, fmt.Errorf("composite: nil property")
	}
	domain, ok := p.FindDomain(proxy.DomainCompositeTree).(*proxy.CompositeTreeDomain)
	if !ok {
		return nil, fmt.Errorf("composite: property %s has no composite tree domain", p.Name())
	}
	mode := FlatIndex
	if p.ElementsPerCommand() == 2 {
		mode = LevelIndex
	}
	defaults := []Option{WithIndexMode(mode), WithSingleItem(!p.Repeatable())}
	return New(domain, append(defaults, opts...)...), nil
}

// Close disconnects the tree from its domain.
func (a *Adapter) Close() {
	for _, disconnect := range a.disconnects {
		disconnect()
	}
	a.disconnects = nil
}

func (a *Adapter) mode() proxy.CompositeTreeMode {
	if a.domain == nil {
		return proxy.ModeAll
	}
	return a.domain.Mode()
}

func (a *Adapter) IndexMode() IndexMode {
	return a.indexMode
}

func (a *Adapter) SingleItem() bool {
	return a.singleItem
}

// Rebuild recreates the tree from the domain's current structure. The
// selected values are carried over to the new tree.
func (a *Adapter) Rebuild() {
	snapshot := a.Values()
	a.build()
	a.apply(snapshot)
	a.Selected = a.Values()
	a.logger.Debug("composite tree rebuilt", "nodes", len(a.nodes), "values", a.Selected)
}

func (a *Adapter) build() {
	var info *proxy.DataInformation
	if a.domain != nil {
		info = a.domain.Information()
	}

	b := &builder{expandPieces: a.expandPieces}
	a.root = b.build(info)
	a.nodes = b.nodes
	a.byFlat = make(map[int]*Node, len(a.nodes))
	a.byLevel = make(map[[2]int]*Node)
	for _, n := range a.nodes {
		a.byFlat[n.flat] = n
		if n.level >= 0 && n.index >= 0 {
			a.byLevel[[2]int{n.level, n.index}] = n
		}
		n.checkable = a.checkable(n)
	}
	if a.current != nil {
		a.current = a.byFlat[a.current.flat]
	}
}

func (a *Adapter) checkable(n *Node) bool {
	switch a.mode() {
	case proxy.ModeNone:
		return false
	case proxy.ModeLeaves:
		return n.IsLeaf() || !a.singleItem
	}
	return true
}

// Root returns the root node, which stands for the whole dataset.
func (a *Adapter) Root() *Node {
	return a.root
}

// Nodes returns all displayed nodes in pre-order.
func (a *Adapter) Nodes() []*Node {
	return a.nodes
}

// Node returns the displayed node with the given flat index, or nil.
func (a *Adapter) Node(flat int) *Node {
	return a.byFlat[flat]
}

// NodeAt returns the node addressed by a level and block index, or nil.
func (a *Adapter) NodeAt(level, index int) *Node {
	return a.byLevel[[2]int{level, index}]
}

func (a *Adapter) owns(n *Node) bool {
	return n != nil && a.byFlat[n.flat] == n
}

// SetChecked changes the state of n as a user click would. Descendants
// follow. Checking never changes an ancestor; unchecking drops the whole
// checks of the ancestors, which are no longer complete. In single-item
// trees checking n unchecks everything else.
func (a *Adapter) SetChecked(n *Node, checked bool) error {
	if !a.owns(n) || !n.checkable {
		return ErrNotCheckable
	}

	snapshot := a.explicitState()
	if a.singleItem && checked {
		a.root.setExplicit(false)
	}
	n.setExplicit(checked)
	if !checked {
		for p := n.parent; p != nil; p = p.parent {
			p.explicit = false
		}
	}

	if a.singleItem && len(a.Values()) == 0 {
		a.restore(snapshot)
		return ErrLastChecked
	}
	a.valuesUpdated()
	return nil
}

// Select makes the node with the given flat index current. In single-item
// trees it is also checked.
func (a *Adapter) Select(flat int) bool {
	n := a.byFlat[flat]
	if n == nil {
		return false
	}
	a.current = n
	if a.singleItem && n.checkable {
		return a.SetChecked(n, true) == nil
	}
	return true
}

// Current returns the node last made current with Select.
func (a *Adapter) Current() *Node {
	return a.current
}

// Values encodes the checked nodes. In flat mode, nodes checked as a whole
// are reported instead of their descendants, unless the domain only
// accepts leaves. In level mode, (level, index) pairs are reported for
// every checked block.
func (a *Adapter) Values() []int {
	values := []int{}
	mode := a.mode()
	if mode == proxy.ModeNone || a.root == nil {
		return values
	}

	if a.indexMode == LevelIndex {
		for _, n := range a.nodes {
			if n.explicit && n.level >= 0 && n.index >= 0 && reportable(mode, n) {
				values = append(values, n.level, n.index)
			}
		}
		return values
	}

	a.root.walk(func(n *Node) bool {
		if !n.explicit {
			return true
		}
		if n.IsLeaf() {
			if reportable(mode, n) {
				values = append(values, n.flat)
			}
			return false
		}
		if mode != proxy.ModeLeaves && n.CheckState() == Checked {
			values = append(values, n.flat)
			return false
		}
		return true
	})
	return values
}

func reportable(mode proxy.CompositeTreeMode, n *Node) bool {
	switch mode {
	case proxy.ModeLeaves:
		return n.IsLeaf()
	case proxy.ModeNonLeaves:
		return !n.IsLeaf()
	case proxy.ModeNone:
		return false
	}
	return true
}

// SetValues replaces the checked set. Values addressing unknown or
// uncheckable nodes are ignored.
func (a *Adapter) SetValues(values []int) {
	if values == nil {
		values = []int{}
	}
	a.SetProperty(ValuesProperty, values)
}

// valuesSet applies an externally assigned values property to the tree.
func (a *Adapter) valuesSet() {
	if a.updating {
		return
	}
	a.apply(a.Selected)
	a.Selected = a.Values()
}

func (a *Adapter) apply(values []int) {
	a.root.setExplicit(false)

	if a.indexMode == LevelIndex {
		for i := 0; i+1 < len(values); i += 2 {
			a.check(a.byLevel[[2]int{values[i], values[i+1]}], values[i:i+2])
		}
		return
	}
	for _, v := range values {
		a.check(a.byFlat[v], v)
	}
}

func (a *Adapter) check(n *Node, value any) {
	if n == nil || !n.checkable {
		a.logger.Debug("composite value ignored", "value", value)
		return
	}
	n.setExplicit(true)
}

// valuesUpdated publishes the tree's state through the values property.
func (a *Adapter) valuesUpdated() {
	a.updating = true
	defer func() { a.updating = false }()
	a.SetProperty(ValuesProperty, a.Values())
}

func (a *Adapter) explicitState() []bool {
	state := make([]bool, len(a.nodes))
	for i, n := range a.nodes {
		state[i] = n.explicit
	}
	return state
}

func (a *Adapter) restore(state []bool) {
	for i, n := range a.nodes {
		n.explicit = state[i]
	}
}
