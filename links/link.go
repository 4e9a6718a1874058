package links

import (
	"github.com/CrimsonAS/qpropertylinks/adaptor"
	"github.com/CrimsonAS/qpropertylinks/proxy"
)

// Widget is the widget side of a link. widget.Object implements it.
type Widget interface {
	Identifier() string
	Property(name string) (any, bool)
	SetProperty(name string, value any) bool
	Connect(signal string, fn func()) (disconnect func())
}

// State is the synchronization state of a link.
type State int

const (
	Initialized State = iota
	Synced
	OutOfSync
)

func (s State) String() string {
	switch s {
	case Synced:
		return "synced"
	case OutOfSync:
		return "out of sync"
	}
	return "initialized"
}

// Key identifies a link within a LinkSet.
type Key struct {
	Proxy          string
	Property       string
	Index          int
	Widget         string
	WidgetProperty string
}

// Link binds one widget property to one proxy property. It is created by
// LinkSet.AddPropertyLink.
type Link struct {
	set *LinkSet
	key Key

	widget         Widget
	widgetProperty string
	signal         string

	proxy    *proxy.Proxy
	property *proxy.Property
	index    int
	shape    adaptor.Shape

	useStaged  bool
	autoCommit bool
	state      State

	disconnects []func()
}

func (l *Link) Key() Key {
	return l.key
}

func (l *Link) State() State {
	return l.state
}

// OutOfSync reports whether the widget holds an edit that has not been
// accepted or reset.
func (l *Link) OutOfSync() bool {
	return l.state == OutOfSync
}

func (l *Link) Shape() adaptor.Shape {
	return l.shape
}

func (l *Link) Widget() Widget {
	return l.widget
}

func (l *Link) WidgetProperty() string {
	return l.widgetProperty
}

func (l *Link) Proxy() *proxy.Proxy {
	return l.proxy
}

func (l *Link) Property() *proxy.Property {
	return l.property
}

// Index is the linked element, or -1 when the whole property is linked.
func (l *Link) Index() int {
	return l.index
}

func (l *Link) UseStagedProperties() bool {
	return l.useStaged
}

func (l *Link) AutoCommit() bool {
	return l.autoCommit
}

func (l *Link) mode() adaptor.Mode {
	if l.useStaged {
		return adaptor.Unchecked
	}
	return adaptor.Checked
}

func (l *Link) connect() {
	l.disconnects = append(l.disconnects,
		l.widget.Connect(l.signal, l.widgetChanged),
		l.property.OnModified(l.remoteChanged),
		l.property.OnUncheckedModified(l.remoteUncheckedChanged),
	)
}

func (l *Link) disconnect() {
	for _, disconnect := range l.disconnects {
		disconnect()
	}
	l.disconnects = nil
}

func (l *Link) remoteChanged() {
	g := l.set.guard
	if g.Active() && g.Source() == l {
		return
	}
	l.state = OutOfSync
	g.run(l, l.pushToWidget)
}

// Staged links also follow unchecked values, so that several widgets
// linked to one property agree before Accept.
func (l *Link) remoteUncheckedChanged() {
	if l.useStaged {
		l.remoteChanged()
	}
}

func (l *Link) pushToWidget() {
	v := remoteValue(l.property, l.shape, l.index, l.mode())
	if !l.widget.SetProperty(l.widgetProperty, v) {
		l.set.logger.Debug("widget declined property value",
			"widget", l.key.Widget, "property", l.widgetProperty, "value", v)
	}
	l.state = Synced
}

func (l *Link) widgetChanged() {
	g := l.set.guard
	if g.Active() {
		return
	}
	l.state = OutOfSync
	g.run(l, l.pullFromWidget)
}

// pullFromWidget writes the widget's value into the property according to
// the link's mode.
func (l *Link) pullFromWidget() {
	if !l.write(l.mode()) {
		return
	}
	if l.useStaged {
		return
	}
	if l.autoCommit {
		l.proxy.ApplyPending()
		l.state = Synced
	}
}

func (l *Link) write(mode adaptor.Mode) bool {
	v, ok := l.widget.Property(l.widgetProperty)
	if !ok {
		return false
	}
	if !writeRemote(l.property, l.shape, l.index, v, mode) {
		l.set.logger.Debug("property declined widget value",
			"proxy", l.proxy.String(), "property", l.property.Name(), "index", l.index, "value", v)
		return false
	}
	return true
}

// accept commits the widget's value. The caller applies the proxy.
func (l *Link) accept() {
	l.set.guard.run(l, func() {
		l.write(adaptor.Checked)
	})
	l.state = Synced
}

// reset discards the staged value and restores the widget from the
// property.
func (l *Link) reset() {
	l.set.guard.run(l, func() {
		l.property.ClearUnchecked()
		l.pushToWidget()
	})
}
