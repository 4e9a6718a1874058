package proxy

import (
	"errors"
	"fmt"

	uuid "github.com/satori/go.uuid"
)

var (
	ErrPropertyExists = errors.New("property name already in use")
	ErrPropertyOwned  = errors.New("property already belongs to a proxy")
)

// Proxy is the local representation of an object in the backing system.
type Proxy struct {
	id      string
	group   string
	name    string
	session *Session

	properties []*Property
	byName     map[string]*Property
	pending    []*Property

	applied signal
}

// NewProxy creates a proxy of the given definition group and name, with a
// new unique identifier.
func NewProxy(group, name string) *Proxy {
	u, _ := uuid.NewV4()
	return NewProxyId(group, name, u.String())
}

// NewProxyId is equivalent to NewProxy with a known identifier. It is useful
// when the backing system assigns identifiers.
func NewProxyId(group, name, id string) *Proxy {
	return &Proxy{
		id:     id,
		group:  group,
		name:   name,
		byName: make(map[string]*Property),
	}
}

func (p *Proxy) Identifier() string {
	return p.id
}

func (p *Proxy) Group() string {
	return p.group
}

func (p *Proxy) Name() string {
	return p.name
}

func (p *Proxy) String() string {
	return fmt.Sprintf("%s/%s(%s)", p.group, p.name, p.id)
}

// Session returns the session the proxy is registered with, or nil.
func (p *Proxy) Session() *Session {
	return p.session
}

// AddProperty makes prop a property of this proxy.
func (p *Proxy) AddProperty(prop *Property) error {
	if prop.proxy != nil {
		return fmt.Errorf("%w: %s", ErrPropertyOwned, prop.name)
	} else if _, exists := p.byName[prop.name]; exists {
		return fmt.Errorf("%w: %s", ErrPropertyExists, prop.name)
	}
	prop.proxy = p
	p.properties = append(p.properties, prop)
	p.byName[prop.name] = prop
	return nil
}

// NewProperty creates a property and adds it to the proxy.
func (p *Proxy) NewProperty(name string, kind Kind, opts ...PropertyOption) (*Property, error) {
	prop := NewProperty(name, kind, opts...)
	if err := p.AddProperty(prop); err != nil {
		return nil, err
	}
	return prop, nil
}

// Property returns the named property, or nil.
func (p *Proxy) Property(name string) *Property {
	return p.byName[name]
}

// Properties returns all properties in the order they were added.
func (p *Proxy) Properties() []*Property {
	return p.properties
}

// Pending returns the properties whose checked values changed since the
// last ApplyPending.
func (p *Proxy) Pending() []*Property {
	return p.pending
}

func (p *Proxy) markPending(prop *Property) {
	for _, e := range p.pending {
		if e == prop {
			return
		}
	}
	p.pending = append(p.pending, prop)
}

// ApplyPending pushes pending property values to the backing system and
// clears the pending set. Observers connected with OnApplied are notified
// on every call, even when nothing was pending.
func (p *Proxy) ApplyPending() {
	pending := p.pending
	p.pending = nil
	if p.session != nil && len(pending) > 0 {
		p.session.sendUpdate(p, pending)
	}
	p.applied.emit()
}

// OnApplied connects fn to be called after each ApplyPending.
func (p *Proxy) OnApplied(fn func()) (disconnect func()) {
	return p.applied.connect(fn)
}
