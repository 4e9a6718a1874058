package links

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CrimsonAS/qpropertylinks/adaptor"
	"github.com/CrimsonAS/qpropertylinks/proxy"
	"github.com/CrimsonAS/qpropertylinks/widget"
)

var (
	ErrNilWidget         = errors.New("links: nil widget")
	ErrNilProxy          = errors.New("links: nil proxy")
	ErrUnknownProperty   = errors.New("links: proxy has no such property")
	ErrUnknownWidgetProp = errors.New("links: widget has no such property")
)

// LinkSet is a collection of links sharing a mode.
type LinkSet struct {
	guard  *Guard
	logger *slog.Logger

	useStaged  bool
	autoCommit bool

	links map[Key]*Link
	order []*Link
}

type Option func(*LinkSet)

// WithGuard makes the set use g instead of the default guard.
func WithGuard(g *Guard) Option {
	return func(s *LinkSet) {
		if g != nil {
			s.guard = g
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *LinkSet) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUseStagedProperties sets the initial staging mode; see
// SetUseStagedProperties.
func WithUseStagedProperties(staged bool) Option {
	return func(s *LinkSet) { s.useStaged = staged }
}

// WithAutoCommit sets the initial auto commit mode; see SetAutoCommit.
func WithAutoCommit(autoCommit bool) Option {
	return func(s *LinkSet) { s.autoCommit = autoCommit }
}

// New returns an empty set. Widget edits are committed and applied
// immediately unless configured otherwise.
func New(opts ...Option) *LinkSet {
	s := &LinkSet{
		guard:      defaultGuard,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		autoCommit: true,
		links:      make(map[Key]*Link),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LinkSet) Guard() *Guard {
	return s.guard
}

func keyOf(w Widget, widgetProperty string, px *proxy.Proxy, property string, index int) Key {
	if index < 0 {
		index = -1
	}
	return Key{
		Proxy:          px.Identifier(),
		Property:       property,
		Index:          index,
		Widget:         w.Identifier(),
		WidgetProperty: widgetProperty,
	}
}

// AddPropertyLink links widgetProperty of w to the named property of px,
// or to element index of it; a negative index links the whole property.
// The widget is updated from the property before AddPropertyLink returns,
// and afterwards writes back whenever it emits signal. An empty signal
// selects the property's change signal.
//
// Linking the same widget property to the same property and index twice
// returns the existing link.
func (s *LinkSet) AddPropertyLink(w Widget, widgetProperty, signal string, px *proxy.Proxy, property string, index int) (*Link, error) {
	if w == nil {
		return nil, ErrNilWidget
	} else if px == nil {
		return nil, ErrNilProxy
	}
	prop := px.Property(property)
	if prop == nil {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, px.Name(), property)
	}
	if _, ok := w.Property(widgetProperty); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWidgetProp, widgetProperty)
	}

	key := keyOf(w, widgetProperty, px, property, index)
	if l, exists := s.links[key]; exists {
		return l, nil
	}
	if signal == "" {
		signal = widget.ChangedSignal(widgetProperty)
	}

	l := &Link{
		set:            s,
		key:            key,
		widget:         w,
		widgetProperty: widgetProperty,
		signal:         signal,
		proxy:          px,
		property:       prop,
		index:          key.Index,
		shape:          adaptor.Classify(prop),
		useStaged:      s.useStaged,
		autoCommit:     s.autoCommit,
		state:          Initialized,
	}
	s.links[key] = l
	s.order = append(s.order, l)

	l.connect()
	s.guard.run(l, l.pushToWidget)

	s.logger.Debug("property link added",
		"proxy", px.String(), "property", property, "index", l.index,
		"widget", key.Widget, "widgetProperty", widgetProperty, "shape", l.shape.String())
	return l, nil
}

// RemovePropertyLink removes the link with the given key, reporting
// whether it existed.
func (s *LinkSet) RemovePropertyLink(w Widget, widgetProperty string, px *proxy.Proxy, property string, index int) bool {
	if w == nil || px == nil {
		return false
	}
	return s.Remove(s.links[keyOf(w, widgetProperty, px, property, index)])
}

// Remove removes l from the set.
func (s *LinkSet) Remove(l *Link) bool {
	if l == nil || l.set != s || s.links[l.key] != l {
		return false
	}
	l.disconnect()
	delete(s.links, l.key)
	for i, e := range s.order {
		if e == l {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *LinkSet) RemoveAllPropertyLinks() {
	for _, l := range s.order {
		l.disconnect()
	}
	s.links = make(map[Key]*Link)
	s.order = nil
}

// Len returns the number of links.
func (s *LinkSet) Len() int {
	return len(s.order)
}

// Links returns the links in the order they were added.
func (s *LinkSet) Links() []*Link {
	return append([]*Link(nil), s.order...)
}

// Link returns the link with the given key, or nil.
func (s *LinkSet) Link(key Key) *Link {
	return s.links[key]
}

func (s *LinkSet) outOfSync() []*Link {
	var out []*Link
	for _, l := range s.order {
		if l.OutOfSync() {
			out = append(out, l)
		}
	}
	return out
}

// Accept commits the widget value of every out of sync link and then
// applies each affected proxy once.
func (s *LinkSet) Accept() {
	var proxies []*proxy.Proxy
	seen := make(map[*proxy.Proxy]bool)
	for _, l := range s.outOfSync() {
		l.accept()
		if !seen[l.proxy] {
			seen[l.proxy] = true
			proxies = append(proxies, l.proxy)
		}
	}
	for _, px := range proxies {
		px.ApplyPending()
	}
	s.logger.Debug("links accepted", "proxies", len(proxies))
}

// Reset discards staged edits, restoring every out of sync widget from its
// property. Proxies are not applied.
func (s *LinkSet) Reset() {
	for _, l := range s.outOfSync() {
		l.reset()
	}
}

// SetUseStagedProperties makes widget edits write unchecked values that
// wait for Accept. It applies to every link of the set and to links added
// later.
func (s *LinkSet) SetUseStagedProperties(staged bool) {
	s.useStaged = staged
	for _, l := range s.order {
		l.useStaged = staged
	}
}

func (s *LinkSet) UseStagedProperties() bool {
	return s.useStaged
}

// SetAutoCommit controls whether committed widget edits apply the proxy's
// pending changes right away. Without it, edits stay out of sync until
// Accept.
func (s *LinkSet) SetAutoCommit(autoCommit bool) {
	s.autoCommit = autoCommit
	for _, l := range s.order {
		l.autoCommit = autoCommit
	}
}

func (s *LinkSet) AutoCommit() bool {
	return s.autoCommit
}
