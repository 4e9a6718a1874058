package links

// Guard suppresses reentrant propagation. While a propagation started by a
// link is in flight, widget changes are not written back, and the source
// link does not receive its own remote change.
//
// A Guard is not safe for concurrent use. Link sets touching the same
// proxies must share one.
type Guard struct {
	active bool
	source *Link
}

func NewGuard() *Guard {
	return &Guard{}
}

var defaultGuard = NewGuard()

// DefaultGuard returns the guard used by link sets created without
// WithGuard.
func DefaultGuard() *Guard {
	return defaultGuard
}

// Active reports whether a propagation is in flight.
func (g *Guard) Active() bool {
	return g.active
}

// Source returns the link whose propagation is in flight, or nil.
func (g *Guard) Source() *Link {
	return g.source
}

// run calls fn as a propagation started by source. Nested calls run as
// part of the outer propagation.
func (g *Guard) run(source *Link, fn func()) {
	if g.active {
		fn()
		return
	}
	g.active, g.source = true, source
	defer func() { g.active, g.source = false, nil }()
	fn()
}
