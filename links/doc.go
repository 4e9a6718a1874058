// Package links binds widget properties to proxy properties.
//
// A Link connects one property of a Widget to one proxy property, or to a
// single element of it. Links are created through a LinkSet, which pushes
// the proxy's value into the widget right away and then keeps both sides
// in sync: remote changes are pushed into the widget, and the widget's
// change signal writes its value back.
//
// How widget edits reach the proxy depends on the set's mode. By default
// edits are committed to the property immediately and the proxy's pending
// changes are applied. With staged properties the edit is only written to
// the unchecked value and the link stays out of sync until Accept commits
// it, or Reset discards it.
//
// Propagation is synchronous. A Guard shared by all link sets (unless one
// is injected with WithGuard) suppresses the callbacks a propagation would
// otherwise trigger in the opposite direction, so a widget write does not
// echo back into the widget that caused it.
package links
