// Package proxy is the remote object model that the property links engine
// binds to: proxies, their properties and the domains attached to them.
//
// Proxies
//
// A Proxy stands in for an object living in the backing system (a pipeline
// server, typically out of process). It owns an ordered list of properties.
// Writes to a property are held as pending on the proxy until ApplyPending
// pushes them to the backing system through the proxy's Session, if any.
//
// Properties
//
// Property values are vectors of elements. Every property is tagged with a
// Kind when constructed, and every element is stored in the Go type for that
// kind: float64 for KindDouble, int for KindInt, int64 for KindIdType, string
// for KindString and *Proxy for KindProxy. Coerce converts loosely typed
// values into a kind's storage type.
//
// Each property carries a second, unchecked copy of its elements. Writing
// the checked value also writes the unchecked copy, but unchecked writes leave
// the checked value alone. This is what staged editing builds on: a user
// interface can write unchecked values, let dependent domains recompute, and
// only commit to the checked value on accept.
//
// Domains
//
// Domains describe the legal values of a property. The model carries no
// static type information beyond the Kind tag, so consumers inspect the
// attached domains to decide how a property should be presented. Every domain
// reports a DomainKind, which makes that inspection a single switch.
//
// Session
//
// Session connects proxies to a backing system using framed JSON messages:
// a decimal byte count, a space, the JSON blob and a newline. Incoming
// messages are queued by a reader goroutine and only acted upon during
// Process, so that proxies and properties are never touched concurrently
// with the user interface.
package proxy
