// Package adaptor interprets proxy properties for user interfaces.
//
// The remote property model carries no static type information, so the
// functions here inspect a property's Kind and attached domains to decide
// what kind of value it holds (Classify), and convert between that and the
// loosely typed values used by widgets.
//
// Every getter and setter takes a Mode. Checked reads and writes address the
// committed value of a property. Unchecked ones address the staged value;
// unchecked setters also ask dependent domains to recompute.
//
// Malformed input is not an error here. A setter that cannot convert its
// value, or is given a name that is not in the property's domain, returns
// false and leaves the property untouched.
package adaptor
