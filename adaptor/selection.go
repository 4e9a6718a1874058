package adaptor

import (
	"strconv"

	"cogentcore.org/core/base/reflectx"

	"github.com/CrimsonAS/qpropertylinks/proxy"
)

// Pair is one entry of a selection: a name from the property's domain and
// its value. For boolean-storage selections Value is a bool.
type Pair struct {
	Name  string
	Value any
}

// Selections come in two storage layouts. Pair storage keeps flattened
// (name, value) pairs and is used by properties with a string list range
// domain. Boolean storage keeps only the underlying values that are on, and
// is used by repeatable properties with enumeration or string list domains.
type selectionStorage int

const (
	noStorage selectionStorage = iota
	pairStorage
	boolStorage
)

func storageOf(p *proxy.Property) (selectionStorage, []string) {
	if p == nil {
		return noStorage, nil
	}
	if d, ok := p.FindDomain(proxy.DomainStringListRange).(*proxy.StringListRangeDomain); ok && p.Kind() == proxy.KindString {
		return pairStorage, d.Strings()
	}
	if !p.Repeatable() {
		return noStorage, nil
	}
	if d, ok := p.FindDomain(proxy.DomainEnumeration).(*proxy.EnumerationDomain); ok {
		names := make([]string, 0, len(d.Entries()))
		for _, e := range d.Entries() {
			names = append(names, e.Text)
		}
		return boolStorage, names
	}
	if d := stringListDomain(p); d != nil {
		return boolStorage, d.Strings()
	}
	return noStorage, nil
}

// Selection returns one pair per domain name that has a value, in domain
// order. Boolean-storage selections report every domain name.
func Selection(p *proxy.Property, mode Mode) []Pair {
	storage, names := storageOf(p)
	var out []Pair
	for _, name := range names {
		if pr, ok := selectionPair(p, storage, name, mode); ok {
			out = append(out, pr)
		}
	}
	return out
}

// SelectionAt returns the pair for the i-th domain name. For pair storage
// without a stored value, Value is nil.
func SelectionAt(p *proxy.Property, i int, mode Mode) (Pair, bool) {
	storage, names := storageOf(p)
	if i < 0 || i >= len(names) {
		return Pair{}, false
	}
	if pr, ok := selectionPair(p, storage, names[i], mode); ok {
		return pr, true
	}
	return Pair{Name: names[i]}, true
}

// SelectionDomain lists the names a selection may contain.
func SelectionDomain(p *proxy.Property) []string {
	_, names := storageOf(p)
	return names
}

func selectionPair(p *proxy.Property, storage selectionStorage, name string, mode Mode) (Pair, bool) {
	values := Elements(p, mode)
	switch storage {
	case pairStorage:
		for i := 0; i+1 < len(values); i += 2 {
			if values[i] == name {
				return Pair{name, pairValue(p, i+1, values[i+1])}, true
			}
		}
	case boolStorage:
		underlying, ok := selectionValue(p, name)
		if !ok {
			return Pair{}, false
		}
		for _, v := range values {
			if v == underlying {
				return Pair{name, true}, true
			}
		}
		return Pair{name, false}, true
	}
	return Pair{}, false
}

// pairValue reads back a stored pair value. Integer strings read back as
// numbers, whether or not the value slot declares a numeric element type.
func pairValue(p *proxy.Property, i int, v any) any {
	v = typedElement(p, i, v)
	if s, ok := v.(string); ok {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return v
}

// selectionValue maps a domain name to the element stored when it is on.
func selectionValue(p *proxy.Property, name string) (any, bool) {
	if d, ok := p.FindDomain(proxy.DomainEnumeration).(*proxy.EnumerationDomain); ok {
		value, ok := d.Value(name)
		if !ok {
			return nil, false
		}
		return proxy.Coerce(p.Kind(), value)
	}
	if d := stringListDomain(p); d != nil && d.Contains(name) {
		return proxy.Coerce(p.Kind(), name)
	}
	return nil, false
}

// SetSelection writes pairs in one update. For pair storage, names already
// stored are updated in place, new names fill the first empty pair and then
// append. For boolean storage the result holds exactly the names whose
// value is true. Names outside the domain are skipped.
func SetSelection(p *proxy.Property, pairs []Pair, mode Mode) bool {
	storage, _ := storageOf(p)
	switch storage {
	case pairStorage:
		return write(p, mergePairs(p, Elements(p, mode), pairs), mode)
	case boolStorage:
		var on []any
		for _, pr := range pairs {
			b, err := reflectx.ToBool(pr.Value)
			if err != nil || !b {
				continue
			}
			v, ok := selectionValue(p, pr.Name)
			if !ok || containsValue(on, v) {
				continue
			}
			on = append(on, v)
		}
		return write(p, on, mode)
	}
	return false
}

// SetSelectionAt changes a single entry, leaving the others as they are.
func SetSelectionAt(p *proxy.Property, pr Pair, mode Mode) bool {
	storage, _ := storageOf(p)
	switch storage {
	case pairStorage:
		return write(p, mergePairs(p, Elements(p, mode), []Pair{pr}), mode)
	case boolStorage:
		b, err := reflectx.ToBool(pr.Value)
		if err != nil {
			return false
		}
		v, ok := selectionValue(p, pr.Name)
		if !ok {
			return false
		}
		values := Elements(p, mode)
		out := make([]any, 0, len(values)+1)
		for _, e := range values {
			if e != v {
				out = append(out, e)
			}
		}
		if b {
			out = append(out, v)
		}
		return write(p, out, mode)
	}
	return false
}

func mergePairs(p *proxy.Property, values []any, pairs []Pair) []any {
	d, _ := p.FindDomain(proxy.DomainStringListRange).(*proxy.StringListRangeDomain)
	if len(values)%2 == 1 {
		values = append(values, "")
	}

pairs:
	for _, pr := range pairs {
		if d == nil || !d.Contains(pr.Name) {
			continue
		}
		value := pr.Value
		if b, isBool := value.(bool); isBool {
			value = 0
			if b {
				value = 1
			}
		}
		v, ok := coerceElement(p, 1, value)
		if !ok {
			continue
		}
		for i := 0; i < len(values); i += 2 {
			if values[i] == pr.Name {
				values[i+1] = v
				continue pairs
			}
		}
		for i := 0; i < len(values); i += 2 {
			if values[i] == "" {
				values[i], values[i+1] = pr.Name, v
				continue pairs
			}
		}
		values = append(values, pr.Name, v)
	}
	return values
}

func containsValue(values []any, v any) bool {
	for _, e := range values {
		if e == v {
			return true
		}
	}
	return false
}
