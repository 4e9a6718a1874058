package adaptor

import "github.com/CrimsonAS/qpropertylinks/proxy"

// Mode selects the committed (Checked) or staged (Unchecked) value of a
// property.
type Mode int

const (
	Checked Mode = iota
	Unchecked
)

// Element returns element i, or nil when p is nil or i is out of range.
func Element(p *proxy.Property, i int, mode Mode) any {
	if p == nil {
		return nil
	}
	if mode == Unchecked {
		return p.UncheckedElement(i)
	}
	return p.Element(i)
}

// Elements returns a copy of all elements.
func Elements(p *proxy.Property, mode Mode) []any {
	if p == nil {
		return nil
	}
	if mode == Unchecked {
		return p.UncheckedElements()
	}
	return p.Elements()
}

// NumberOfElements returns the size of the checked or unchecked value.
func NumberOfElements(p *proxy.Property, mode Mode) int {
	if p == nil {
		return 0
	}
	if mode == Unchecked {
		return p.UncheckedNumberOfElements()
	}
	return p.NumberOfElements()
}

// SetElement converts v to the storage type of element i and writes it.
// It never grows the property; i must already be in range.
func SetElement(p *proxy.Property, i int, v any, mode Mode) bool {
	if p == nil {
		return false
	}
	cv, ok := coerceElement(p, i, v)
	if !ok {
		return false
	}
	return writeAt(p, i, cv, mode)
}

// SetElements converts every value and then replaces the whole vector,
// resizing it to len(values). Nothing is written if any value fails to
// convert.
func SetElements(p *proxy.Property, values []any, mode Mode) bool {
	if p == nil {
		return false
	}
	converted := make([]any, len(values))
	for i, v := range values {
		cv, ok := coerceElement(p, i, v)
		if !ok {
			return false
		}
		converted[i] = cv
	}
	return write(p, converted, mode)
}

// coerceElement converts v for element i of p. String elements annotated
// with a numeric element type must hold a number, which is then stored in
// its string form.
func coerceElement(p *proxy.Property, i int, v any) (any, bool) {
	if p.Kind() == proxy.KindString {
		if et := p.ElementType(i); et != proxy.KindString && et != proxy.KindUnknown {
			n, ok := proxy.Coerce(et, v)
			if !ok {
				return nil, false
			}
			return proxy.Coerce(proxy.KindString, n)
		}
	}
	return proxy.Coerce(p.Kind(), v)
}

// typedElement converts a stored element back into its element type, so
// string slots holding numbers read back as numbers.
func typedElement(p *proxy.Property, i int, v any) any {
	if p.Kind() != proxy.KindString || v == nil {
		return v
	}
	if et := p.ElementType(i); et != proxy.KindString && et != proxy.KindUnknown {
		if n, ok := proxy.Coerce(et, v); ok {
			return n
		}
	}
	return v
}

func write(p *proxy.Property, values []any, mode Mode) bool {
	if mode == Unchecked {
		if !p.SetUncheckedElements(values) {
			return false
		}
		p.UpdateDependentDomains()
		return true
	}
	return p.SetElements(values)
}

func writeAt(p *proxy.Property, i int, v any, mode Mode) bool {
	if mode == Unchecked {
		if !p.SetUncheckedElement(i, v) {
			return false
		}
		p.UpdateDependentDomains()
		return true
	}
	return p.SetElement(i, v)
}

// ensureElements grows p to at least n elements.
func ensureElements(p *proxy.Property, n int, mode Mode) {
	if mode == Unchecked {
		if p.UncheckedNumberOfElements() < n {
			p.SetUncheckedNumberOfElements(n)
		}
	} else if p.NumberOfElements() < n {
		p.SetNumberOfElements(n)
	}
}
