package adaptor

import (
	"strings"

	"cogentcore.org/core/base/reflectx"

	"github.com/CrimsonAS/qpropertylinks/proxy"
)

// Enumeration returns the current value of an enumeration-shaped property
// as a widget would show it: a bool for boolean domains, the entry label
// for enumerations, the string for string lists and the proxy name for
// proxy groups. It returns nil when no domain resolves the value.
func Enumeration(p *proxy.Property, mode Mode) any {
	if p == nil {
		return nil
	}

	if p.FindDomain(proxy.DomainBoolean) != nil {
		v, ok := proxy.Coerce(proxy.KindInt, Element(p, 0, mode))
		if !ok {
			return nil
		}
		return v.(int) != 0
	}

	if d, ok := p.FindDomain(proxy.DomainEnumeration).(*proxy.EnumerationDomain); ok {
		v, ok := proxy.Coerce(proxy.KindInt, Element(p, 0, mode))
		if !ok {
			return nil
		}
		if label, ok := d.Label(v.(int)); ok {
			return label
		}
		return nil
	}

	if stringListDomain(p) != nil {
		s, _ := Element(p, stringSlot(p), mode).(string)
		return arrayLabel(p, s)
	}

	if d, ok := p.FindDomain(proxy.DomainProxyGroup).(*proxy.ProxyGroupDomain); ok {
		px, _ := Element(p, 0, mode).(*proxy.Proxy)
		if name, ok := d.NameOf(px); ok {
			return name
		}
	}
	return nil
}

// SetEnumeration writes v through the first resolving domain. Labels and
// strings must match a domain entry exactly; anything else is a no-op
// returning false.
func SetEnumeration(p *proxy.Property, v any, mode Mode) bool {
	if p == nil {
		return false
	}

	if p.FindDomain(proxy.DomainBoolean) != nil {
		b, err := reflectx.ToBool(v)
		if err != nil {
			return false
		}
		n := 0
		if b {
			n = 1
		}
		return setFirst(p, 0, n, mode)
	}

	if d, ok := p.FindDomain(proxy.DomainEnumeration).(*proxy.EnumerationDomain); ok {
		label, ok := v.(string)
		if !ok {
			return false
		}
		value, ok := d.Value(label)
		if !ok {
			return false
		}
		return setFirst(p, 0, value, mode)
	}

	if d := stringListDomain(p); d != nil {
		s, ok := v.(string)
		if ok && !d.Contains(s) {
			s = strings.TrimSuffix(s, partialSuffix)
		}
		if !ok || !d.Contains(s) {
			return false
		}
		return setFirst(p, stringSlot(p), s, mode)
	}

	if d, ok := p.FindDomain(proxy.DomainProxyGroup).(*proxy.ProxyGroupDomain); ok {
		var px *proxy.Proxy
		switch vt := v.(type) {
		case string:
			px = d.ProxyByName(vt)
		case *proxy.Proxy:
			if _, ok := d.NameOf(vt); ok {
				px = vt
			}
		}
		if px == nil {
			return false
		}
		return setFirst(p, 0, px, mode)
	}
	return false
}

// EnumerationDomain lists the values SetEnumeration accepts, in domain
// order. Partial arrays carry a " (partial)" suffix.
func EnumerationDomain(p *proxy.Property) []any {
	if p == nil {
		return nil
	}

	if p.FindDomain(proxy.DomainBoolean) != nil {
		return []any{false, true}
	}

	if d, ok := p.FindDomain(proxy.DomainEnumeration).(*proxy.EnumerationDomain); ok {
		var out []any
		for _, e := range d.Entries() {
			out = append(out, e.Text)
		}
		return out
	}

	if d, ok := p.FindDomain(proxy.DomainArrayList).(*proxy.ArrayListDomain); ok {
		var out []any
		for _, a := range d.Arrays() {
			out = append(out, arrayLabel(p, a.Name))
		}
		return out
	}

	if d, ok := p.FindDomain(proxy.DomainStringList).(*proxy.StringListDomain); ok {
		var out []any
		for _, s := range d.Strings() {
			out = append(out, s)
		}
		return out
	}

	if d, ok := p.FindDomain(proxy.DomainProxyGroup).(*proxy.ProxyGroupDomain); ok {
		var out []any
		for _, np := range d.Proxies() {
			out = append(out, np.Name)
		}
		return out
	}
	return nil
}

const partialSuffix = " (partial)"

// arrayLabel decorates the names of arrays only present on some blocks.
func arrayLabel(p *proxy.Property, name string) string {
	d, ok := p.FindDomain(proxy.DomainArrayList).(*proxy.ArrayListDomain)
	if !ok {
		return name
	}
	for _, a := range d.Arrays() {
		if a.Name == name && a.Partial {
			return name + partialSuffix
		}
	}
	return name
}

// stringDomain is satisfied by StringListDomain and ArrayListDomain.
type stringDomain interface {
	Strings() []string
	Contains(s string) bool
}

func stringListDomain(p *proxy.Property) stringDomain {
	if d, ok := p.FindDomain(proxy.DomainStringList).(*proxy.StringListDomain); ok {
		return d
	}
	if d, ok := p.FindDomain(proxy.DomainArrayList).(*proxy.ArrayListDomain); ok {
		return d
	}
	return nil
}

// stringSlot returns the first element index typed as a string. Input array
// properties keep their array name after a run of numeric elements.
func stringSlot(p *proxy.Property) int {
	n := p.NumberOfElements()
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if p.ElementType(i) == proxy.KindString {
			return i
		}
	}
	return 0
}

func setFirst(p *proxy.Property, i int, v any, mode Mode) bool {
	ensureElements(p, i+1, mode)
	return SetElement(p, i, v, mode)
}
