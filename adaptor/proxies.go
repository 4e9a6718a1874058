package adaptor

import (
	"strconv"

	"github.com/CrimsonAS/qpropertylinks/proxy"
)

// Proxy returns the first proxy referenced by p.
func Proxy(p *proxy.Property, mode Mode) *proxy.Proxy {
	px, _ := Element(p, 0, mode).(*proxy.Proxy)
	return px
}

// SetProxy makes p reference px alone. Proxy selection properties only
// accept members of their proxy list domain; nil is always accepted.
func SetProxy(p *proxy.Property, px *proxy.Proxy, mode Mode) bool {
	if p == nil || p.Kind() != proxy.KindProxy {
		return false
	}
	if d, ok := p.FindDomain(proxy.DomainProxyList).(*proxy.ProxyListDomain); ok && px != nil && !d.Contains(px) {
		return false
	}
	if p.Repeatable() {
		return write(p, []any{px}, mode)
	}
	return setFirst(p, 0, px, mode)
}

// Proxies returns every proxy referenced by a proxy list property.
func Proxies(p *proxy.Property, mode Mode) []*proxy.Proxy {
	var out []*proxy.Proxy
	for _, v := range Elements(p, mode) {
		if px, ok := v.(*proxy.Proxy); ok && px != nil {
			out = append(out, px)
		}
	}
	return out
}

func SetProxies(p *proxy.Property, proxies []*proxy.Proxy, mode Mode) bool {
	if p == nil || p.Kind() != proxy.KindProxy {
		return false
	}
	values := make([]any, len(proxies))
	for i, px := range proxies {
		values[i] = px
	}
	return write(p, values, mode)
}

// ProxyListDomain returns the proxies a proxy selection property may
// reference.
func ProxyListDomain(p *proxy.Property) []*proxy.Proxy {
	if p == nil {
		return nil
	}
	if d, ok := p.FindDomain(proxy.DomainProxyList).(*proxy.ProxyListDomain); ok {
		return d.Proxies()
	}
	return nil
}

// FileList returns the file names held by p.
func FileList(p *proxy.Property, mode Mode) []string {
	var out []string
	for _, v := range Elements(p, mode) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SetFileList replaces the file names. Non-repeatable properties keep
// their size and only take the first name.
func SetFileList(p *proxy.Property, files []string, mode Mode) bool {
	if p == nil || p.Kind() != proxy.KindString {
		return false
	}
	if !p.Repeatable() {
		if len(files) == 0 {
			return false
		}
		return setFirst(p, 0, files[0], mode)
	}
	values := make([]any, len(files))
	for i, f := range files {
		values[i] = f
	}
	return write(p, values, mode)
}

const (
	fieldAssociation = 3
	fieldArrayName   = 4
)

// Field associations as stored in an input array property.
var associationNames = []string{
	"POINTS",
	"CELLS",
	"NONE",
	"POINTS_THEN_CELLS",
	"VERTICES",
	"EDGES",
	"ROWS",
}

// FieldSelectionMode returns the attribute association of an input array
// property, such as "POINTS" or "CELLS".
func FieldSelectionMode(p *proxy.Property, mode Mode) string {
	s, _ := Element(p, fieldAssociation, mode).(string)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n >= len(associationNames) {
		return ""
	}
	return associationNames[n]
}

func SetFieldSelectionMode(p *proxy.Property, association string, mode Mode) bool {
	if Classify(p) != ShapeFieldSelection {
		return false
	}
	for i, name := range associationNames {
		if name == association {
			return SetElement(p, fieldAssociation, strconv.Itoa(i), mode)
		}
	}
	return false
}

// FieldSelectionScalar returns the selected array name.
func FieldSelectionScalar(p *proxy.Property, mode Mode) string {
	s, _ := Element(p, fieldArrayName, mode).(string)
	return s
}

// SetFieldSelectionScalar selects an array, which must be listed by the
// array list domain.
func SetFieldSelectionScalar(p *proxy.Property, name string, mode Mode) bool {
	if Classify(p) != ShapeFieldSelection {
		return false
	}
	d, _ := p.FindDomain(proxy.DomainArrayList).(*proxy.ArrayListDomain)
	if d == nil || !d.Contains(name) {
		return false
	}
	return SetElement(p, fieldArrayName, name, mode)
}

// FieldSelectionScalarDomain lists the selectable array names.
func FieldSelectionScalarDomain(p *proxy.Property) []string {
	if p == nil {
		return nil
	}
	if d, ok := p.FindDomain(proxy.DomainArrayList).(*proxy.ArrayListDomain); ok {
		return d.Strings()
	}
	return nil
}
