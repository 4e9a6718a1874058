package adaptor

import "github.com/CrimsonAS/qpropertylinks/proxy"

// Shape is the semantic category of a property.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeProxy
	ShapeProxyList
	ShapeProxySelection
	ShapeFieldSelection
	ShapeSelection
	ShapeEnumeration
	ShapeSingleElement
	ShapeMultipleElements
	ShapeFileList
	ShapeCompositeTree
	ShapeSIL
)

var shapeNames = []string{
	"Unknown",
	"Proxy",
	"ProxyList",
	"ProxySelection",
	"FieldSelection",
	"Selection",
	"Enumeration",
	"SingleElement",
	"MultipleElements",
	"FileList",
	"CompositeTree",
	"SIL",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return shapeNames[0]
	}
	return shapeNames[s]
}

// fieldSelectionElements is the layout of an input array property:
// index, port, connection, field association and array name.
const fieldSelectionElements = 5

// Classify returns the shape of p. It neither modifies p nor depends on
// anything but p's kind, size and domains. ShapeUnknown is returned for nil
// or unclassifiable properties.
func Classify(p *proxy.Property) Shape {
	if p == nil {
		return ShapeUnknown
	}

	if p.Kind() == proxy.KindProxy {
		if p.FindDomain(proxy.DomainProxyList) != nil {
			return ShapeProxySelection
		} else if p.Repeatable() {
			return ShapeProxyList
		}
		return ShapeProxy
	}

	var has [proxy.DomainSIL + 1]bool
	for _, d := range p.Domains() {
		if k := d.Kind(); k >= 0 && int(k) < len(has) {
			has[k] = true
		}
	}
	stringList := has[proxy.DomainStringList] || has[proxy.DomainArrayList]

	switch {
	case has[proxy.DomainFileList]:
		return ShapeFileList
	case has[proxy.DomainCompositeTree]:
		return ShapeCompositeTree
	case has[proxy.DomainSIL]:
		return ShapeSIL
	case has[proxy.DomainStringListRange],
		p.Repeatable() && (stringList || has[proxy.DomainEnumeration]):
		return ShapeSelection
	case has[proxy.DomainArrayList] && p.Kind() == proxy.KindString && p.NumberOfElements() == fieldSelectionElements:
		return ShapeFieldSelection
	case has[proxy.DomainBoolean], has[proxy.DomainEnumeration], has[proxy.DomainProxyGroup], stringList:
		return ShapeEnumeration
	}

	if n := p.NumberOfElements(); n > 1 || p.Repeatable() {
		return ShapeMultipleElements
	} else if n == 1 {
		return ShapeSingleElement
	}
	return ShapeUnknown
}
