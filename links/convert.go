package links

import (
	"reflect"

	"cogentcore.org/core/base/reflectx"

	"github.com/CrimsonAS/qpropertylinks/adaptor"
	"github.com/CrimsonAS/qpropertylinks/proxy"
)

// Element positions of an input array property.
const (
	fieldAssociationIndex = 3
	fieldArrayIndex       = 4
)

// remoteValue reads the linked value in the form widgets expect for the
// link's shape. A negative index addresses the whole property.
func remoteValue(p *proxy.Property, shape adaptor.Shape, index int, mode adaptor.Mode) any {
	switch shape {
	case adaptor.ShapeEnumeration:
		return adaptor.Enumeration(p, mode)

	case adaptor.ShapeSelection:
		if index >= 0 {
			pr, _ := adaptor.SelectionAt(p, index, mode)
			return pr
		}
		return adaptor.Selection(p, mode)

	case adaptor.ShapeProxy, adaptor.ShapeProxySelection:
		return adaptor.Proxy(p, mode)

	case adaptor.ShapeProxyList:
		return adaptor.Proxies(p, mode)

	case adaptor.ShapeFileList:
		if index >= 0 {
			return adaptor.Element(p, index, mode)
		} else if !p.Repeatable() {
			files := adaptor.FileList(p, mode)
			if len(files) == 0 {
				return ""
			}
			return files[0]
		}
		return adaptor.FileList(p, mode)

	case adaptor.ShapeFieldSelection:
		switch index {
		case fieldAssociationIndex:
			return adaptor.FieldSelectionMode(p, mode)
		case fieldArrayIndex, -1:
			return adaptor.FieldSelectionScalar(p, mode)
		}
		return adaptor.Element(p, index, mode)

	case adaptor.ShapeSingleElement:
		if index < 0 {
			index = 0
		}
		return adaptor.Element(p, index, mode)
	}

	if index >= 0 {
		return adaptor.Element(p, index, mode)
	}
	return adaptor.Elements(p, mode)
}

// writeRemote writes a widget value into the linked property, returning
// false when the value was declined.
func writeRemote(p *proxy.Property, shape adaptor.Shape, index int, v any, mode adaptor.Mode) bool {
	switch shape {
	case adaptor.ShapeEnumeration:
		return adaptor.SetEnumeration(p, v, mode)

	case adaptor.ShapeSelection:
		if index >= 0 {
			pr, ok := toPair(v)
			return ok && adaptor.SetSelectionAt(p, pr, mode)
		}
		pairs, ok := toPairs(v)
		return ok && adaptor.SetSelection(p, pairs, mode)

	case adaptor.ShapeProxy, adaptor.ShapeProxySelection:
		px, ok := v.(*proxy.Proxy)
		if !ok && v != nil {
			return false
		}
		return adaptor.SetProxy(p, px, mode)

	case adaptor.ShapeProxyList:
		var proxies []*proxy.Proxy
		for _, e := range toSlice(v) {
			px, ok := e.(*proxy.Proxy)
			if !ok {
				return false
			}
			proxies = append(proxies, px)
		}
		return adaptor.SetProxies(p, proxies, mode)

	case adaptor.ShapeFileList:
		if index >= 0 {
			return adaptor.SetElement(p, index, v, mode)
		}
		var files []string
		for _, e := range toSlice(v) {
			files = append(files, reflectx.ToString(e))
		}
		return adaptor.SetFileList(p, files, mode)

	case adaptor.ShapeFieldSelection:
		switch index {
		case fieldAssociationIndex:
			return adaptor.SetFieldSelectionMode(p, reflectx.ToString(v), mode)
		case fieldArrayIndex, -1:
			return adaptor.SetFieldSelectionScalar(p, reflectx.ToString(v), mode)
		}
		return adaptor.SetElement(p, index, v, mode)

	case adaptor.ShapeSingleElement:
		if index < 0 {
			index = 0
		}
		return adaptor.SetElement(p, index, v, mode)
	}

	if index >= 0 {
		return adaptor.SetElement(p, index, v, mode)
	}
	return adaptor.SetElements(p, toSlice(v), mode)
}

// toSlice spreads slices and arrays into their elements. Other values
// become a one element slice, nil an empty one.
func toSlice(v any) []any {
	if v == nil {
		return []any{}
	}
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func toPair(v any) (adaptor.Pair, bool) {
	switch pv := v.(type) {
	case adaptor.Pair:
		return pv, true
	case *adaptor.Pair:
		if pv != nil {
			return *pv, true
		}
		return adaptor.Pair{}, false
	}
	s := toSlice(v)
	if len(s) != 2 {
		return adaptor.Pair{}, false
	}
	name, ok := s[0].(string)
	return adaptor.Pair{Name: name, Value: s[1]}, ok
}

func toPairs(v any) ([]adaptor.Pair, bool) {
	if pairs, ok := v.([]adaptor.Pair); ok {
		return pairs, true
	}
	var out []adaptor.Pair
	for _, e := range toSlice(v) {
		pr, ok := toPair(e)
		if !ok {
			return nil, false
		}
		out = append(out, pr)
	}
	return out, true
}
