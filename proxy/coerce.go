package proxy

import (
	"strconv"

	"cogentcore.org/core/base/reflectx"
)

// Coerce converts v into the storage type for kind, as documented on Kind.
// Conversion is best effort: numeric strings parse into numeric kinds, bools
// become 0 and 1, and any value formats into a string. The boolean result is
// false when no reasonable conversion exists, such as a non-numeric string
// for a numeric kind.
func Coerce(kind Kind, v any) (any, bool) {
	switch kind {
	case KindDouble:
		if v == nil {
			return nil, false
		}
		f, err := reflectx.ToFloat(v)
		if err != nil {
			return nil, false
		}
		return f, true

	case KindInt, KindIdType:
		if v == nil {
			return nil, false
		}
		i, err := reflectx.ToInt(v)
		if err != nil {
			// "2.0" and similar arrive from text widgets
			f, ferr := reflectx.ToFloat(v)
			if ferr != nil {
				return nil, false
			}
			i = int64(f)
		}
		if kind == KindInt {
			return int(i), true
		}
		return i, true

	case KindString:
		switch vt := v.(type) {
		case nil:
			return "", true
		case string:
			return vt, true
		case float64:
			return strconv.FormatFloat(vt, 'g', -1, 64), true
		case float32:
			return strconv.FormatFloat(float64(vt), 'g', -1, 32), true
		case *Proxy:
			if vt == nil {
				return "", true
			}
			return vt.Identifier(), true
		}
		return reflectx.ToString(v), true

	case KindProxy:
		if v == nil {
			return (*Proxy)(nil), true
		}
		px, ok := v.(*Proxy)
		return px, ok
	}
	return nil, false
}

// zero returns the value new elements of kind are initialized with.
func zero(kind Kind) any {
	switch kind {
	case KindDouble:
		return float64(0)
	case KindInt:
		return int(0)
	case KindIdType:
		return int64(0)
	case KindString:
		return ""
	case KindProxy:
		return (*Proxy)(nil)
	}
	return nil
}
