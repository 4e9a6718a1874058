package widget

import (
	"encoding"
	"fmt"
	"reflect"

	"cogentcore.org/core/base/reflectx"
)

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// convertValue converts in to type t. Values of the right type are used
// directly; strings go through encoding.TextUnmarshaler if t implements it;
// basic kinds are converted robustly, and slices element-wise.
func convertValue(in any, t reflect.Type) (reflect.Value, error) {
	v := reflect.ValueOf(in)
	if !v.IsValid() {
		// Zero value, argument is nil
		return reflect.Zero(t), nil
	}
	if v.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	}

	if v.Kind() == reflect.String {
		// Attempt to unmarshal via TextUnmarshaler, directly or by pointer
		if reflect.PtrTo(t).Implements(textUnmarshalerType) {
			out := reflect.New(t)
			if err := out.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(v.String())); err != nil {
				return reflect.Value{}, fmt.Errorf("unmarshal into %s failed: %w", t, err)
			}
			return out.Elem(), nil
		}
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(reflectx.ToString(in)).Convert(t), nil

	case reflect.Bool:
		if b, err := reflectx.ToBool(in); err == nil {
			return reflect.ValueOf(b).Convert(t), nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if i, err := reflectx.ToInt(in); err == nil {
			return reflect.ValueOf(i).Convert(t), nil
		} else if f, err := reflectx.ToFloat(in); err == nil {
			return reflect.ValueOf(int64(f)).Convert(t), nil
		}

	case reflect.Float32, reflect.Float64:
		if f, err := reflectx.ToFloat(in); err == nil {
			return reflect.ValueOf(f).Convert(t), nil
		}

	case reflect.Slice:
		if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
			out := reflect.MakeSlice(t, v.Len(), v.Len())
			for i := 0; i < v.Len(); i++ {
				elem, err := convertValue(v.Index(i).Interface(), t.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
				}
				out.Index(i).Set(elem)
			}
			return out, nil
		}
	}

	if v.Type().ConvertibleTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("wrong type; expected %s, provided %s", t, v.Type())
}
