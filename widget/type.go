package widget

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// typeInfo is the parsed representation of a struct embedding Object.
type typeInfo struct {
	Name       string
	Properties map[string]string
	Signals    map[string][]string

	propertyFieldIndex map[string][]int
	signalFieldIndex   map[string][]int
}

var (
	knownTypeMu   sync.Mutex
	knownTypeInfo = make(map[reflect.Type]*typeInfo)
)

var objectInterfaceType = reflect.TypeOf((*Object)(nil)).Elem()

func typeIsObject(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	f, ok := t.FieldByName("Object")
	return ok && f.Anonymous && f.Type == objectInterfaceType
}

func typeShouldIgnoreField(field reflect.StructField) bool {
	if field.PkgPath != "" || field.Tag.Get("widget") == "-" {
		// Unexported or ignored field
		return true
	} else if field.Type.Kind() != reflect.Func && field.Tag.Get("json") == "-" {
		return true
	} else if field.Name == "Object" {
		return true
	}
	return false
}

func typeFieldName(field reflect.StructField) string {
	name := field.Name
	if len(name) > 0 {
		name = strings.ToLower(string(name[0])) + name[1:]
	}
	if field.Type.Kind() != reflect.Func {
		if tag := field.Tag.Get("json"); len(tag) > 0 {
			tags := strings.Split(tag, ",")
			if len(tags) > 0 && len(tags[0]) > 0 {
				name = tags[0]
			}
		}
	}
	return name
}

// ChangedSignal returns the name of the change signal of a property.
func ChangedSignal(property string) string {
	return property + "Changed"
}

func typeInfoTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return typeInfoTypeName(t.Elem())
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "double"
	case reflect.String:
		return "string"
	case reflect.Array, reflect.Slice:
		return "array"
	case reflect.Map:
		return "map"
	case reflect.Struct:
		if typeIsObject(t) {
			return "object"
		}
		return "map"
	default:
		return "var"
	}
}

func parseType(t reflect.Type) (*typeInfo, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	knownTypeMu.Lock()
	defer knownTypeMu.Unlock()
	if ti, exists := knownTypeInfo[t]; exists {
		return ti, nil
	}

	if !typeIsObject(t) {
		return nil, fmt.Errorf("type '%s' is not a widget; it must embed widget.Object", t.Name())
	}

	ti := &typeInfo{
		Name:               t.Name(),
		Properties:         make(map[string]string),
		Signals:            make(map[string][]string),
		propertyFieldIndex: make(map[string][]int),
		signalFieldIndex:   make(map[string][]int),
	}

	if err := typeFieldsToTypeInfo(ti, t, []int{}); err != nil {
		return nil, err
	}

	// Create change signals for all properties, adopting explicit ones if they exist
	for name := range ti.Properties {
		signalName := ChangedSignal(name)
		if params, exists := ti.Signals[signalName]; exists {
			if len(params) > 0 {
				return nil, fmt.Errorf("signal '%s' is a property change signal, but has %d parameters", signalName, len(params))
			}
		} else {
			ti.Signals[signalName] = []string{}
		}
	}

	knownTypeInfo[t] = ti
	return ti, nil
}

func typeFieldsToTypeInfo(ti *typeInfo, t reflect.Type, index []int) error {
	var anonStructs []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if typeShouldIgnoreField(field) {
			continue
		} else if field.Anonymous {
			// Recurse into these at the end for breadth-first
			anonStructs = append(anonStructs, field)
			continue
		}
		name := typeFieldName(field)
		fieldIndex := append(append([]int{}, index...), field.Index...)

		// Signals are func fields. Parameters must be named in the widget
		// tag so the signal can be described.
		if field.Type.Kind() == reflect.Func {
			if field.Type.NumOut() > 0 {
				return fmt.Errorf("signal '%s' must not return values", name)
			}
			paramNames := strings.Split(field.Tag.Get("widget"), ",")
			if field.Type.NumIn() > 0 && len(paramNames) != field.Type.NumIn() {
				return fmt.Errorf("signal '%s' has %d parameters, but names %d. All parameters must be named in the `widget:` tag", name, field.Type.NumIn(), len(paramNames))
			}

			var params []string
			for p := 0; p < field.Type.NumIn(); p++ {
				params = append(params, typeInfoTypeName(field.Type.In(p))+" "+paramNames[p])
			}
			ti.Signals[name] = params
			ti.signalFieldIndex[name] = fieldIndex
		} else {
			if _, exists := ti.Properties[name]; exists {
				// Shallower fields shadow embedded ones
				continue
			}
			ti.Properties[name] = typeInfoTypeName(field.Type)
			ti.propertyFieldIndex[name] = fieldIndex
		}
	}

	for _, ast := range anonStructs {
		at := ast.Type
		if at.Kind() == reflect.Ptr {
			// Embedded pointers would need allocation on every access
			continue
		}
		if at.Kind() != reflect.Struct {
			continue
		}
		if err := typeFieldsToTypeInfo(ti, at, append(append([]int{}, index...), ast.Index...)); err != nil {
			return err
		}
	}
	return nil
}
