package proxy

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var ErrUnknownKind = errors.New("unknown kind")

// Definitions is the document format for proxy definitions:
//
//	proxies:
//	  - group: filters
//	    name: Threshold
//	    properties:
//	      - name: Scalars
//	        kind: string
//	        element_types: [int, int, int, int, string]
//	        default: [0, 0, 0, 0, ""]
//	        domains:
//	          - kind: array_list
//	            arrays: [{name: Temp}, {name: Pres, partial: true}]
type Definitions struct {
	Proxies []Definition `yaml:"proxies"`
}

// Definition describes a proxy and its properties.
type Definition struct {
	Group      string               `yaml:"group"`
	Name       string               `yaml:"name"`
	Properties []PropertyDefinition `yaml:"properties"`
}

// PropertyDefinition describes one property. Domains are kept as generic
// maps, because the accepted keys depend on each domain's kind.
type PropertyDefinition struct {
	Name               string           `yaml:"name"`
	Kind               string           `yaml:"kind"`
	Repeatable         bool             `yaml:"repeatable"`
	ElementsPerCommand int              `yaml:"elements_per_command"`
	ElementTypes       []string         `yaml:"element_types"`
	Default            []any            `yaml:"default"`
	Domains            []map[string]any `yaml:"domains"`
}

// LoadDefinitions decodes a definitions document.
func LoadDefinitions(r io.Reader) ([]Definition, error) {
	var doc Definitions
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding proxy definitions: %w", err)
	}
	return doc.Proxies, nil
}

// LoadDefinitionsFile decodes the definitions document at path.
func LoadDefinitionsFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDefinitions(f)
}

// New creates a proxy from the definition.
func (d Definition) New() (*Proxy, error) {
	px := NewProxy(d.Group, d.Name)
	for _, pd := range d.Properties {
		prop, err := pd.New()
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", d.Group, d.Name, err)
		}
		if err := px.AddProperty(prop); err != nil {
			return nil, fmt.Errorf("%s/%s: %w", d.Group, d.Name, err)
		}
	}
	return px, nil
}

// New creates a property from the definition.
func (d PropertyDefinition) New() (*Property, error) {
	kind := ParseKind(d.Kind)
	if kind == KindUnknown {
		return nil, fmt.Errorf("property %s: %w %q", d.Name, ErrUnknownKind, d.Kind)
	}

	var opts []PropertyOption
	if d.Repeatable {
		opts = append(opts, Repeatable())
	}
	if d.ElementsPerCommand > 0 {
		opts = append(opts, ElementsPerCommand(d.ElementsPerCommand))
	}
	if len(d.ElementTypes) > 0 {
		types := make([]Kind, len(d.ElementTypes))
		for i, t := range d.ElementTypes {
			if types[i] = ParseKind(t); types[i] == KindUnknown {
				return nil, fmt.Errorf("property %s: element type: %w %q", d.Name, ErrUnknownKind, t)
			}
		}
		opts = append(opts, ElementTypes(types...))
	}
	if len(d.Default) > 0 {
		opts = append(opts, Default(d.Default...))
	}
	for i, raw := range d.Domains {
		domain, err := newDomain(raw)
		if err != nil {
			return nil, fmt.Errorf("property %s: domain %d: %w", d.Name, i, err)
		}
		opts = append(opts, WithDomain(domain))
	}
	return NewProperty(d.Name, kind, opts...), nil
}

type stringsPayload struct {
	Strings []string `yaml:"strings"`
}

type compositeTreePayload struct {
	Mode        string           `yaml:"mode"`
	Information *DataInformation `yaml:"information"`
}

// newDomain builds a domain from its definition map. Keys other than those
// accepted by the domain's kind are an error.
func newDomain(raw map[string]any) (Domain, error) {
	kindName, _ := raw["kind"].(string)
	name, _ := raw["name"].(string)
	payload := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "kind" && k != "name" {
			payload[k] = v
		}
	}

	switch kind := ParseDomainKind(kindName); kind {
	case DomainBoolean:
		return NewBooleanDomain(name), decodePayload(payload, &struct{}{})

	case DomainEnumeration:
		var p struct {
			Entries []EnumEntry `yaml:"entries"`
		}
		err := decodePayload(payload, &p)
		return NewEnumerationDomain(name, p.Entries...), err

	case DomainStringList:
		var p stringsPayload
		err := decodePayload(payload, &p)
		return NewStringListDomain(name, p.Strings...), err

	case DomainStringListRange:
		var p stringsPayload
		err := decodePayload(payload, &p)
		return NewStringListRangeDomain(name, p.Strings...), err

	case DomainArrayList:
		var p struct {
			Arrays []ArrayInfo `yaml:"arrays"`
		}
		err := decodePayload(payload, &p)
		return NewArrayListDomain(name, p.Arrays...), err

	case DomainDoubleRange, DomainIntRange:
		var p struct {
			Ranges []Range `yaml:"ranges"`
		}
		err := decodePayload(payload, &p)
		if kind == DomainIntRange {
			return NewIntRangeDomain(name, p.Ranges...), err
		}
		return NewDoubleRangeDomain(name, p.Ranges...), err

	case DomainProxyGroup:
		var p struct {
			Group string `yaml:"group"`
		}
		err := decodePayload(payload, &p)
		return NewProxyGroupDomain(name, p.Group), err

	case DomainCompositeTree:
		var p compositeTreePayload
		if err := decodePayload(payload, &p); err != nil {
			return nil, err
		}
		d := NewCompositeTreeDomain(name, ParseCompositeTreeMode(p.Mode))
		d.info = p.Information
		return d, nil

	case DomainProxyList:
		// Sub-proxies are created at runtime and added with Add
		return NewProxyListDomain(name), decodePayload(payload, &struct{}{})

	case DomainFileList:
		return NewFileListDomain(name), decodePayload(payload, &struct{}{})

	case DomainSIL:
		var p struct {
			Subtree string `yaml:"subtree"`
		}
		err := decodePayload(payload, &p)
		return NewSILDomain(name, p.Subtree), err
	}
	return nil, fmt.Errorf("domain: %w %q", ErrUnknownKind, kindName)
}

func decodePayload(payload map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(payload)
}
