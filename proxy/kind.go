package proxy

import "strings"

// Kind tags the storage type of a property's elements.
type Kind int

const (
	KindUnknown Kind = iota
	KindDouble
	KindInt
	KindIdType
	KindString
	KindProxy
)

var kindNames = []string{"unknown", "double", "int", "idtype", "string", "proxy"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[0]
	}
	return kindNames[k]
}

// ParseKind returns the Kind named by s, or KindUnknown.
func ParseKind(s string) Kind {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == s {
			return Kind(i)
		}
	}
	return KindUnknown
}

// DomainKind tags the concrete type of a Domain.
type DomainKind int

const (
	DomainUnknown DomainKind = iota
	DomainBoolean
	DomainEnumeration
	DomainStringList
	DomainProxyGroup
	DomainDoubleRange
	DomainIntRange
	DomainStringListRange
	DomainArrayList
	DomainCompositeTree
	DomainProxyList
	DomainFileList
	DomainSIL
)

var domainKindNames = []string{
	"unknown",
	"boolean",
	"enumeration",
	"string_list",
	"proxy_group",
	"double_range",
	"int_range",
	"string_list_range",
	"array_list",
	"composite_tree",
	"proxy_list",
	"file_list",
	"sil",
}

func (k DomainKind) String() string {
	if k < 0 || int(k) >= len(domainKindNames) {
		return domainKindNames[0]
	}
	return domainKindNames[k]
}

// ParseDomainKind returns the DomainKind named by s, or DomainUnknown.
// Names are the snake case forms returned by String.
func ParseDomainKind(s string) DomainKind {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range domainKindNames {
		if name == s {
			return DomainKind(i)
		}
	}
	return DomainUnknown
}
