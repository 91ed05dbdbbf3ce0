package spec

import "strings"

// Attribute describes the data requirements of a single SCIM attribute, as
// defined in RFC 7643 Section 2.2. Unlike a full resource property graph,
// an Attribute here is only ever consulted for validation: it is built once
// in Go code by the schema registry and never unmarshaled from the wire.
type Attribute struct {
	Name            string
	Description     string
	Type            Type
	SubAttributes   []*Attribute
	CanonicalValues []string
	MultiValued     bool
	Required        bool
	CaseExact       bool
	Mutability      Mutability
	Returned        Returned
	Uniqueness      Uniqueness
	ReferenceTypes  []string
}

// SubAttribute returns the sub attribute addressed by name (case insensitive),
// or nil if this attribute has no such sub attribute.
func (attr *Attribute) SubAttribute(name string) *Attribute {
	for _, sub := range attr.SubAttributes {
		if strings.EqualFold(sub.Name, name) {
			return sub
		}
	}
	return nil
}

// IsComplex returns true if the attribute's values are themselves structured
// by sub attributes.
func (attr *Attribute) IsComplex() bool {
	return attr.Type == TypeComplex
}

func (attr *Attribute) MarshalJSON() ([]byte, error) {
	return marshalAttribute(attr)
}
