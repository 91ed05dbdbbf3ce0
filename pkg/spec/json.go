package spec

import "encoding/json"

// attributeJSON mirrors the wire representation of a SCIM attribute
// definition, as returned from the /Schemas discovery endpoint.
type attributeJSON struct {
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Type            string           `json:"type"`
	MultiValued     bool             `json:"multiValued"`
	Required        bool             `json:"required"`
	CaseExact       bool             `json:"caseExact"`
	Mutability      string           `json:"mutability"`
	Returned        string           `json:"returned"`
	Uniqueness      string           `json:"uniqueness"`
	CanonicalValues []string         `json:"canonicalValues,omitempty"`
	ReferenceTypes  []string         `json:"referenceTypes,omitempty"`
	SubAttributes   []*attributeJSON `json:"subAttributes,omitempty"`
}

func marshalAttribute(attr *Attribute) ([]byte, error) {
	return json.Marshal(toAttributeJSON(attr))
}

func toAttributeJSON(attr *Attribute) *attributeJSON {
	aj := &attributeJSON{
		Name:            attr.Name,
		Description:     attr.Description,
		Type:            attr.Type.String(),
		MultiValued:     attr.MultiValued,
		Required:        attr.Required,
		CaseExact:       attr.CaseExact,
		Mutability:      attr.Mutability.String(),
		Returned:        attr.Returned.String(),
		Uniqueness:      attr.Uniqueness.String(),
		CanonicalValues: attr.CanonicalValues,
		ReferenceTypes:  attr.ReferenceTypes,
	}
	for _, sub := range attr.SubAttributes {
		aj.SubAttributes = append(aj.SubAttributes, toAttributeJSON(sub))
	}
	return aj
}

type schemaJSON struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Attributes  []*attributeJSON `json:"attributes"`
}
