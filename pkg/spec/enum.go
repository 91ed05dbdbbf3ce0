package spec

// enumKeyword pairs a RFC 7643 attribute-level enumeration value with its
// wire-format keyword. Type, Mutability, Returned, and Uniqueness each
// declare a table of these indexed by their own int constants, so parsing
// and stringifying every enum in the registry goes through the same two
// functions instead of four hand-written switch statements.
type enumKeyword struct {
	keyword string
}

// parseEnum resolves value against table, returning the index of the
// matching keyword. An empty value resolves to def (the enum's zero value,
// per RFC 7643's "readWrite"/"default"/"none"/"string" defaults). Any other
// unrecognized value panics — schema attribute definitions are fixed at
// registration time in registry.go, never parsed from untrusted input, so
// an unknown keyword here is a registry bug, not bad user data.
func parseEnum(table []enumKeyword, value string, def int) int {
	if value == "" {
		return def
	}
	for i, e := range table {
		if e.keyword == value {
			return i
		}
	}
	panic("spec: invalid enumeration value " + value)
}

func stringEnum(table []enumKeyword, name string, idx int) string {
	if idx < 0 || idx >= len(table) {
		panic("spec: invalid " + name + " value")
	}
	return table[idx].keyword
}

// Type is a SCIM attribute data type, as defined in RFC 7643 Section 2.3.
type Type int

// SCIM data types defined in RFC 7643.
const (
	TypeString Type = iota
	TypeBoolean
	TypeInteger
	TypeDecimal
	TypeBinary
	TypeDateTime
	TypeReference
	TypeComplex
)

var typeKeywords = []enumKeyword{
	TypeString:    {"string"},
	TypeBoolean:   {"boolean"},
	TypeInteger:   {"integer"},
	TypeDecimal:   {"decimal"},
	TypeBinary:    {"binary"},
	TypeDateTime:  {"dateTime"},
	TypeReference: {"reference"},
	TypeComplex:   {"complex"},
}

func parseType(value string) Type { return Type(parseEnum(typeKeywords, value, int(TypeString))) }

func (t Type) String() string { return stringEnum(typeKeywords, "type", int(t)) }

// Mutability describes who may set an attribute's value and when, as
// defined in RFC 7643 Section 2.2.
type Mutability int

const (
	MutabilityReadWrite Mutability = iota
	MutabilityReadOnly
	MutabilityImmutable
	MutabilityWriteOnly
)

var mutabilityKeywords = []enumKeyword{
	MutabilityReadWrite: {"readWrite"},
	MutabilityReadOnly:  {"readOnly"},
	MutabilityImmutable: {"immutable"},
	MutabilityWriteOnly: {"writeOnly"},
}

func parseMutability(value string) Mutability {
	return Mutability(parseEnum(mutabilityKeywords, value, int(MutabilityReadWrite)))
}

func (m Mutability) String() string { return stringEnum(mutabilityKeywords, "mutability", int(m)) }

// Returned describes when an attribute is included in a response, as
// defined in RFC 7643 Section 2.2.
type Returned int

const (
	ReturnedDefault Returned = iota
	ReturnedAlways
	ReturnedNever
	ReturnedRequest
)

var returnedKeywords = []enumKeyword{
	ReturnedDefault: {"default"},
	ReturnedAlways:  {"always"},
	ReturnedNever:   {"never"},
	ReturnedRequest: {"request"},
}

func parseReturned(value string) Returned {
	return Returned(parseEnum(returnedKeywords, value, int(ReturnedDefault)))
}

func (r Returned) String() string { return stringEnum(returnedKeywords, "returned", int(r)) }

// Uniqueness describes how the service provider enforces uniqueness of
// attribute values, as defined in RFC 7643 Section 2.2.
type Uniqueness int

const (
	UniquenessNone Uniqueness = iota
	UniquenessServer
	UniquenessGlobal
)

var uniquenessKeywords = []enumKeyword{
	UniquenessNone:   {"none"},
	UniquenessServer: {"server"},
	UniquenessGlobal: {"global"},
}

func parseUniqueness(value string) Uniqueness {
	return Uniqueness(parseEnum(uniquenessKeywords, value, int(UniquenessNone)))
}

func (u Uniqueness) String() string { return stringEnum(uniquenessKeywords, "uniqueness", int(u)) }
