package spec

// URNs of every schema this registry ships with.
const (
	UserSchemaURN               = "urn:ietf:params:scim:schemas:core:2.0:User"
	GroupSchemaURN               = "urn:ietf:params:scim:schemas:core:2.0:Group"
	EnterpriseUserExtensionURN   = "urn:ietf:params:scim:schemas:extension:enterprise:2.0:User"
	AgentSchemaURN               = "urn:ietf:params:scim:schemas:core:2.0:Agent"
	AgenticApplicationSchemaURN  = "urn:ietf:params:scim:schemas:core:2.0:AgenticApplication"
	PatchOpSchemaURN             = "urn:ietf:params:scim:api:messages:2.0:PatchOp"
	ListResponseSchemaURN        = "urn:ietf:params:scim:api:messages:2.0:ListResponse"
	ErrorSchemaURN               = "urn:ietf:params:scim:api:messages:2.0:Error"
	ServiceProviderConfigURN     = "urn:ietf:params:scim:schemas:core:2.0:ServiceProviderConfig"
	ResourceTypeSchemaURN        = "urn:ietf:params:scim:schemas:core:2.0:ResourceType"
)

func populateRegistry(r *schemaRegistry) {
	r.Register(coreUserSchema())
	r.Register(coreGroupSchema())
	r.Register(enterpriseUserExtensionSchema())
	r.Register(coreAgentSchema())
	r.Register(coreAgenticApplicationSchema())
	r.Register(patchOpSchema())
	r.Register(listResponseSchema())
	r.Register(errorSchema())
	r.Register(serviceProviderConfigSchema())
	r.Register(resourceTypeSchema())
}

func metaAttribute() *Attribute {
	return &Attribute{
		Name:       "meta",
		Type:       TypeComplex,
		Mutability: MutabilityReadOnly,
		Returned:   ReturnedDefault,
		SubAttributes: []*Attribute{
			{Name: "resourceType", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "created", Type: TypeDateTime, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "lastModified", Type: TypeDateTime, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "location", Type: TypeReference, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "version", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
		},
	}
}

func idAttribute() *Attribute {
	return &Attribute{Name: "id", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedAlways}
}

func externalIDAttribute() *Attribute {
	return &Attribute{Name: "externalId", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, Uniqueness: UniquenessNone}
}

func coreUserSchema() *Schema {
	return &Schema{
		ID:          UserSchemaURN,
		Name:        "User",
		Description: "User Account",
		Attributes: []*Attribute{
			{Name: "userName", Type: TypeString, Required: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, Uniqueness: UniquenessServer},
			{Name: "name", Type: TypeComplex, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: []*Attribute{
				{Name: "formatted", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "familyName", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "givenName", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "middleName", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "honorificPrefix", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "honorificSuffix", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			}},
			{Name: "displayName", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "nickName", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "profileUrl", Type: TypeReference, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "title", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "userType", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "preferredLanguage", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "locale", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "timezone", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "active", Type: TypeBoolean, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "password", Type: TypeString, Mutability: MutabilityWriteOnly, Returned: ReturnedNever},
			{Name: "emails", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: multiValuedSubAttrs()},
			{Name: "phoneNumbers", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: multiValuedSubAttrs()},
			{Name: "ims", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "photos", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "addresses", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: []*Attribute{
				{Name: "formatted", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "streetAddress", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "locality", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "region", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "postalCode", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "country", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "type", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "primary", Type: TypeBoolean, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			}},
			{Name: "groups", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "entitlements", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "roles", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "x509Certificates", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			idAttribute(),
			externalIDAttribute(),
			metaAttribute(),
		},
	}
}

func multiValuedSubAttrs() []*Attribute {
	return []*Attribute{
		{Name: "value", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
		{Name: "display", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
		{Name: "type", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
		{Name: "primary", Type: TypeBoolean, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
	}
}

func coreGroupSchema() *Schema {
	return &Schema{
		ID:          GroupSchemaURN,
		Name:        "Group",
		Description: "Group",
		Attributes: []*Attribute{
			{Name: "displayName", Type: TypeString, Required: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "members", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: []*Attribute{
				{Name: "value", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "$ref", Type: TypeReference, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
				{Name: "type", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "display", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			}},
			idAttribute(),
			externalIDAttribute(),
			metaAttribute(),
		},
	}
}

func enterpriseUserExtensionSchema() *Schema {
	return &Schema{
		ID:          EnterpriseUserExtensionURN,
		Name:        "EnterpriseUser",
		Description: "Enterprise User",
		Attributes: []*Attribute{
			{Name: "employeeNumber", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "costCenter", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "organization", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "division", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "department", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "manager", Type: TypeComplex, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: []*Attribute{
				{Name: "value", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "$ref", Type: TypeReference, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
				{Name: "displayName", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			}},
		},
	}
}

// coreAgentSchema models the draft agent extension's Agent resource type: an
// autonomous or semi-autonomous AI workload registered with the service
// provider. Carries the draft's "specifiationUrl" spelling verbatim; this is
// not a typo introduced here.
func coreAgentSchema() *Schema {
	return &Schema{
		ID:          AgentSchemaURN,
		Name:        "Agent",
		Description: "AI Agent",
		Attributes: []*Attribute{
			{Name: "name", Type: TypeString, Required: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "description", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "version", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "vendor", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "specifiationUrl", Type: TypeReference, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "active", Type: TypeBoolean, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "owner", Type: TypeComplex, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: []*Attribute{
				{Name: "value", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "$ref", Type: TypeReference, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
				{Name: "displayName", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			}},
			idAttribute(),
			externalIDAttribute(),
			metaAttribute(),
		},
	}
}

// coreAgenticApplicationSchema models the draft extension's
// AgenticApplication resource type: the hosting application that one or more
// Agent resources run within.
func coreAgenticApplicationSchema() *Schema {
	return &Schema{
		ID:          AgenticApplicationSchemaURN,
		Name:        "AgenticApplication",
		Description: "Agentic Application",
		Attributes: []*Attribute{
			{Name: "name", Type: TypeString, Required: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "description", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "url", Type: TypeReference, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "active", Type: TypeBoolean, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			{Name: "agents", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault, SubAttributes: []*Attribute{
				{Name: "value", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
				{Name: "$ref", Type: TypeReference, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
				{Name: "display", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			}},
			idAttribute(),
			externalIDAttribute(),
			metaAttribute(),
		},
	}
}

func patchOpSchema() *Schema {
	return &Schema{
		ID:          PatchOpSchemaURN,
		Name:        "PatchOp",
		Description: "SCIM 2.0 PATCH Operation",
		Attributes: []*Attribute{
			{Name: "Operations", Type: TypeComplex, MultiValued: true, Required: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault, SubAttributes: []*Attribute{
				{Name: "op", Type: TypeString, Required: true, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "path", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
				{Name: "value", Type: TypeString, Mutability: MutabilityReadWrite, Returned: ReturnedDefault},
			}},
		},
	}
}

func listResponseSchema() *Schema {
	return &Schema{
		ID:          ListResponseSchemaURN,
		Name:        "ListResponse",
		Description: "SCIM 2.0 List Response",
		Attributes: []*Attribute{
			{Name: "totalResults", Type: TypeInteger, Required: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "itemsPerPage", Type: TypeInteger, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "startIndex", Type: TypeInteger, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "Resources", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
		},
	}
}

func errorSchema() *Schema {
	return &Schema{
		ID:          ErrorSchemaURN,
		Name:        "Error",
		Description: "SCIM 2.0 Error Response",
		Attributes: []*Attribute{
			{Name: "status", Type: TypeString, Required: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "scimType", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "detail", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
		},
	}
}

func serviceProviderConfigSchema() *Schema {
	return &Schema{
		ID:          ServiceProviderConfigURN,
		Name:        "ServiceProviderConfig",
		Description: "SCIM 2.0 Service Provider Configuration",
		Attributes: []*Attribute{
			{Name: "documentationUri", Type: TypeReference, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "patch", Type: TypeComplex, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "bulk", Type: TypeComplex, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "filter", Type: TypeComplex, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "changePassword", Type: TypeComplex, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "sort", Type: TypeComplex, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "etag", Type: TypeComplex, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "authenticationSchemes", Type: TypeComplex, MultiValued: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
		},
	}
}

func resourceTypeSchema() *Schema {
	return &Schema{
		ID:          ResourceTypeSchemaURN,
		Name:        "ResourceType",
		Description: "SCIM 2.0 Resource Type",
		Attributes: []*Attribute{
			{Name: "id", Type: TypeString, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "name", Type: TypeString, Required: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "endpoint", Type: TypeReference, Required: true, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
			{Name: "schema", Type: TypeReference, Mutability: MutabilityReadOnly, Returned: ReturnedDefault},
		},
	}
}

// GetAttribute resolves an attribute by schema URN and dot-separated path,
// descending into subAttributes segment by segment. Returns ok=false on any
// miss, mirroring the original's get_attribute_def.
func GetAttribute(urn, dottedPath string) (attr *Attribute, ok bool) {
	schema, exists := Schemas().Get(urn)
	if !exists {
		return nil, false
	}

	var current *Attribute
	var pool = schema.Attributes
	var segment string
	rest := dottedPath
	for rest != "" {
		if idx := indexOfDot(rest); idx >= 0 {
			segment, rest = rest[:idx], rest[idx+1:]
		} else {
			segment, rest = rest, ""
		}
		current = attributeByName(pool, segment)
		if current == nil {
			return nil, false
		}
		pool = current.SubAttributes
	}
	return current, current != nil
}

func attributeByName(attrs []*Attribute, name string) *Attribute {
	for _, attr := range attrs {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

func indexOfDot(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
